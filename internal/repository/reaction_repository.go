package repository

import (
	"context"

	"gorm.io/gorm"

	"fairway/backend/internal/models"
)

type ReactionRepository interface {
	// Toggle removes the reaction if it exists and adds it otherwise. reacted reports
	// whether the reaction exists afterwards.
	Toggle(ctx context.Context, userID, roundID string, t models.ReactionType) (reacted bool, err error)
	ListForRounds(ctx context.Context, roundIDs []string) ([]models.Reaction, error)
	ListByUser(ctx context.Context, userID string, roundIDs []string) ([]models.Reaction, error)
	Counts(ctx context.Context, roundID string) (models.ReactionCounts, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) Toggle(ctx context.Context, userID, roundID string, t models.ReactionType) (bool, error) {
	reacted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND round_id = ? AND reaction_type = ?", userID, roundID, t).
			Delete(&models.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		reacted = true
		return tx.Create(&models.Reaction{UserID: userID, RoundID: roundID, ReactionType: t}).Error
	})
	return reacted, err
}

func (r *reactionRepository) ListForRounds(ctx context.Context, roundIDs []string) ([]models.Reaction, error) {
	var out []models.Reaction
	if len(roundIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("round_id IN ?", roundIDs).Find(&out).Error
	return out, err
}

func (r *reactionRepository) ListByUser(ctx context.Context, userID string, roundIDs []string) ([]models.Reaction, error) {
	var out []models.Reaction
	if userID == "" || len(roundIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("user_id = ? AND round_id IN ?", userID, roundIDs).Find(&out).Error
	return out, err
}

func (r *reactionRepository) Counts(ctx context.Context, roundID string) (models.ReactionCounts, error) {
	var rows []struct {
		ReactionType models.ReactionType
		N            int
	}
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) AS n").
		Where("round_id = ?", roundID).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := models.NewReactionCounts()
	for _, row := range rows {
		if row.ReactionType.Valid() {
			counts[row.ReactionType] = row.N
		}
	}
	return counts, nil
}
