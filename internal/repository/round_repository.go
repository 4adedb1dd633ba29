package repository

import (
	"context"

	"gorm.io/gorm"

	"fairway/backend/internal/models"
)

type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	Get(ctx context.Context, id string) (*models.Round, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Round, error)
	// ListByIDs returns the rounds in the order of ids, skipping missing ones.
	ListByIDs(ctx context.Context, ids []string) ([]models.Round, error)
}

type roundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) RoundRepository { return &roundRepository{db: db} }

func (r *roundRepository) Create(ctx context.Context, round *models.Round) error {
	return r.db.WithContext(ctx).Create(round).Error
}

func (r *roundRepository) Get(ctx context.Context, id string) (*models.Round, error) {
	var round models.Round
	if err := r.db.WithContext(ctx).Preload("Author").First(&round, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &round, nil
}

// Delete removes a round together with its reactions and comments.
func (r *roundRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("round_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("round_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Round{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *roundRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Round, error) {
	var rounds []models.Round
	err := r.db.WithContext(ctx).Preload("Author").
		Where("user_id = ?", userID).
		Order("played_at DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rounds).Error
	return rounds, err
}

func (r *roundRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Round, error) {
	if len(ids) == 0 {
		return []models.Round{}, nil
	}
	var found []models.Round
	if err := r.db.WithContext(ctx).Preload("Author").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Round, len(found))
	for _, round := range found {
		byID[round.ID] = round
	}
	out := make([]models.Round, 0, len(ids))
	for _, id := range ids {
		if round, ok := byID[id]; ok {
			out = append(out, round)
		}
	}
	return out, nil
}
