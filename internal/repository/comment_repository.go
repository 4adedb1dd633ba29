package repository

import (
	"context"

	"gorm.io/gorm"

	"fairway/backend/internal/models"
)

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListForRounds(ctx context.Context, roundIDs []string) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

// Create inserts c and loads its author.
func (r *commentRepository) Create(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Author").First(c, "id = ?", c.ID).Error
}

func (r *commentRepository) Get(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) ListForRounds(ctx context.Context, roundIDs []string) ([]models.Comment, error) {
	var out []models.Comment
	if len(roundIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Preload("Author").
		Where("round_id IN ?", roundIDs).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
