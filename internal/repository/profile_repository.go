package repository

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fairway/backend/internal/models"
)

type ProfileRepository interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	// Ensure returns the profile for id, creating it on first sight.
	Ensure(ctx context.Context, id, usernameHint string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	SetAvatar(ctx context.Context, id string, url *string) error
	Search(ctx context.Context, query string, offset, limit int) ([]models.Profile, int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// DefaultUsername derives a unique username from a hint such as an email address.
func DefaultUsername(id, hint string) string {
	if at := strings.IndexByte(hint, '@'); at >= 0 {
		hint = hint[:at]
	}
	base := slug.Make(hint)
	if base == "" {
		base = "golfer"
	}
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return base + "-" + suffix
}

func (r *profileRepository) Ensure(ctx context.Context, id, usernameHint string) (*models.Profile, error) {
	p := &models.Profile{ID: id, Username: DefaultUsername(id, usernameHint), Role: models.RoleUser}
	// Concurrent first requests race here; the loser's insert is a no-op.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *profileRepository) Update(ctx context.Context, p *models.Profile) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{ID: p.ID}).
		Select("Username", "FullName", "Bio", "Location", "Handicap").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepository) SetAvatar(ctx context.Context, id string, url *string) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{ID: id}).Update("avatar_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepository) Search(ctx context.Context, query string, offset, limit int) ([]models.Profile, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{}).Where("banned = ?", false)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Profile
	err := q.Order("username ASC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}
