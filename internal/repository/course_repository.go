package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"fairway/backend/internal/models"
)

type CourseRepository interface {
	Search(ctx context.Context, query string, offset, limit int) ([]models.Course, int64, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository { return &courseRepository{db: db} }

func (r *courseRepository) Search(ctx context.Context, query string, offset, limit int) ([]models.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Course{})
	for _, word := range strings.Fields(strings.ToLower(query)) {
		like := "%" + word + "%"
		q = q.Where("LOWER(course_name) LIKE ? OR LOWER(club_name) LIKE ? OR LOWER(city) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var courses []models.Course
	err := q.Order("club_name ASC, course_name ASC").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *courseRepository) Get(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *courseRepository) Create(ctx context.Context, c *models.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepository) Update(ctx context.Context, c *models.Course) error {
	res := r.db.WithContext(ctx).Model(&models.Course{ID: c.ID}).
		Select("CourseName", "ClubName", "City", "State", "Par", "CoursePars").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
