package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fairway/backend/internal/cache"
	"fairway/backend/internal/coursename"
	"fairway/backend/internal/models"
	"fairway/backend/internal/repository"
	"fairway/backend/pkg/logger"
)

// CourseView is a catalog entry with its resolved display label.
type CourseView struct {
	models.Course
	DisplayName string `json:"display_name"`
}

type CourseInput struct {
	CourseName string
	ClubName   string
	City       string
	State      string
	Par        *int
	CoursePars []int
}

// CourseSearchResult is one page of course search.
type CourseSearchResult struct {
	Items []CourseView `json:"items"`
	Total int64        `json:"total"`
}

type CourseService struct {
	courses repository.CourseRepository
	names   *coursename.Resolver
	cache   *cache.JSON
}

func NewCourseService(courses repository.CourseRepository, names *coursename.Resolver, c *cache.JSON) *CourseService {
	return &CourseService{courses: courses, names: names, cache: c}
}

func (s *CourseService) view(c models.Course) CourseView {
	return CourseView{Course: c, DisplayName: s.names.DisplayName(c.CourseName, c.ClubName)}
}

func (s *CourseService) Search(ctx context.Context, query string, offset, limit int) (*CourseSearchResult, error) {
	query = strings.ToLower(strings.Join(strings.Fields(query), " "))
	key := fmt.Sprintf("search:%s:%d:%d", query, offset, limit)
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*CourseSearchResult, error) {
		courses, total, err := s.courses.Search(ctx, query, offset, limit)
		if err != nil {
			return nil, err
		}
		items := make([]CourseView, len(courses))
		for i, c := range courses {
			items[i] = s.view(c)
		}
		return &CourseSearchResult{Items: items, Total: total}, nil
	})
}

func (s *CourseService) Get(ctx context.Context, id string) (*CourseView, error) {
	c, err := s.courses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*c)
	return &v, nil
}

func validateCourse(in CourseInput) (models.Course, error) {
	c := models.Course{
		CourseName: strings.TrimSpace(in.CourseName),
		ClubName:   strings.TrimSpace(in.ClubName),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		Par:        in.Par,
	}
	if c.CourseName == "" && c.ClubName == "" {
		return c, fmt.Errorf("%w: a course or club name is required", ErrInvalidCourse)
	}
	if len(in.CoursePars) > 0 {
		if len(in.CoursePars) != models.HolesPerRound {
			return c, fmt.Errorf("%w: course_pars must list %d holes", ErrInvalidCourse, models.HolesPerRound)
		}
		sum := 0
		for i, p := range in.CoursePars {
			if p < 3 || p > 6 {
				return c, fmt.Errorf("%w: par of hole %d must be between 3 and 6", ErrInvalidCourse, i+1)
			}
			sum += p
		}
		c.CoursePars = in.CoursePars
		if c.Par == nil {
			c.Par = &sum
		}
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*CourseView, error) {
	c, err := validateCourse(in)
	if err != nil {
		return nil, err
	}
	c.ID = uuid.NewString()
	if err := s.courses.Create(ctx, &c); err != nil {
		return nil, err
	}
	s.purge(ctx)
	v := s.view(c)
	return &v, nil
}

func (s *CourseService) Update(ctx context.Context, id string, in CourseInput) (*CourseView, error) {
	c, err := validateCourse(in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.courses.Update(ctx, &c); err != nil {
		return nil, err
	}
	s.purge(ctx)
	return s.Get(ctx, id)
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.purge(ctx)
	return nil
}

func (s *CourseService) purge(ctx context.Context) {
	if err := s.cache.Purge(ctx); err != nil {
		logger.Warn("failed to purge course cache", zap.Error(err))
	}
}
