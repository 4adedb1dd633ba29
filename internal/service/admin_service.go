package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fairway/backend/internal/cache"
	"fairway/backend/internal/repository"
	"fairway/backend/pkg/logger"
)

// MaxMetricRange bounds the span of a metrics query.
const MaxMetricRange = 366 * 24 * time.Hour

var listSorts = map[string]bool{"": true, "newest": true, "oldest": true, "name": true, "activity": true}

// AdminList is one page of a moderation list.
type AdminList struct {
	Items      []repository.Row `json:"items"`
	TotalCount int64            `json:"total_count"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// AdminService fronts the dashboard and moderation functions.
type AdminService struct {
	rpc   repository.RPCRepository
	cache *cache.JSON
}

func NewAdminService(rpc repository.RPCRepository, c *cache.JSON) *AdminService {
	return &AdminService{rpc: rpc, cache: c}
}

func (s *AdminService) Dashboard(ctx context.Context) (repository.Row, error) {
	return cache.Fetch(ctx, s.cache, "dashboard", s.rpc.DashboardOverview)
}

func (s *AdminService) Metrics(ctx context.Context, m repository.Metric, start, end time.Time) ([]repository.Row, error) {
	switch m {
	case repository.MetricActivity, repository.MetricGrowth, repository.MetricEngagement:
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidRange, m)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end is before start", ErrInvalidRange)
	}
	if end.Sub(start) > MaxMetricRange {
		return nil, fmt.Errorf("%w: at most one year", ErrInvalidRange)
	}
	key := fmt.Sprintf("metrics:%s:%s:%s", m, start.Format(time.DateOnly), end.Format(time.DateOnly))
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]repository.Row, error) {
		return s.rpc.MetricRange(ctx, m, start, end)
	})
}

func (s *AdminService) List(ctx context.Context, kind repository.ListKind, q repository.ListQuery) (*AdminList, error) {
	switch kind {
	case repository.ListUsers, repository.ListComments, repository.ListRounds:
	default:
		return nil, fmt.Errorf("%w: unknown list %q", ErrInvalidList, kind)
	}
	if !listSorts[q.Sort] {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidList, q.Sort)
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 25
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	rows, total, err := s.rpc.AdminList(ctx, kind, q)
	if err != nil {
		return nil, err
	}
	return &AdminList{Items: rows, TotalCount: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Delete removes a user, comment or round through the moderation function and reports
// what was deleted alongside it.
func (s *AdminService) Delete(ctx context.Context, kind repository.ListKind, id string) (repository.Row, error) {
	res, err := s.rpc.AdminDelete(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)
	logger.Info("admin delete", zap.String("kind", string(kind)), zap.String("id", id))
	return res, nil
}

func (s *AdminService) Ban(ctx context.Context, userID string) (repository.Row, error) {
	res, err := s.rpc.BanUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)
	logger.Info("admin ban", zap.String("user_id", userID))
	return res, nil
}

func (s *AdminService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, "dashboard"); err != nil {
		logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
