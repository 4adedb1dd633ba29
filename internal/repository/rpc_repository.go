package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fairway/backend/internal/settings"
)

// Row is an opaque result row of a server-side function.
type Row = map[string]any

// ListKind selects the moderation list an admin function serves.
type ListKind string

const (
	ListUsers    ListKind = "users"
	ListComments ListKind = "comments"
	ListRounds   ListKind = "rounds"
)

var (
	listFunctions = map[ListKind]string{
		ListUsers:    "admin_list_users",
		ListComments: "admin_list_comments",
		ListRounds:   "admin_list_rounds",
	}
	deleteFunctions = map[ListKind]string{
		ListUsers:    "admin_delete_user",
		ListComments: "admin_delete_comment",
		ListRounds:   "admin_delete_round",
	}
)

// Metric names the time-series functions.
type Metric string

const (
	MetricActivity   Metric = "activity"
	MetricGrowth     Metric = "growth"
	MetricEngagement Metric = "engagement"
)

var metricFunctions = map[Metric]string{
	MetricActivity:   "get_activity_metrics",
	MetricGrowth:     "get_growth_metrics",
	MetricEngagement: "get_engagement_metrics",
}

// ListQuery parameterizes the moderation list functions.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
	Sort   string
}

// RPCRepository calls the server-side functions that rank the feed and aggregate metrics.
// Their logic lives in the database; only their signatures are relied on here.
type RPCRepository interface {
	FeedWithDiscovery(ctx context.Context, userID string, limit, offset int, s settings.FeedSettings) ([]FeedEntry, error)
	DashboardOverview(ctx context.Context) (Row, error)
	MetricRange(ctx context.Context, m Metric, start, end time.Time) ([]Row, error)
	AdminList(ctx context.Context, kind ListKind, q ListQuery) ([]Row, int64, error)
	AdminDelete(ctx context.Context, kind ListKind, id string) (Row, error)
	BanUser(ctx context.Context, id string) (Row, error)
}

type rpcRepository struct {
	db *gorm.DB
}

func NewRPCRepository(db *gorm.DB) RPCRepository { return &rpcRepository{db: db} }

func (r *rpcRepository) FeedWithDiscovery(ctx context.Context, userID string, limit, offset int, s settings.FeedSettings) ([]FeedEntry, error) {
	var rows []rawRound
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_feed_with_discovery(?, ?, ?, ?, ?)", userID, limit, offset, string(s.Mode), s.DiscoveryRatio).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get_feed_with_discovery: %w", err)
	}
	entries := make([]FeedEntry, 0, len(rows))
	for _, raw := range rows {
		entries = append(entries, FeedEntry{Round: canonicalRound(raw), Source: str(raw.Source), Reason: str(raw.Reason)})
	}
	return entries, nil
}

func (r *rpcRepository) DashboardOverview(ctx context.Context) (Row, error) {
	var rows []Row
	if err := r.db.WithContext(ctx).Raw("SELECT * FROM get_dashboard_overview()").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get_dashboard_overview: %w", err)
	}
	if len(rows) == 0 {
		return Row{}, nil
	}
	return rows[0], nil
}

func (r *rpcRepository) MetricRange(ctx context.Context, m Metric, start, end time.Time) ([]Row, error) {
	fn, ok := metricFunctions[m]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", m)
	}
	rows := []Row{}
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM "+fn+"(?, ?)", start.Format(time.DateOnly), end.Format(time.DateOnly)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return rows, nil
}

// AdminList returns one page of a moderation list. Each row carries the unpaged total in
// its total_count column.
func (r *rpcRepository) AdminList(ctx context.Context, kind ListKind, q ListQuery) ([]Row, int64, error) {
	fn, ok := listFunctions[kind]
	if !ok {
		return nil, 0, fmt.Errorf("unknown list %q", kind)
	}
	rows := []Row{}
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM "+fn+"(?, ?, ?, ?)", q.Search, q.Limit, q.Offset, q.Sort).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", fn, err)
	}
	var total int64
	for _, row := range rows {
		if v, ok := row["total_count"]; ok {
			total = toInt64(v)
		}
		delete(row, "total_count")
	}
	return rows, total, nil
}

func (r *rpcRepository) AdminDelete(ctx context.Context, kind ListKind, id string) (Row, error) {
	fn, ok := deleteFunctions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown list %q", kind)
	}
	return r.single(ctx, fn, id)
}

func (r *rpcRepository) BanUser(ctx context.Context, id string) (Row, error) {
	return r.single(ctx, "admin_ban_user", id)
}

func (r *rpcRepository) single(ctx context.Context, fn, id string) (Row, error) {
	var rows []Row
	if err := r.db.WithContext(ctx).Raw("SELECT * FROM "+fn+"(?)", id).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	if len(rows) == 0 {
		return Row{"success": false}, nil
	}
	return rows[0], nil
}
