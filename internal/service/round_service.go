package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/hub"
	"fairway/backend/internal/models"
	"fairway/backend/internal/photo"
	"fairway/backend/internal/repository"
	"fairway/backend/internal/scoring"
	"fairway/backend/internal/storage"
	"fairway/backend/pkg/logger"
)

// MaxHoleStrokes bounds a single hole score.
const MaxHoleStrokes = 20

// CreateRoundInput is a submitted score card. Photo is optional.
type CreateRoundInput struct {
	CourseID     *string
	CourseName   string
	ClubName     string
	City         string
	State        string
	PlayedAt     time.Time
	Front9       *int
	Back9        *int
	TotalScore   int
	ScoresByHole []*int
	Par          *int
	CoursePars   []int
	TeeData      json.RawMessage
	Caption      *string

	Photo     []byte
	PhotoName string
}

type RoundService struct {
	rounds     repository.RoundRepository
	courses    repository.CourseRepository
	store      storage.Store
	compressor *photo.Compressor
	hub        *hub.Hub
	views      *viewBuilder
}

func NewRoundService(
	rounds repository.RoundRepository,
	courses repository.CourseRepository,
	reactions repository.ReactionRepository,
	comments repository.CommentRepository,
	follows repository.FollowRepository,
	store storage.Store,
	compressor *photo.Compressor,
	h *hub.Hub,
	normalizer *feed.Normalizer,
) *RoundService {
	return &RoundService{
		rounds:     rounds,
		courses:    courses,
		store:      store,
		compressor: compressor,
		hub:        h,
		views:      &viewBuilder{reactions: reactions, comments: comments, follows: follows, normalizer: normalizer},
	}
}

// buildRound validates the card and derives the nine and total scores from the played
// holes, so a stored round always satisfies the totals invariant.
func buildRound(userID string, in CreateRoundInput) (*models.Round, error) {
	if len(in.ScoresByHole) > models.HolesPerRound {
		return nil, fmt.Errorf("%w: at most %d holes", ErrInvalidRound, models.HolesPerRound)
	}
	if len(in.CoursePars) > models.HolesPerRound {
		return nil, fmt.Errorf("%w: at most %d hole pars", ErrInvalidRound, models.HolesPerRound)
	}

	r := &models.Round{
		ID:         uuid.NewString(),
		UserID:     userID,
		CourseID:   in.CourseID,
		CourseName: strings.TrimSpace(in.CourseName),
		ClubName:   strings.TrimSpace(in.ClubName),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PlayedAt:   in.PlayedAt,
		Par:        in.Par,
		Caption:    in.Caption,
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now().UTC()
	}
	if len(in.TeeData) > 0 {
		r.TeeData = []byte(in.TeeData)
	}
	if len(in.CoursePars) > 0 {
		r.CoursePars = in.CoursePars
	}

	if len(in.ScoresByHole) > 0 {
		holes := make([]*int, models.HolesPerRound)
		copy(holes, in.ScoresByHole)
		for i, s := range holes {
			if s != nil && (*s < 1 || *s > MaxHoleStrokes) {
				return nil, fmt.Errorf("%w: hole %d score must be between 1 and %d", ErrInvalidRound, i+1, MaxHoleStrokes)
			}
		}
		if front, back, total, ok := scoring.Totals(holes); ok {
			r.ScoresByHole = holes
			r.Front9, r.Back9, r.TotalScore = front, back, total
			return r, nil
		}
	}

	r.Front9, r.Back9, r.TotalScore = in.Front9, in.Back9, in.TotalScore
	if r.TotalScore <= 0 && (r.Front9 != nil || r.Back9 != nil) {
		for _, n := range []*int{r.Front9, r.Back9} {
			if n != nil {
				r.TotalScore += *n
			}
		}
	}
	if r.TotalScore <= 0 {
		return nil, ErrMissingScore
	}
	return r, nil
}

// Create stores a new round. A photo is compressed and uploaded first; if the round
// cannot be saved the upload is removed again.
func (s *RoundService) Create(ctx context.Context, userID string, in CreateRoundInput) (*feed.RoundView, error) {
	round, err := buildRound(userID, in)
	if err != nil {
		return nil, err
	}

	if round.CourseID != nil && *round.CourseID != "" {
		course, err := s.courses.Get(ctx, *round.CourseID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown course", ErrInvalidRound)
		}
		fillFromCourse(round, course)
	}

	if len(in.Photo) > 0 {
		res, err := s.compressor.Compress(in.Photo)
		if err != nil {
			return nil, err
		}
		key := storage.ObjectKey(storage.BucketPhotos, userID, in.PhotoName, photo.Extension(res.ContentType))
		url, err := s.store.Upload(ctx, key, res.Data, res.ContentType)
		if err != nil {
			return nil, err
		}
		round.PhotoURL, round.PhotoKey = &url, &key
	}

	if err := s.rounds.Create(ctx, round); err != nil {
		if round.PhotoKey != nil {
			s.removeObject(ctx, *round.PhotoKey)
		}
		return nil, err
	}
	logger.Info("round created", zap.String("round_id", round.ID), zap.String("user_id", userID), zap.Int("total", round.TotalScore))
	return s.Get(ctx, userID, round.ID)
}

func fillFromCourse(r *models.Round, c *models.Course) {
	if r.CourseName == "" {
		r.CourseName = c.CourseName
	}
	if r.ClubName == "" {
		r.ClubName = c.ClubName
	}
	if r.City == "" {
		r.City = c.City
	}
	if r.State == "" {
		r.State = c.State
	}
	if r.Par == nil {
		r.Par = c.Par
	}
	if len(r.CoursePars) == 0 {
		r.CoursePars = c.CoursePars
	}
}

func (s *RoundService) Get(ctx context.Context, viewerID, id string) (*feed.RoundView, error) {
	round, err := s.rounds.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views.build(ctx, viewerID, []models.Round{*round}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RoundService) ListByUser(ctx context.Context, viewerID, userID string, offset, limit int) ([]feed.RoundView, error) {
	rounds, err := s.rounds.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.views.build(ctx, viewerID, rounds, nil)
}

// Delete removes the caller's own round and its photo.
func (s *RoundService) Delete(ctx context.Context, userID, id string) error {
	round, err := s.rounds.Get(ctx, id)
	if err != nil {
		return err
	}
	if round.UserID != userID {
		return ErrForbidden
	}
	if err := s.rounds.Delete(ctx, id); err != nil {
		return err
	}
	if round.PhotoKey != nil {
		s.removeObject(ctx, *round.PhotoKey)
	}
	s.hub.Broadcast(id, hub.Event{Type: hub.EventRoundDeleted, Payload: map[string]string{"round_id": id}})
	return nil
}

func (s *RoundService) removeObject(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		logger.Warn("failed to remove stored object", zap.String("key", key), zap.Error(err))
	}
}
