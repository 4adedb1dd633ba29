package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fairway/backend/internal/cache"
	"fairway/backend/internal/coursename"
	"fairway/backend/internal/feed"
	"fairway/backend/internal/hub"
	"fairway/backend/internal/models"
	"fairway/backend/internal/photo"
	"fairway/backend/internal/repository"
	"fairway/backend/internal/settings"
	"fairway/backend/internal/storage"
)

type fakeRPC struct {
	feed      []repository.FeedEntry
	feedErr   error
	lastLimit int
	lastMode  settings.Mode
	dashCalls int
	deleted   []string
}

func (f *fakeRPC) FeedWithDiscovery(_ context.Context, _ string, limit, offset int, s settings.FeedSettings) ([]repository.FeedEntry, error) {
	f.lastLimit, f.lastMode = limit, s.Mode
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	if offset >= len(f.feed) {
		return []repository.FeedEntry{}, nil
	}
	end := offset + limit
	if end > len(f.feed) {
		end = len(f.feed)
	}
	return f.feed[offset:end], nil
}

func (f *fakeRPC) DashboardOverview(context.Context) (repository.Row, error) {
	f.dashCalls++
	return repository.Row{"total_rounds": 3}, nil
}

func (f *fakeRPC) MetricRange(_ context.Context, m repository.Metric, start, _ time.Time) ([]repository.Row, error) {
	return []repository.Row{{"day": start.Format(time.DateOnly), "metric": string(m)}}, nil
}

func (f *fakeRPC) AdminList(_ context.Context, kind repository.ListKind, q repository.ListQuery) ([]repository.Row, int64, error) {
	return []repository.Row{{"kind": string(kind), "search": q.Search}}, 41, nil
}

func (f *fakeRPC) AdminDelete(_ context.Context, kind repository.ListKind, id string) (repository.Row, error) {
	f.deleted = append(f.deleted, string(kind)+":"+id)
	return repository.Row{"success": true, "deleted_comments": 2}, nil
}

func (f *fakeRPC) BanUser(_ context.Context, id string) (repository.Row, error) {
	return repository.Row{"success": true}, nil
}

type env struct {
	db       *gorm.DB
	store    *storage.MemoryStore
	hub      *hub.Hub
	rpc      *fakeRPC
	rounds   *RoundService
	social   *SocialService
	follows  FollowService
	profiles *ProfileService
	feed     *FeedService
	courses  *CourseService
	admin    *AdminService
	provider *settings.Provider
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Follow{}, &models.Round{}, &models.Reaction{},
		&models.Comment{}, &models.Course{}, &models.AppSetting{},
	))
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	roundRepo := repository.NewRoundRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	e := &env{db: db, store: storage.NewMemoryStore("https://cdn.test"), hub: hub.NewHub(), rpc: &fakeRPC{}}
	normalizer := feed.NewNormalizer(coursename.NewResolver(coursename.DefaultAmbiguousWords))
	compressor := photo.NewCompressor(photo.DefaultMaxBytes)

	e.provider = settings.NewProvider(settings.NewMemoryCache(), repository.NewSettingRepository(db), nil)
	e.rounds = NewRoundService(roundRepo, courseRepo, reactionRepo, commentRepo, followRepo, e.store, compressor, e.hub, normalizer)
	e.social = NewSocialService(roundRepo, reactionRepo, commentRepo, e.hub)
	e.follows = NewFollowService(followRepo, profileRepo)
	e.profiles = NewProfileService(profileRepo, followRepo, e.follows, e.store, compressor)
	e.feed = NewFeedService(e.rpc, e.provider, reactionRepo, commentRepo, followRepo, normalizer)
	e.courses = NewCourseService(courseRepo, coursename.NewResolver(nil), nil)
	e.admin = NewAdminService(e.rpc, nil)
	return e
}

func (e *env) user(t *testing.T, name string) *models.Profile {
	t.Helper()
	p, err := e.profiles.Ensure(context.Background(), uuid.NewString(), name)
	require.NoError(t, err)
	return p
}

func intp(v int) *int { return &v }

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 8; i++ {
		img.Set(i, i, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildRound_DerivesTotalsFromHoles(t *testing.T) {
	holes := make([]*int, 18)
	holes[0], holes[9], holes[17] = intp(5), intp(4), intp(3)

	r, err := buildRound("u", CreateRoundInput{ScoresByHole: holes, TotalScore: 99, Front9: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, 5, *r.Front9)
	assert.Equal(t, 7, *r.Back9)
	assert.Equal(t, 12, r.TotalScore)
	assert.False(t, r.PlayedAt.IsZero())
}

func TestBuildRound_Validation(t *testing.T) {
	_, err := buildRound("u", CreateRoundInput{})
	assert.ErrorIs(t, err, ErrMissingScore)

	_, err = buildRound("u", CreateRoundInput{ScoresByHole: make([]*int, 18)})
	assert.ErrorIs(t, err, ErrMissingScore, "an empty card is not a score")

	_, err = buildRound("u", CreateRoundInput{ScoresByHole: []*int{intp(0)}})
	assert.ErrorIs(t, err, ErrInvalidRound)

	_, err = buildRound("u", CreateRoundInput{ScoresByHole: make([]*int, 19)})
	assert.ErrorIs(t, err, ErrInvalidRound)

	r, err := buildRound("u", CreateRoundInput{Front9: intp(40), Back9: intp(42)})
	require.NoError(t, err)
	assert.Equal(t, 82, r.TotalScore)
}

func TestRoundService_CreateWithPhotoAndCourse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	me := e.user(t, "tiger")

	course, err := e.courses.Create(ctx, CourseInput{CourseName: "Pebble Beach Golf Links", ClubName: "Pebble Beach Golf Links", City: "Pebble Beach", CoursePars: []int{4, 5, 4, 4, 3, 5, 3, 4, 4, 4, 4, 3, 4, 5, 4, 4, 3, 5}})
	require.NoError(t, err)
	require.NotNil(t, course.Par)
	assert.Equal(t, 72, *course.Par)

	view, err := e.rounds.Create(ctx, me.ID, CreateRoundInput{
		CourseID:   &course.ID,
		TotalScore: 80,
		Photo:      smallPNG(t),
		PhotoName:  "18th green.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pebble Beach Golf Links", view.DisplayName)
	require.NotNil(t, view.VsPar)
	assert.Equal(t, "+8", *view.VsPar)
	require.NotNil(t, view.PhotoURL)
	assert.True(t, strings.HasPrefix(*view.PhotoURL, "https://cdn.test/round-photos/"+me.ID+"/18th-green-"))
	assert.Equal(t, 1, e.store.Len())
	assert.Len(t, view.Reactions, 8)
	require.NotNil(t, view.Author)
	assert.Equal(t, me.Username, view.Author.Username)

	_, err = e.rounds.Create(ctx, me.ID, CreateRoundInput{TotalScore: 80, Photo: []byte("not an image")})
	assert.ErrorIs(t, err, photo.ErrDecode)
	assert.Equal(t, 1, e.store.Len(), "nothing stored for a rejected upload")
}

func TestRoundService_DeleteOwnOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, other := e.user(t, "owner"), e.user(t, "other")

	view, err := e.rounds.Create(ctx, owner.ID, CreateRoundInput{TotalScore: 90, Photo: smallPNG(t)})
	require.NoError(t, err)

	watcher := make(hub.Client, 4)
	e.hub.Subscribe(view.ID, watcher)

	assert.ErrorIs(t, e.rounds.Delete(ctx, other.ID, view.ID), ErrForbidden)
	require.NoError(t, e.rounds.Delete(ctx, owner.ID, view.ID))
	assert.Equal(t, 0, e.store.Len(), "photo removed with the round")
	assert.Len(t, watcher, 1)

	_, err = e.rounds.Get(ctx, owner.ID, view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSocialService_ReactionToggleAndBroadcast(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author, fan := e.user(t, "author"), e.user(t, "fan")
	round, err := e.rounds.Create(ctx, author.ID, CreateRoundInput{TotalScore: 85})
	require.NoError(t, err)

	watcher := make(hub.Client, 4)
	e.hub.Subscribe(round.ID, watcher)

	res, err := e.social.ToggleReaction(ctx, fan.ID, round.ID, models.ReactionGoat)
	require.NoError(t, err)
	assert.True(t, res.Reacted)
	assert.Equal(t, 1, res.Counts[models.ReactionGoat])

	res, err = e.social.ToggleReaction(ctx, fan.ID, round.ID, models.ReactionGoat)
	require.NoError(t, err)
	assert.False(t, res.Reacted)
	assert.Equal(t, 0, res.Counts[models.ReactionGoat])
	assert.Len(t, watcher, 2)

	_, err = e.social.ToggleReaction(ctx, fan.ID, round.ID, "poop")
	assert.ErrorIs(t, err, ErrInvalidReaction)
	_, err = e.social.ToggleReaction(ctx, fan.ID, "missing", models.ReactionFire)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSocialService_Comments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author, fan := e.user(t, "author"), e.user(t, "fan")
	round, err := e.rounds.Create(ctx, author.ID, CreateRoundInput{TotalScore: 85})
	require.NoError(t, err)

	_, err = e.social.AddComment(ctx, fan.ID, round.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = e.social.AddComment(ctx, fan.ID, round.ID, strings.Repeat("é", models.MaxCommentLength+1))
	assert.ErrorIs(t, err, ErrCommentTooLong)

	exactly, err := e.social.AddComment(ctx, fan.ID, round.ID, strings.Repeat("é", models.MaxCommentLength))
	require.NoError(t, err)
	assert.Equal(t, fan.Username, exactly.AuthorUsername)

	list, err := e.social.ListComments(ctx, round.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, e.social.DeleteComment(ctx, author.ID, exactly.ID), ErrForbidden)
	require.NoError(t, e.social.DeleteComment(ctx, fan.ID, exactly.ID))
	assert.ErrorIs(t, e.social.DeleteComment(ctx, fan.ID, exactly.ID), ErrNotFound)
}

func TestFollowService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.user(t, "a"), e.user(t, "b")

	assert.ErrorIs(t, e.follows.Follow(ctx, a.ID, a.ID), ErrFollowSelf)
	assert.ErrorIs(t, e.follows.Follow(ctx, a.ID, uuid.NewString()), ErrNotFound)

	require.NoError(t, e.follows.Follow(ctx, a.ID, b.ID))
	require.NoError(t, e.follows.Follow(ctx, a.ID, b.ID))
	assert.True(t, e.follows.IsFollowing(ctx, a.ID, b.ID))
	assert.False(t, e.follows.IsFollowing(ctx, b.ID, a.ID))

	pub, err := e.profiles.Public(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pub.FollowersCount)
	assert.True(t, pub.IsFollowing)

	require.NoError(t, e.follows.Unfollow(ctx, a.ID, b.ID))
	assert.False(t, e.follows.IsFollowing(ctx, a.ID, b.ID))
}

type brokenFollows struct{ repository.FollowRepository }

func (brokenFollows) Exists(context.Context, string, string) (bool, error) {
	return false, errors.New("timeout")
}

func TestFollowService_StatusErrorsReadAsNotFollowing(t *testing.T) {
	s := NewFollowService(brokenFollows{}, nil)
	assert.False(t, s.IsFollowing(context.Background(), "a", "b"))
}

func TestProfileService_UpdateAndAvatar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	me := e.user(t, "lexi")

	name, handicap := "Lexi T", 2.4
	updated, err := e.profiles.Update(ctx, me.ID, UpdateProfileInput{FullName: &name, Handicap: &handicap})
	require.NoError(t, err)
	assert.Equal(t, "Lexi T", *updated.FullName)

	bad := 99.0
	_, err = e.profiles.Update(ctx, me.ID, UpdateProfileInput{Handicap: &bad})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	p, err := e.profiles.SetAvatar(ctx, me.ID, smallPNG(t), "me.png")
	require.NoError(t, err)
	first := *p.AvatarURL
	p, err = e.profiles.SetAvatar(ctx, me.ID, smallPNG(t), "me2.png")
	require.NoError(t, err)
	assert.NotEqual(t, first, *p.AvatarURL)
	assert.Equal(t, 1, e.store.Len(), "the previous avatar is removed")

	require.NoError(t, e.profiles.RemoveAvatar(ctx, me.ID))
	assert.Equal(t, 0, e.store.Len())
	got, err := e.profiles.Get(ctx, me.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AvatarURL)
}

func TestFeedService_PageUsesSettingsAndNormalizes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	viewer, author := e.user(t, "viewer"), e.user(t, "author")
	require.NoError(t, e.follows.Follow(ctx, viewer.ID, author.ID))

	for i := 0; i < 3; i++ {
		e.rpc.feed = append(e.rpc.feed, repository.FeedEntry{
			Round:  models.Round{ID: fmt.Sprintf("r%d", i), UserID: author.ID, TotalScore: 70 + i, Par: intp(72)},
			Source: "following",
		})
	}
	_, err := e.provider.Replace(ctx, settings.FeedSettings{Mode: settings.ModeFollowing, FeedLimit: 2})
	require.NoError(t, err)

	page, err := e.feed.Page(ctx, viewer.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, e.rpc.lastLimit, "feed limit comes from settings")
	assert.Equal(t, settings.ModeFollowing, e.rpc.lastMode)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.NextOffset)
	assert.True(t, page.Items[0].Following)
	assert.Equal(t, "following", page.Items[0].Source)
	assert.Equal(t, "-2", *page.Items[0].VsPar)
	assert.Len(t, page.Items[0].Reactions, 8)

	page, err = e.feed.Page(ctx, viewer.ID, page.NextOffset, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)

	e.rpc.feedErr = errors.New("rpc down")
	_, err = e.feed.Page(ctx, viewer.ID, 0, 0)
	assert.Error(t, err)
}

func TestFeedService_PageCapsOversizedLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	viewer := e.user(t, "viewer")

	_, err := e.feed.Page(ctx, viewer.ID, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, settings.MaxFeedLimit, e.rpc.lastLimit)

	_, err = e.feed.Page(ctx, viewer.ID, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, e.rpc.lastLimit)
}

func TestCourseService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.courses.Create(ctx, CourseInput{})
	assert.ErrorIs(t, err, ErrInvalidCourse)
	_, err = e.courses.Create(ctx, CourseInput{CourseName: "X", CoursePars: []int{4, 4}})
	assert.ErrorIs(t, err, ErrInvalidCourse)

	c, err := e.courses.Create(ctx, CourseInput{CourseName: "Old", ClubName: "St Andrews Links"})
	require.NoError(t, err)
	assert.Equal(t, "Old @ St Andrews Links", c.DisplayName, "no ambiguous words configured")

	res, err := e.courses.Search(ctx, "  ST   andrews ", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)

	_, err = e.courses.Update(ctx, c.ID, CourseInput{CourseName: "New", ClubName: "St Andrews Links"})
	require.NoError(t, err)
	require.NoError(t, e.courses.Delete(ctx, c.ID))
	assert.ErrorIs(t, e.courses.Delete(ctx, c.ID), ErrNotFound)
}

func TestAdminService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dash, err := e.admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dash["total_rounds"])

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows, err := e.admin.Metrics(ctx, repository.MetricGrowth, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "growth", rows[0]["metric"])

	_, err = e.admin.Metrics(ctx, repository.MetricGrowth, start, start.AddDate(-1, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = e.admin.Metrics(ctx, repository.MetricGrowth, start, start.AddDate(2, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = e.admin.Metrics(ctx, "vibes", start, start)
	assert.ErrorIs(t, err, ErrInvalidRange)

	list, err := e.admin.List(ctx, repository.ListUsers, repository.ListQuery{Search: "ti", Limit: 500})
	require.NoError(t, err)
	assert.EqualValues(t, 41, list.TotalCount)
	assert.Equal(t, 25, list.Limit)
	_, err = e.admin.List(ctx, repository.ListUsers, repository.ListQuery{Sort: "drop table"})
	assert.ErrorIs(t, err, ErrInvalidList)
	_, err = e.admin.List(ctx, "secrets", repository.ListQuery{})
	assert.ErrorIs(t, err, ErrInvalidList)

	_, err = e.admin.Delete(ctx, repository.ListComments, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"comments:c1"}, e.rpc.deleted)
}

func TestAdminService_DashboardIsCached(t *testing.T) {
	rpc := &fakeRPC{}
	s := NewAdminService(rpc, cache.NewJSON(nil, "admin", time.Minute))
	_, _ = s.Dashboard(context.Background())
	_, _ = s.Dashboard(context.Background())
	assert.Equal(t, 2, rpc.dashCalls, "without redis every call reaches the database")
}
