package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"fairway/backend/internal/auth"
	"fairway/backend/internal/cache"
	"fairway/backend/internal/config"
	"fairway/backend/internal/coursename"
	"fairway/backend/internal/database"
	"fairway/backend/internal/feed"
	"fairway/backend/internal/handler"
	"fairway/backend/internal/hub"
	"fairway/backend/internal/middleware"
	"fairway/backend/internal/photo"
	"fairway/backend/internal/repository"
	"fairway/backend/internal/scheduler"
	"fairway/backend/internal/service"
	"fairway/backend/internal/settings"
	"fairway/backend/internal/storage"
	"fairway/backend/internal/telemetry"
	"fairway/backend/pkg/logger"

	// Swagger imports
	_ "fairway/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "fairway-api"

func init() {
	config.LoadConfig()
}

// @title           Fairway API
// @version         1.0
// @description     Golf rounds, reactions, comments and the ranked feed.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.AppEnv)
	if err != nil {
		logger.Error("failed to init tracing", zap.Error(err))
	}
	flushSentry, err := telemetry.InitSentry(cfg.SentryDSN, cfg.AppEnv, "")
	if err != nil {
		logger.Error("failed to init sentry", zap.Error(err))
	}

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, caching and cross-instance invalidation disabled", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		}
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.L().Fatal("failed to init object storage", zap.Error(err))
	}

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	roundRepo := repository.NewRoundRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	rpcRepo := repository.NewRPCRepository(db)

	// Shared state owned by this process
	settingsCache := settings.NewMemoryCache()
	provider := settings.NewProvider(settingsCache, repository.NewSettingRepository(db), rdb)
	eventHub := hub.NewHub()
	names := coursename.NewResolver(cfg.AmbiguousCourseWords())
	normalizer := feed.NewNormalizer(names)
	compressor := photo.NewCompressor(cfg.ImageMaxBytes)

	// Services
	follows := service.NewFollowService(followRepo, profileRepo)
	profiles := service.NewProfileService(profileRepo, followRepo, follows, store, compressor)
	h := &handler.Handler{
		Profiles:       profiles,
		Follows:        follows,
		Rounds:         service.NewRoundService(roundRepo, courseRepo, reactionRepo, commentRepo, followRepo, store, compressor, eventHub, normalizer),
		Social:         service.NewSocialService(roundRepo, reactionRepo, commentRepo, eventHub),
		Feed:           service.NewFeedService(rpcRepo, provider, reactionRepo, commentRepo, followRepo, normalizer),
		Courses:        service.NewCourseService(courseRepo, names, newCache(rdb, "courses", cfg.CacheTTL)),
		Admin:          service.NewAdminService(rpcRepo, newCache(rdb, "admin", cfg.CacheTTL)),
		Settings:       provider,
		Hub:            eventHub,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	go func() {
		if err := provider.Listen(ctx); err != nil {
			logger.Error("settings invalidation listener stopped", zap.Error(err))
		}
	}()
	sched, err := scheduler.StartSettingsRefresh(cfg.SettingsRefreshInterval, provider)
	if err != nil {
		logger.L().Fatal("failed to start scheduler", zap.Error(err))
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		sentrygin.New(sentrygin.Options{Repanic: true}),
		logger.Gin(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`/events$`})),
	)
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", handler.Ping)

	// API v1 routes
	h.Register(router.Group("/api/v1"), handler.Middlewares{
		Auth:      auth.AuthMiddleware(cfg.JWTSecret, profiles),
		Admin:     auth.AdminMiddleware(),
		RateLimit: middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server is running", zap.String("addr", srv.Addr))
		logger.Info("swagger UI is available at /swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = shutdownTracing(shutdownCtx)
	_ = flushSentry(shutdownCtx)
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.S3Endpoint == "" {
		logger.Warn("S3_ENDPOINT not set, keeping uploads in memory")
		return storage.NewMemoryStore(cfg.PublicBaseURL), nil
	}
	return storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:   cfg.PublicBaseURL,
	})
}

func newCache(rdb *redis.Client, prefix string, ttl time.Duration) *cache.JSON {
	if rdb == nil {
		return nil
	}
	return cache.NewJSON(rdb, prefix, ttl)
}
