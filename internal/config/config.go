package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	PublicBaseURL     string `mapstructure:"PUBLIC_BASE_URL"`

	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES"`
	ImageMaxBytes  int64 `mapstructure:"IMAGE_MAX_BYTES"`

	// Comma separated single-word course names that get "Course" appended before display.
	CourseAmbiguousWords string `mapstructure:"COURSE_AMBIGUOUS_WORDS"`

	SettingsRefreshInterval time.Duration `mapstructure:"SETTINGS_REFRESH_INTERVAL"`
	RateLimitPerMinute      int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	SentryDSN    string `mapstructure:"SENTRY_DSN"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", 2*time.Minute)
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("S3_BUCKET", "fairway")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("MAX_UPLOAD_BYTES", 25<<20)
	v.SetDefault("IMAGE_MAX_BYTES", 4_900_000)
	v.SetDefault("COURSE_AMBIGUOUS_WORDS", "Old,Championship")
	v.SetDefault("SETTINGS_REFRESH_INTERVAL", 5*time.Minute)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// Load reads the configuration from a .env file in dir (if present) and the environment.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	setDefaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads the configuration into AppConfig.
func LoadConfig() {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	AppConfig = cfg
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.ImageMaxBytes <= 0 {
		return errors.New("IMAGE_MAX_BYTES must be positive")
	}
	if c.MaxUploadBytes < c.ImageMaxBytes {
		return errors.New("MAX_UPLOAD_BYTES must be >= IMAGE_MAX_BYTES")
	}
	return nil
}

// AmbiguousCourseWords splits COURSE_AMBIGUOUS_WORDS.
func (c *Config) AmbiguousCourseWords() []string {
	var words []string
	for _, w := range strings.Split(c.CourseAmbiguousWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
