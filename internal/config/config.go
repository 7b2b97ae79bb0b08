// internal/config/config.go
package config

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	Environment        string
	DatabaseURL        string
	JWTSecret          string
	CORSAllowedOrigins []string

	Redis           RedisConfig
	RateLimit       RateLimitConfig
	CatalogCacheTTL time.Duration

	RabbitMQURL    string
	ActivityBuffer int

	S3 S3Settings
}

// RedisConfig is empty-addressed when Redis is not configured.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

type S3Settings struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PSQL_HOST", "localhost")
	v.SetDefault("PSQL_PORT", "5432")
	v.SetDefault("PSQL_USER", "postgres")
	v.SetDefault("PSQL_PASSWORD", "postgres")
	v.SetDefault("PSQL_DB_NAME", "tourify")
	v.SetDefault("JWT_SECRET", "dev")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "60s")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 120)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 2)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "1s")
	v.SetDefault("RATE_LIMIT_TTL", "10m")
	v.SetDefault("RATE_LIMIT_PREFIX", "tourify:rl")
	v.SetDefault("ACTIVITY_BUFFER", 256)
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	databaseURL := v.GetString("DATABASE_URL")
	if databaseURL == "" {
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(v.GetString("PSQL_USER"), v.GetString("PSQL_PASSWORD")),
			Host:   v.GetString("PSQL_HOST") + ":" + v.GetString("PSQL_PORT"),
			Path:   v.GetString("PSQL_DB_NAME"),
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	return &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		DatabaseURL:        databaseURL,
		JWTSecret:          v.GetString("JWT_SECRET"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        v.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   v.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: v.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
			TTL:            v.GetDuration("RATE_LIMIT_TTL"),
			Prefix:         v.GetString("RATE_LIMIT_PREFIX"),
		},
		CatalogCacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		ActivityBuffer:  v.GetInt("ACTIVITY_BUFFER"),
		S3: S3Settings{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("S3_BUCKET_NAME"),
			PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
