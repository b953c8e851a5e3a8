package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPPort int `env:"HTTP_PORT" env-default:"8080"`

	ClassroomAPIURL    string        `env:"CLASSROOM_API_URL"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"10s"`
	UpstreamRetries    int           `env:"UPSTREAM_RETRIES" env-default:"3"`
	UpstreamRetryDelay time.Duration `env:"UPSTREAM_RETRY_DELAY" env-default:"100ms"`
	PageSize           int           `env:"UPSTREAM_PAGE_SIZE" env-default:"10"`
	AnnouncementLimit  int           `env:"ANNOUNCEMENT_LIMIT" env-default:"3"`

	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Bucket          string `env:"S3_BUCKET" env-default:"submissions"`

	RedisURL     string        `env:"REDIS_URL"`
	AuthCacheTTL time.Duration `env:"AUTH_CACHE_TTL" env-default:"5m"`

	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" env-default:"submission-events"`

	// CleanupOrphanedUploads enables best-effort deletion of an uploaded
	// storage object when a later workflow step fails. Off by default: an
	// orphaned upload is left in place and only logged.
	CleanupOrphanedUploads bool `env:"CLEANUP_ORPHANED_UPLOADS" env-default:"false"`
}

func New() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig("./config/.env", &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}
