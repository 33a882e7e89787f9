package config

import (
	"strings"
	"time"
)

type Config struct {
	Storage  StorageConfig `json:"storage"`
	Database Database      `json:"database"`
	Sentry   SentryConfig  `json:"sentry"`
}

// StorageConfig is the immutable per-run configuration of the bucket
// being processed. Credentials left empty here are resolved from the
// environment or the ambient provider chain.
type StorageConfig struct {
	Bucket   string `json:"bucket" validate:"required"`
	Prefix   string `json:"prefix"`
	Public   bool   `json:"public"`
	Region   string `json:"region"`
	Endpoint string `json:"endpoint"`

	AccessKeyID string `json:"access_key_id"`
	SecretKey   string `json:"secret_key"`

	MaxRetries     int           `json:"max_retries"`
	RetryBaseDelay time.Duration `json:"retry_base_delay"`
	CallTimeout    time.Duration `json:"call_timeout"`
}

// Host returns the storage hostname used when building public URLs.
func (s *StorageConfig) Host() string {
	if s.Endpoint == "" {
		return defaultHost
	}
	host := s.Endpoint
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

type Database struct {
	DSN string `json:"dsn"`
}

type SentryConfig struct {
	SentryDSN   string `json:"sentry_dsn"`
	Environment string `json:"environment"`
}
