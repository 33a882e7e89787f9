package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultRegion = "us-east-1"
	defaultHost   = "s3.amazonaws.com"
)

// Create new config instance
func NewConfig() *Config {
	return &Config{}
}

// Load configuration file in json format
func (c *Config) Read(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, c)
}

// LoadEnv overlays credentials and region from the process environment
// when the config file leaves them empty.
func (c *Config) LoadEnv() {
	if c.Storage.AccessKeyID == "" {
		c.Storage.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if c.Storage.SecretKey == "" {
		c.Storage.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if c.Storage.Region == "" {
		c.Storage.Region = os.Getenv("AWS_REGION")
	}
}

// Validate applies defaults and checks required fields.
func (c *Config) Validate() error {
	if c.Storage.Region == "" {
		c.Storage.Region = defaultRegion
	}
	if c.Storage.MaxRetries == 0 {
		c.Storage.MaxRetries = 3
	}
	if c.Storage.RetryBaseDelay == 0 {
		c.Storage.RetryBaseDelay = 300 * time.Millisecond
	}
	if c.Storage.CallTimeout == 0 {
		c.Storage.CallTimeout = 60 * time.Second
	}

	return validator.New().Struct(c)
}
