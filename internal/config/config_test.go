package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofill/roku-s3-image-resizer/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadAndValidate(t *testing.T) {
	file := writeConfig(t, `{
		"storage": {
			"bucket": "media",
			"prefix": "pics",
			"public": true
		}
	}`)

	cfg := config.NewConfig()
	require.NoError(t, cfg.Read(file))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, "pics", cfg.Storage.Prefix)
	assert.True(t, cfg.Storage.Public)

	// defaults
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 3, cfg.Storage.MaxRetries)
	assert.Equal(t, 300*time.Millisecond, cfg.Storage.RetryBaseDelay)
	assert.Equal(t, 60*time.Second, cfg.Storage.CallTimeout)
}

func TestValidateRequiresBucket(t *testing.T) {
	cfg := config.NewConfig()
	assert.Error(t, cfg.Validate())
}

func TestReadMissingFile(t *testing.T) {
	cfg := config.NewConfig()
	assert.Error(t, cfg.Read(filepath.Join(t.TempDir(), "absent.json")))
}

func TestReadMalformedFile(t *testing.T) {
	file := writeConfig(t, `{"storage": {`)

	cfg := config.NewConfig()
	assert.Error(t, cfg.Read(file), "a broken config must not silently become a zero value")
}

func TestLoadEnvOverlaysCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg := config.NewConfig()
	cfg.LoadEnv()

	assert.Equal(t, "AKIAEXAMPLE", cfg.Storage.AccessKeyID)
	assert.Equal(t, "secret", cfg.Storage.SecretKey)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
}

func TestLoadEnvDoesNotClobberConfig(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "from-env")

	cfg := config.NewConfig()
	cfg.Storage.AccessKeyID = "from-file"
	cfg.LoadEnv()

	assert.Equal(t, "from-file", cfg.Storage.AccessKeyID)
}

func TestHost(t *testing.T) {
	s := config.StorageConfig{}
	assert.Equal(t, "s3.amazonaws.com", s.Host())

	s.Endpoint = "https://nyc3.digitaloceanspaces.com/"
	assert.Equal(t, "nyc3.digitaloceanspaces.com", s.Host())
}
