package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv(t *testing.T) {
	t.Run("set variables override", func(t *testing.T) {
		t.Setenv("ADDRESS", ":9999")
		t.Setenv("DATABASE_DSN", "postgres://env")
		t.Setenv("ADMIN_PASSWORD", "from-env")
		t.Setenv("S3_BUCKET", "env-bucket")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, ":9999", cfg.EndpointAddr)
		assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
		assert.Equal(t, "from-env", cfg.AdminPassword)
		assert.Equal(t, "env-bucket", cfg.S3Bucket)
		// untouched fields keep their defaults
		assert.Equal(t, "secretKey", cfg.SecretKey)
		assert.Equal(t, "us-east-1", cfg.S3Region)
	})

	t.Run("empty variables do not override", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, "secretKey", cfg.SecretKey)
	})
}
