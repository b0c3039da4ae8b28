package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Port:          "8080",
		Env:           "production",
		DBDriver:      "postgres",
		DBPassword:    "secure-password",
		DBSSLMode:     "require",
		SessionSecret: "secure-secret-at-least-32-chars-long",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with empty SSL mode", "prod", "", true},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateSessionSecret(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		secret      string
		expectError bool
	}{
		{"Empty secret", "development", "", true},
		{"Default secret in development", "development", DefaultSessionSecret, false},
		{"Default secret in production", "production", DefaultSessionSecret, true},
		{"Short secret in production", "production", "short-secret", true},
		{"Long secret in production", "production", "secure-secret-at-least-32-chars-long", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			c.Env = tt.env
			c.SessionSecret = tt.secret

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDriver(t *testing.T) {
	c := validProductionConfig()
	c.Env = "development"

	c.DBDriver = "mysql"
	assert.Error(t, c.Validate())

	c.DBDriver = "sqlite"
	assert.NoError(t, c.Validate())

	c.Env = "production"
	assert.Error(t, c.Validate(), "sqlite must be rejected in production")
}

func TestConfig_SessionTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, (&Config{}).SessionTTL())
	assert.Equal(t, 2*time.Hour, (&Config{SessionTTLHours: 2}).SessionTTL())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("DB_DRIVER")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("DB_DRIVER", " SQLite ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, 24, c.SessionTTLHours)
}
