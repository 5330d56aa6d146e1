package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "mock", cfg.Payment.Gateway)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAYMENT_GATEWAY", "STRIPE")
	t.Setenv("STRIPE_API_KEY", "sk_test_123")
	t.Setenv("DB_NAME", "events")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "stripe", cfg.Payment.Gateway)
	assert.Equal(t, "sk_test_123", cfg.Payment.StripeSecretKey)
	assert.Contains(t, cfg.Database.DSN(), "dbname=events")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Environment: "development"},
			Server:  ServerConfig{Port: 8080},
			Auth:    AuthConfig{JWTSecret: "secret"},
			Payment: PaymentConfig{Gateway: "mock", Currency: "usd"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "missing jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{
			name: "default secret in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Auth.JWTSecret = defaultJWTSecret
			},
			wantErr: "must be changed in production",
		},
		{name: "stripe without key", mutate: func(c *Config) { c.Payment.Gateway = "stripe" }, wantErr: "STRIPE_API_KEY"},
		{name: "unknown gateway", mutate: func(c *Config) { c.Payment.Gateway = "paypal" }, wantErr: "unsupported payment gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
