package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "bcrypt", cfg.Auth.PasswordHasher)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":    "postgres",
		"POSTGRES_DSN":    "postgres://db/auth",
		"TOKEN_TTL":       "1h",
		"PASSWORD_HASHER": "argon2id",
		"ENV":             "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://db/auth", cfg.Postgres.DSN)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "argon2id", cfg.Auth.PasswordHasher)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"driver": {"STORE_DRIVER": "sqlite"},
		"hasher": {"PASSWORD_HASHER": "md5"},
		"ttl":    {"TOKEN_TTL": "-1h"},
		"parse":  {"AUDIT_WORKERS": "many"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
