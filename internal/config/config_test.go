package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodfy/workshop-api/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "BRL", cfg.Finance.Currency)
	assert.Equal(t, 40.0, cfg.Finance.DefaultMarkupPercent)
	assert.Equal(t, 6.0, cfg.Finance.DefaultTaxPercent)
	assert.Equal(t, 2.5, cfg.Finance.DefaultMultiplier)
	assert.Equal(t, 7, cfg.Finance.DeliveryWindowDays)
	assert.Equal(t, "0 0 3 * * *", cfg.Jobs.BackupCron)
	assert.Equal(t, 30, cfg.Jobs.BackupRetention)
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/health")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FINANCE_DEFAULTTAXPERCENT", "12")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("WORKSHOP_API_KEY", "local-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 12.0, cfg.Finance.DefaultTaxPercent)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "local-key", cfg.Auth.APIKey)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{name: "driver", key: "DATABASE_DRIVER", value: "mysql", want: "unsupported database driver"},
		{name: "tax", key: "FINANCE_DEFAULTTAXPERCENT", value: "100", want: "defaultTaxPercent"},
		{name: "currency", key: "FINANCE_CURRENCY", value: "XYZ", want: "unknown finance.currency"},
		{name: "multiplier", key: "FINANCE_DEFAULTMULTIPLIER", value: "0", want: "defaultMultiplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type fakeLookup map[string]string

func (f fakeLookup) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if v, ok := f[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestResolveSecrets(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Host: "localhost", User: "workshop_user"},
	}

	config.ResolveSecrets(context.Background(), cfg, fakeLookup{
		"WORKSHOP-DB-HOST":    "db.internal",
		"workshop-jwt-secret": "s3cret",
	})

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "workshop_user", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.Auth.APIKey)
}
