package config_test

import (
	"testing"

	"load-manager/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "load-manager.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Collector.FollowSymlinks)
	assert.False(t, cfg.Policy.ManifestOverwrite)
	assert.False(t, cfg.Policy.JobRetry)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "nasa-irsa-spherex")
	t.Setenv("STORAGE_PREFIX", "qr2")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("POLICY_JOB_RETRY", "true")
	t.Setenv("COLLECTOR_FOLLOW_SYMLINKS", "false")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "nasa-irsa-spherex", cfg.Storage.Bucket)
	assert.Equal(t, "qr2", cfg.Storage.Prefix)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.True(t, cfg.Policy.JobRetry)
	assert.False(t, cfg.Collector.FollowSymlinks)
}
