package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centavo/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	config.SetDefaults()

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "finance", cfg.DatabaseName)
	assert.Equal(t, 10000, cfg.PBKDF2Iterations)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "v1", cfg.CacheVersion)
	assert.Contains(t, cfg.ShellPaths, "/offline")
	assert.Equal(t, "/offline", cfg.OfflinePath)
	assert.NotContains(t, cfg.DataDir, "~", "data dir is expanded")
}

func TestLoadRejectsBadIterations(t *testing.T) {
	viper.Reset()
	config.SetDefaults()
	viper.Set("security.pbkdf2_iterations", 0)

	_, err := config.Load()
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tilde prefix", in: "~/data", want: filepath.Join(home, "data")},
		{name: "bare tilde", in: "~", want: home},
		{name: "absolute untouched", in: "/var/lib/centavo", want: "/var/lib/centavo"},
		{name: "empty untouched", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.ExpandPath(tt.in))
		})
	}
}
