package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"centavo/internal/credential"
)

// Config is the resolved application configuration.
type Config struct {
	// DataDir is where database images are persisted.
	DataDir string
	// DatabaseName keys the image inside the blob store.
	DatabaseName string
	// PBKDF2Iterations tunes credential derivation cost.
	PBKDF2Iterations int
	// ListenAddr is the local HTTP server address.
	ListenAddr string
	// CacheVersion tags the offline cache generation.
	CacheVersion string
	// ShellPaths are the app-shell pages pre-cached for offline use.
	ShellPaths []string
	// OfflinePath is the page served for failed navigations.
	OfflinePath string
}

// SetDefaults registers every default with viper. Call before Load.
func SetDefaults() {
	viper.SetDefault("data.dir", "~/.local/share/centavo")
	viper.SetDefault("data.database", "finance")
	viper.SetDefault("security.pbkdf2_iterations", credential.DefaultIterations)
	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("offline.version", "v1")
	viper.SetDefault("offline.shell", []string{
		"/",
		"/dashboard",
		"/transactions",
		"/categories",
		"/reports",
		"/settings",
		"/offline",
	})
	viper.SetDefault("offline.page", "/offline")
}

// Load resolves the configuration from viper's current state.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:          ExpandPath(viper.GetString("data.dir")),
		DatabaseName:     viper.GetString("data.database"),
		PBKDF2Iterations: viper.GetInt("security.pbkdf2_iterations"),
		ListenAddr:       viper.GetString("server.addr"),
		CacheVersion:     viper.GetString("offline.version"),
		ShellPaths:       viper.GetStringSlice("offline.shell"),
		OfflinePath:      viper.GetString("offline.page"),
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data.dir cannot be empty")
	}
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("data.database cannot be empty")
	}
	if cfg.PBKDF2Iterations <= 0 {
		return nil, fmt.Errorf("security.pbkdf2_iterations must be positive, got %d", cfg.PBKDF2Iterations)
	}
	return cfg, nil
}

// ExpandPath resolves a leading ~ to the home directory and expands $VAR
// environment references, so config values like ~/.local/share/centavo work
// as written.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return os.ExpandEnv(home)
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return os.ExpandEnv(filepath.Join(home, strings.TrimPrefix(path, "~/")))
		}
	}
	return os.ExpandEnv(path)
}
