package main

import (
	"fmt"

	"centavo/internal/blobstore"
	"centavo/internal/config"
	"centavo/internal/engine"
	"centavo/internal/service"
	"centavo/internal/storage"
)

// app bundles everything a command needs once configuration is resolved.
type app struct {
	cfg   *config.Config
	eng   *engine.Engine
	repos *storage.Repositories
	auth  *service.AuthService
}

// newApp resolves configuration and wires the engine, repositories and auth
// service. The engine initializes lazily on first use.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := blobstore.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	eng := engine.New(store, cfg.DatabaseName)
	repos := storage.NewRepositories(eng)
	auth := service.NewAuthService(repos.Users, repos.Settings, repos.Categories, cfg.PBKDF2Iterations)

	return &app{cfg: cfg, eng: eng, repos: repos, auth: auth}, nil
}

func (a *app) close() {
	_ = a.eng.Close()
}
