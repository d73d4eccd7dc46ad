package storage

import "centavo/internal/engine"

// Repositories bundles every repository over one shared engine.
type Repositories struct {
	Users        *UserRepository
	Categories   *CategoryRepository
	Transactions *TransactionRepository
	Settings     *SettingsRepository
}

// NewRepositories wires the full repository set to an engine.
func NewRepositories(eng *engine.Engine) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(eng),
		Categories:   NewCategoryRepository(eng),
		Transactions: NewTransactionRepository(eng),
		Settings:     NewSettingsRepository(eng),
	}
}
