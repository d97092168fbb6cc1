package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
)

// InitStoreInput contains the parameters for InitStore.
type InitStoreInput struct {
	WriteConfig bool // Also write the effective config to the data dir
}

// InitStoreOutput contains the result of InitStore.
type InitStoreOutput struct {
	ConfigPath         string // Path of the data dir config file
	AlreadyInitialized bool   // The store existed before
	ConfigWritten      bool   // A config file was created
}

// InitStore prepares the data directory for first use.
type InitStore struct {
	storeInit domain.StoreInitializer
	configs   domain.ConfigManager
	cfg       *domain.Config
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, configs domain.ConfigManager, cfg *domain.Config) *InitStore {
	return &InitStore{storeInit: storeInit, configs: configs, cfg: cfg}
}

// Execute initializes the store. Running it again is harmless.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	out := &InitStoreOutput{
		AlreadyInitialized: uc.storeInit.IsInitialized(),
		ConfigPath:         uc.configs.DataConfigInfo().Path,
	}

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	if in.WriteConfig {
		err := uc.configs.InitDataConfig(uc.cfg)
		switch {
		case err == nil:
			out.ConfigWritten = true
		case errors.Is(err, domain.ErrConfigExists):
		default:
			return nil, fmt.Errorf("write config: %w", err)
		}
	}

	return out, nil
}
