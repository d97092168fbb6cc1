package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	Effective  string            // Merged configuration as TOML, secrets masked
	Warnings   []string          // Problems found while loading
	GlobalFile domain.ConfigInfo // Global config file info
	DataFile   domain.ConfigInfo // Data dir config file info
}

// ShowConfig displays configuration file information.
type ShowConfig struct {
	configs domain.ConfigManager
	loader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configs domain.ConfigManager, loader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{configs: configs, loader: loader}
}

// Execute reloads the config files and reports the merged result.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &ShowConfigOutput{
		Effective:  cfg.Redacted().Render(),
		Warnings:   cfg.Warnings,
		GlobalFile: uc.configs.GlobalConfigInfo(),
		DataFile:   uc.configs.DataConfigInfo(),
	}, nil
}
