package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/testutil"
)

func TestInitStore_Execute_Fresh(t *testing.T) {
	storeInit := &testutil.MockStoreInitializer{}
	configs := &testutil.MockConfigManager{DataInfo: domain.ConfigInfo{Path: "/data/config.toml"}}
	cfg := domain.NewDefaultConfig()
	uc := NewInitStore(storeInit, configs, cfg)

	out, err := uc.Execute(context.Background(), InitStoreInput{WriteConfig: true})

	require.NoError(t, err)
	assert.False(t, out.AlreadyInitialized)
	assert.True(t, out.ConfigWritten)
	assert.Equal(t, "/data/config.toml", out.ConfigPath)
	assert.True(t, storeInit.Initialized)
	assert.Same(t, cfg, configs.Written)
}

func TestInitStore_Execute_Again(t *testing.T) {
	storeInit := &testutil.MockStoreInitializer{Initialized: true}
	configs := &testutil.MockConfigManager{DataInfo: domain.ConfigInfo{Exists: true}}
	uc := NewInitStore(storeInit, configs, domain.NewDefaultConfig())

	out, err := uc.Execute(context.Background(), InitStoreInput{WriteConfig: true})

	require.NoError(t, err)
	assert.True(t, out.AlreadyInitialized)
	assert.False(t, out.ConfigWritten)
	assert.Nil(t, configs.Written)
}

func TestInitStore_Execute_Errors(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		uc := NewInitStore(&testutil.MockStoreInitializer{InitErr: errors.New("ro fs")}, &testutil.MockConfigManager{}, domain.NewDefaultConfig())
		_, err := uc.Execute(context.Background(), InitStoreInput{})
		assert.ErrorContains(t, err, "initialize store")
	})

	t.Run("config", func(t *testing.T) {
		uc := NewInitStore(&testutil.MockStoreInitializer{}, &testutil.MockConfigManager{InitErr: errors.New("denied")}, domain.NewDefaultConfig())
		_, err := uc.Execute(context.Background(), InitStoreInput{WriteConfig: true})
		assert.ErrorContains(t, err, "write config")
	})
}

func TestShowConfig_Execute(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Store.EncryptionKey = "cafebabe"
	cfg.Warnings = []string{"unknown section: theme"}
	configs := &testutil.MockConfigManager{
		DataInfo: domain.ConfigInfo{Path: "/d/config.toml", Exists: true},
		Global:   domain.ConfigInfo{Path: "/g/config.toml"},
	}

	out, err := NewShowConfig(configs, cfg).Execute(context.Background(), ShowConfigInput{})

	require.NoError(t, err)
	assert.NotContains(t, out.Effective, "cafebabe")
	assert.Contains(t, out.Effective, `backend = "json"`)
	assert.Equal(t, []string{"unknown section: theme"}, out.Warnings)
	assert.True(t, out.DataFile.Exists)
	assert.Equal(t, "/g/config.toml", out.GlobalFile.Path)
}
