package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	config, err := ReadConfig("test_configs/server.yaml")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "0.0.0.0:9000", config.ListenAddr)
	assert.Equal(t, "0.0.0.0:9001", config.APIAddr)
	assert.Equal(t, 10, config.Game.SmallBlind)
	assert.Equal(t, 20, config.Game.BigBlind)
	assert.Equal(t, 2500, config.Game.StartingChips)
	assert.Equal(t, 3, config.Game.MinPlayers)
	assert.Equal(t, 6, config.Game.MaxPlayers)
}

func TestReadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	config, err := ReadConfig("test_configs/partial.yaml")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", config.ListenAddr)
	// everything else stays at the defaults
	assert.Equal(t, "127.0.0.1:8080", config.APIAddr)
	assert.Equal(t, 5, config.Game.SmallBlind)
	assert.Equal(t, 10, config.Game.BigBlind)
	assert.Equal(t, 1000, config.Game.StartingChips)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig("test_configs/no_such_file.yaml")
	assert.Error(t, err)
}
