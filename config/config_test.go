package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvnchn/twenty48/equity"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, 3, cfg.Depth)
	assert.Equal(t, 100, cfg.Games)
	assert.True(t, cfg.Threads > 0)
	assert.Equal(t, "twenty48.db", cfg.LeaderboardPath)
	assert.Equal(t, equity.DefaultWeights(), cfg.Weights)
}

func TestLoadFile(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	content := `depth: 5
games: 25
leaderboard_path: /tmp/test.db
weights:
  mono: 2.5
  smooth: 0.3
  corner: 4.0
  empty: 6.0
`
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, 5, cfg.Depth)
	assert.Equal(t, 25, cfg.Games)
	assert.Equal(t, "/tmp/test.db", cfg.LeaderboardPath)
	assert.Equal(t, equity.Weights{Mono: 2.5, Smooth: 0.3, Corner: 4.0, Empty: 6.0}, cfg.Weights)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.NotNil(t, err)
}
