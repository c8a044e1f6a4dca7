// Package config loads runtime settings for the tooling around the
// engine: search depth, batch workers, the leaderboard path, and the
// heuristic weights. The engine itself never reads files; tuned weights
// are handed to it as plain values.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/kvnchn/twenty48/equity"
)

type Config struct {
	Depth           int            `mapstructure:"depth"`
	Threads         int            `mapstructure:"threads"`
	Games           int            `mapstructure:"games"`
	LeaderboardPath string         `mapstructure:"leaderboard_path"`
	Weights         equity.Weights `mapstructure:"weights"`
}

// Load reads configuration from the given file (YAML), the environment
// (TWENTY48_ prefix), and built-in defaults, in that order of precedence.
// An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults := equity.DefaultWeights()
	v.SetDefault("depth", 3)
	v.SetDefault("threads", runtime.NumCPU())
	v.SetDefault("games", 100)
	v.SetDefault("leaderboard_path", "twenty48.db")
	v.SetDefault("weights.mono", defaults.Mono)
	v.SetDefault("weights.smooth", defaults.Smooth)
	v.SetDefault("weights.corner", defaults.Corner)
	v.SetDefault("weights.empty", defaults.Empty)

	v.SetEnvPrefix("twenty48")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
