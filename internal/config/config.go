package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/tiledraft/tiledraft-go/internal/game"
)

// EnvPrefix prefixes every environment override, e.g.
// TILEDRAFT_GAME_TILES_PER_COLOR.
const EnvPrefix = "TILEDRAFT"

// Config is the full application configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
	Inspect InspectConfig `mapstructure:"inspect"`
}

// GameConfig holds match settings.
type GameConfig struct {
	Players       []string `mapstructure:"players"`
	TilesPerColor int      `mapstructure:"tiles_per_color"`
	Seed          uint64   `mapstructure:"seed"`
	EndBonus      bool     `mapstructure:"end_bonus"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InspectConfig configures the read-only HTTP endpoint. An empty address
// disables it.
type InspectConfig struct {
	Address string `mapstructure:"address"`
}

// Options converts the game section into match options.
func (c GameConfig) Options() game.Options {
	return game.Options{
		Players:       append([]string(nil), c.Players...),
		TilesPerColor: c.TilesPerColor,
		Seed:          c.Seed,
		SkipEndBonus:  !c.EndBonus,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.players", []string{"player1", "player2"})
	v.SetDefault("game.tiles_per_color", 5)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.end_bonus", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("inspect.address", "")
}

// Load reads configuration from path, then applies environment overrides.
// A missing file is not an error; defaults and the environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at match start.
func (c *Config) Validate() error {
	n := len(c.Game.Players)
	if n < game.MinPlayers || n > game.MaxPlayers {
		return fmt.Errorf("game.players: need %d-%d players, got %d", game.MinPlayers, game.MaxPlayers, n)
	}
	seen := make(map[string]bool, n)
	for i, p := range c.Game.Players {
		p = strings.TrimSpace(p)
		if p != "" && seen[p] {
			return fmt.Errorf("game.players: duplicate name %q", p)
		}
		seen[p] = true
		c.Game.Players[i] = p
	}
	if c.Game.TilesPerColor <= 0 {
		return fmt.Errorf("game.tiles_per_color: must be positive, got %d", c.Game.TilesPerColor)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}
