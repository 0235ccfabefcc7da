package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Dungeon  DungeonConfig  `toml:"dungeon"`
	Scripts  ScriptsConfig  `toml:"scripts"`
	Data     DataConfig     `toml:"data"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type GameConfig struct {
	Seed         int64  `toml:"seed"` // 0 picks a fresh seed at boot
	DepthGoal    int    `toml:"depth_goal"`
	PlayerName   string `toml:"player_name"`
	PlayerHP     int    `toml:"player_hp"`
	PlayerDamage int    `toml:"player_damage"`
}

type DungeonConfig struct {
	Width       int `toml:"width"`
	Height      int `toml:"height"`
	MinRooms    int `toml:"min_rooms"`
	MaxRooms    int `toml:"max_rooms"`
	MinRoomSize int `toml:"min_room_size"`
	MaxRoomSize int `toml:"max_room_size"`
}

// ScriptsConfig points at a directory of Lua files that override the
// embedded combat and AI scripts. Empty means embedded only.
type ScriptsConfig struct {
	Dir string `toml:"dir"`
}

// DataConfig points at a directory of YAML tables that override the
// embedded creature and spawn tables. Empty means embedded only.
type DataConfig struct {
	Dir string `toml:"dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the leaderboard
	MaxConns        int32         `toml:"max_conns"`
	MinConns        int32         `toml:"min_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// Enabled reports whether run persistence is configured at all.
func (d DatabaseConfig) Enabled() bool { return d.DSN != "" }

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty disables logging entirely
}

// DefaultPath resolves the config file location: the CINDERMOOR_CONFIG
// environment variable when set, cindermoor.toml otherwise.
func DefaultPath() string {
	if p := os.Getenv("CINDERMOOR_CONFIG"); p != "" {
		return p
	}
	return "cindermoor.toml"
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults alone cover a playable local run.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			DepthGoal:    5,
			PlayerName:   "Wick",
			PlayerHP:     20,
			PlayerDamage: 3,
		},
		Dungeon: DungeonConfig{
			Width:       64,
			Height:      20,
			MinRooms:    5,
			MaxRooms:    9,
			MinRoomSize: 4,
			MaxRoomSize: 9,
		},
		Database: DatabaseConfig{
			MaxConns:        4,
			MinConns:        1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "cindermoor.log",
		},
	}
}
