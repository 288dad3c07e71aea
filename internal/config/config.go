package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SWARMCORE_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/swarmcore.toml"

type Config struct {
	Sim         SimConfig         `toml:"sim"`
	Pathfinding PathfindingConfig `toml:"pathfinding"`
	Level       LevelConfig       `toml:"level"`
	Scripting   ScriptingConfig   `toml:"scripting"`
	Weapon      WeaponConfig      `toml:"weapon"`
	Network     NetworkConfig     `toml:"network"`
	Logging     LoggingConfig     `toml:"logging"`
	StartTime   int64             `toml:"-"` // set at boot, not from config
}

type SimConfig struct {
	TileSize    float64       `toml:"tile_size"`
	TickRate    time.Duration `toml:"tick_rate"`
	GameSpeed   float64       `toml:"game_speed"` // multiplies every elapsed frame delta
	ViewWidth   float64       `toml:"view_width"`
	ViewHeight  float64       `toml:"view_height"`
	HistorySize int           `toml:"history_size"` // positions kept for idle/stuck detection
	MaxFrame    time.Duration `toml:"max_frame"`    // longer stalls are clamped to this delta
}

type PathfindingConfig struct {
	IntervalMS        float64 `toml:"interval_ms"`        // game-ms between replans
	WaypointThreshold float64 `toml:"waypoint_threshold"` // px on both axes
	MinRadius         int     `toml:"min_radius"`         // node window, tiles
}

type LevelConfig struct {
	DataDir        string `toml:"data_dir"`
	LevelList      string `toml:"level_list"` // relative to data_dir
	TileDir        string `toml:"tile_dir"`   // relative to data_dir
	Creatures      string `toml:"creatures"`  // relative to data_dir
	StartLevel     string `toml:"start_level"`
	AutoAdvance    bool   `toml:"auto_advance"`     // load the next level when the player reaches the open exit
	RestartOnDeath bool   `toml:"restart_on_death"` // reload the level once the player is removed
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type WeaponConfig struct {
	Damage     float64 `toml:"damage"`
	CooldownMS float64 `toml:"cooldown_ms"`
}

type NetworkConfig struct {
	BindAddress     string        `toml:"bind_address"`
	CommandQueue    int           `toml:"command_queue"`  // buffered player commands
	SendQueue       int           `toml:"send_queue"`     // snapshots buffered per client
	SnapshotEvery   int           `toml:"snapshot_every"` // ticks between published snapshots
	MaxMessageBytes int64         `toml:"max_message_bytes"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Path returns the config path from the environment, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.StartTime = time.Now().Unix()
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Sim.TileSize <= 0 {
		errs = append(errs, errors.New("sim.tile_size must be positive"))
	}
	if c.Sim.TickRate <= 0 {
		errs = append(errs, errors.New("sim.tick_rate must be positive"))
	}
	if c.Sim.GameSpeed <= 0 {
		errs = append(errs, errors.New("sim.game_speed must be positive"))
	}
	if c.Sim.HistorySize < 2 {
		errs = append(errs, errors.New("sim.history_size must be at least 2"))
	}
	if c.Pathfinding.IntervalMS <= 0 {
		errs = append(errs, errors.New("pathfinding.interval_ms must be positive"))
	}
	if c.Network.SnapshotEvery <= 0 {
		errs = append(errs, errors.New("network.snapshot_every must be positive"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// LevelListPath, TileDirPath and CreaturesPath resolve level data files.
func (c *Config) LevelListPath() string { return filepath.Join(c.Level.DataDir, c.Level.LevelList) }
func (c *Config) TileDirPath() string   { return filepath.Join(c.Level.DataDir, c.Level.TileDir) }
func (c *Config) CreaturesPath() string { return filepath.Join(c.Level.DataDir, c.Level.Creatures) }

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TileSize:    16,
			TickRate:    16 * time.Millisecond,
			GameSpeed:   1.0,
			ViewWidth:   480,
			ViewHeight:  320,
			HistorySize: 5,
			MaxFrame:    100 * time.Millisecond,
		},
		Pathfinding: PathfindingConfig{
			IntervalMS:        500,
			WaypointThreshold: 3,
			MinRadius:         4,
		},
		Level: LevelConfig{
			DataDir:        "data",
			LevelList:      "levels/level_list.yaml",
			TileDir:        "levels",
			Creatures:      "creatures.yaml",
			AutoAdvance:    true,
			RestartOnDeath: true,
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Weapon: WeaponConfig{
			Damage:     40,
			CooldownMS: 250,
		},
		Network: NetworkConfig{
			BindAddress:     "127.0.0.1:8080",
			CommandQueue:    64,
			SendQueue:       8,
			SnapshotEvery:   2,
			MaxMessageBytes: 4096,
			WriteTimeout:    5 * time.Second,
			ReadTimeout:     60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
