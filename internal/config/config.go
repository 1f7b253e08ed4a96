package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Units   UnitsConfig   `toml:"units"`
	Scene   SceneConfig   `toml:"scene"`
	Physics PhysicsConfig `toml:"physics"`
	Level   LevelConfig   `toml:"level"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	Name      string        `toml:"name"`
	TickRate  time.Duration `toml:"tick_rate"`
	MaxFrames int           `toml:"max_frames"` // 0 = run until signalled
	StartTime int64         // set at boot, not from config
}

// Uptime is the time elapsed since Load, truncated to whole seconds.
func (e EngineConfig) Uptime(now time.Time) time.Duration {
	return now.Sub(time.Unix(e.StartTime, 0)).Truncate(time.Second)
}

type UnitsConfig struct {
	ReuseDelay int `toml:"reuse_delay"` // freed slots held back before reuse
}

type SceneConfig struct {
	InitialCapacity int `toml:"initial_capacity"`
}

type PhysicsConfig struct {
	Enabled    bool       `toml:"enabled"`
	Gravity    [2]float64 `toml:"gravity"`
	Iterations int        `toml:"iterations"`
}

type LevelConfig struct {
	Path     string        `toml:"path"`
	Watch    bool          `toml:"watch"`
	Debounce time.Duration `toml:"debounce"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
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
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Engine.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive, got %s", c.Engine.TickRate)
	}
	if c.Engine.MaxFrames < 0 {
		return fmt.Errorf("engine.max_frames must not be negative")
	}
	if c.Units.ReuseDelay < 0 {
		return fmt.Errorf("units.reuse_delay must not be negative")
	}
	if c.Physics.Iterations <= 0 {
		return fmt.Errorf("physics.iterations must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:     "amstel",
			TickRate: time.Second / 60,
		},
		Units: UnitsConfig{
			ReuseDelay: 1024,
		},
		Scene: SceneConfig{
			InitialCapacity: 256,
		},
		Physics: PhysicsConfig{
			Enabled:    true,
			Gravity:    [2]float64{0, -9.81},
			Iterations: 10,
		},
		Level: LevelConfig{
			Path:     "levels/demo.yaml",
			Watch:    false,
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
