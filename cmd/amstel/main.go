package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/amstel/engine/internal/config"
	"github.com/amstel/engine/internal/core/ecs"
	"github.com/amstel/engine/internal/level"
	"github.com/amstel/engine/internal/system"
	"github.com/amstel/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, tick time.Duration) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              amstel  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       units · scene graph · physics       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mWorld:\033[0m %s \033[90m(tick: %s)\033[0m\n\n", name, tick)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("AMSTEL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Engine.Name, cfg.Engine.TickRate)

	// 3. Build the world
	printSection("World")
	units := ecs.NewUnitManager(cfg.Units.ReuseDelay)
	w := world.New(units, cfg, log.Named("world"))
	defer w.Close()
	system.RegisterDefaults(w)
	printOK(fmt.Sprintf("unit manager ready (reuse delay %d)", cfg.Units.ReuseDelay))
	if cfg.Physics.Enabled {
		printOK(fmt.Sprintf("physics enabled (gravity %.2f, %.2f)", cfg.Physics.Gravity[0], cfg.Physics.Gravity[1]))
	}
	fmt.Println()

	// 4. Load the level
	printSection("Level")
	lvl, err := level.Load(cfg.Level.Path)
	if err != nil {
		return fmt.Errorf("level: %w", err)
	}
	spawned, err := w.SpawnLevel(lvl)
	if err != nil {
		return fmt.Errorf("spawn level: %w", err)
	}
	stats := w.Render().Stats()
	printStat("units", len(spawned))
	printStat("meshes", stats.Meshes)
	printStat("sprites", stats.Sprites)
	printStat("lights", stats.Lights)
	printStat("cameras", stats.Cameras)
	if p := w.Physics(); p != nil {
		printStat("actors", p.ActorCount())
	}
	fmt.Println()

	var reload <-chan string
	if cfg.Level.Watch {
		watcher, err := level.NewWatcher(cfg.Level.Path, cfg.Level.Debounce)
		if err != nil {
			return fmt.Errorf("level watcher: %w", err)
		}
		defer watcher.Close()
		reload = watcher.Events
		go func() {
			for err := range watcher.Errors {
				log.Warn("level watcher", zap.Error(err))
			}
		}()
		printOK(fmt.Sprintf("watching %s", cfg.Level.Path))
	}

	// 5. Start frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("frame loop started (tick: %s)", cfg.Engine.TickRate))
	if cfg.Engine.MaxFrames > 0 {
		printReady(fmt.Sprintf("stopping after %d frames", cfg.Engine.MaxFrames))
	}
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			w.Update(cfg.Engine.TickRate)
			frame := w.Runner().Frame()
			log.Debug("frame",
				zap.Uint64("frame", frame),
				zap.Int("changed", w.LastChanged()),
				zap.Int("units", w.UnitCount()),
				zap.Duration("took", w.Runner().FrameTime()))
			if cfg.Engine.MaxFrames > 0 && frame >= uint64(cfg.Engine.MaxFrames) {
				log.Info("frame limit reached",
					zap.Uint64("frames", frame),
					zap.Duration("uptime", cfg.Engine.Uptime(time.Now())))
				return nil
			}
		case path := <-reload:
			next, err := level.Load(path)
			if err != nil {
				// Keep the running level; the file may be half written.
				log.Warn("level reload failed", zap.Error(err))
				continue
			}
			removed := w.DespawnLevel(spawned)
			spawned, err = w.SpawnLevel(next)
			if err != nil {
				return fmt.Errorf("respawn level: %w", err)
			}
			log.Info("level reloaded",
				zap.String("level", next.Name),
				zap.Int("removed", removed),
				zap.Int("spawned", len(spawned)))
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			log.Info("engine stopped",
				zap.Uint64("frames", w.Runner().Frame()),
				zap.Int("units", w.UnitCount()),
				zap.Duration("uptime", cfg.Engine.Uptime(time.Now())))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var logLevel zapcore.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		logLevel = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(logLevel)

	return zapCfg.Build()
}
