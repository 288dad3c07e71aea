package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/swarmgrid/swarmcore/internal/config"
	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	"github.com/swarmgrid/swarmcore/internal/core/event"
	"github.com/swarmgrid/swarmcore/internal/data"
	gonet "github.com/swarmgrid/swarmcore/internal/net"
	"github.com/swarmgrid/swarmcore/internal/scripting"
	"github.com/swarmgrid/swarmcore/internal/system"
	"github.com/swarmgrid/swarmcore/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             swarmcore  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      tile arena simulation server         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(3, 46-len(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(3, 42-len(label)-len(numStr))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load static data
	printSection("Data")
	kinds, err := data.LoadKindTable(cfg.CreaturesPath())
	if err != nil {
		return fmt.Errorf("creature kinds: %w", err)
	}
	printStat("creature kinds", kinds.Count())

	levels, err := data.LoadLevels(cfg.LevelListPath(), cfg.TileDirPath())
	if err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	printStat("levels", levels.Count())

	start := levels.First()
	if cfg.Level.StartLevel != "" {
		start = levels.Get(cfg.Level.StartLevel)
	}
	if start == nil {
		return fmt.Errorf("start level %q not found", cfg.Level.StartLevel)
	}

	// 4. Lua scripting
	var decider system.Decider
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		decider = engine
		printOK("Lua engine loaded")
	}
	fmt.Println()

	// 5. Network hub
	hub := gonet.NewHub(gonet.HubConfig{
		CommandQueue:    cfg.Network.CommandQueue,
		SendQueue:       cfg.Network.SendQueue,
		MaxMessageBytes: cfg.Network.MaxMessageBytes,
		WriteTimeout:    cfg.Network.WriteTimeout,
		ReadTimeout:     cfg.Network.ReadTimeout,
	}, log)
	srv, err := gonet.NewServer(cfg.Network.BindAddress, hub, log)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Network.BindAddress, err)
	}

	// 6. World and systems
	ecsWorld := ecs.NewWorld()
	worldState := world.NewState(ecsWorld, event.NewBus(), kinds, world.Settings{
		TileSize:    cfg.Sim.TileSize,
		GameSpeed:   cfg.Sim.GameSpeed,
		HistorySize: cfg.Sim.HistorySize,
		ViewWidth:   cfg.Sim.ViewWidth,
		ViewHeight:  cfg.Sim.ViewHeight,
	})
	pipeline := system.NewPipeline(worldState, ecsWorld, levels, system.PipelineConfig{
		Commands:    hub.Commands(),
		MaxCommands: cfg.Network.CommandQueue,
		Path: system.PathSettings{
			IntervalMS:        cfg.Pathfinding.IntervalMS,
			WaypointThreshold: cfg.Pathfinding.WaypointThreshold,
			MinRadius:         cfg.Pathfinding.MinRadius,
		},
		Weapon: system.WeaponSettings{
			Damage:     cfg.Weapon.Damage,
			CooldownMS: cfg.Weapon.CooldownMS,
		},
		Rules: system.LevelRules{
			AutoAdvance:    cfg.Level.AutoAdvance,
			RestartOnDeath: cfg.Level.RestartOnDeath,
		},
		Decider:       decider,
		Publisher:     hub,
		SnapshotEvery: cfg.Network.SnapshotEvery,
	}, log)
	if !pipeline.Level.Load(start) {
		return fmt.Errorf("level %s failed to load", start.ID)
	}

	// 7. Run server and game loop until a signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	printSection("Ready")
	printReady(fmt.Sprintf("listening on %s", srv.Addr().String()))
	printReady(fmt.Sprintf("game loop started (tick: %s, speed: %gx)", cfg.Sim.TickRate, cfg.Sim.GameSpeed))
	fmt.Println()

	g.Go(func() error { return srv.Serve(ctx) })
	g.Go(func() error { return gameLoop(ctx, cfg.Sim, pipeline, log) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// gameLoop ticks every system at the configured rate with the measured
// frame delta. Long stalls are clamped so one frame never jumps too far.
func gameLoop(ctx context.Context, sim config.SimConfig, p *system.Pipeline, log *zap.Logger) error {
	ticker := time.NewTicker(sim.TickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if sim.MaxFrame > 0 && dt > sim.MaxFrame {
				log.Debug("frame clamped", zap.Duration("dt", dt), zap.Duration("max", sim.MaxFrame))
				dt = sim.MaxFrame
			}
			p.Runner.Tick(dt)
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
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
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
