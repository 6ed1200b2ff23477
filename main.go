package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/botz/botz"
	"github.com/pthm-cable/botz/config"
	"github.com/pthm-cable/botz/game"
	"github.com/pthm-cable/botz/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Built-in scene to load (empty = use config)")
	scenePath := flag.String("scene", "", "Path to a .botz scene (overrides -preset)")
	restorePath := flag.String("restore", "", "Resume from a snapshot JSON file")
	savePath := flag.String("save", "", "Write the final scene as .botz to this path")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for per-window snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Wind gust seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	listPresets := flag.Bool("list-presets", false, "Print the built-in scene names and exit")

	flag.Parse()

	if *listPresets {
		for _, name := range botz.PresetNames() {
			os.Stdout.WriteString(name + "\n")
		}
		return
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Preset:         *preset,
		Seed:           *seed,
		LogStats:       *logStats,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}
	if *scenePath != "" {
		data, err := os.ReadFile(*scenePath)
		if err != nil {
			slog.Error("failed to read scene", "path", *scenePath, "error", err)
			os.Exit(1)
		}
		opts.Scene = string(data)
	}

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	if *restorePath != "" {
		snap, err := telemetry.LoadSnapshot(*restorePath)
		if err == nil {
			err = g.RestoreSnapshot(snap)
		}
		if err != nil {
			slog.Error("failed to restore snapshot", "path", *restorePath, "error", err)
			g.Close()
			os.Exit(1)
		}
	}

	// A scene saved in editing mode is frozen; headless runs always simulate.
	if g.Mode() != game.ModeSimulating {
		g.SetMode(game.ModeSimulating)
	}

	slog.Info("starting headless simulation",
		"vertices", g.Graph().UsedCount(),
		"links", len(g.Graph().Links),
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
	)

	limit := int32(*maxTicks)
	for limit <= 0 || g.Tick() < limit {
		g.UpdateUntil(limit)
	}

	centroid := g.Graph().Centroid()
	slog.Info("max ticks reached",
		"tick", g.Tick(),
		"centroid_x", centroid[0],
		"centroid_y", centroid[1],
		"clock_speed", g.Env().ClockSpeed,
		"fingerprint", g.Graph().Fingerprint(),
	)

	if *savePath != "" {
		if err := os.WriteFile(*savePath, []byte(g.SceneText()), 0644); err != nil {
			slog.Error("failed to save scene", "path", *savePath, "error", err)
		}
	}
	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
