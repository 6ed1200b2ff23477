// Package game owns a running botz scene: the graph, the actuation clock, the
// environment, the editor state machine and the telemetry around them.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/botz/components"
	"github.com/pthm-cable/botz/config"
	"github.com/pthm-cable/botz/systems"
	"github.com/pthm-cable/botz/telemetry"
)

// Mode is the top-level run mode.
type Mode uint8

const (
	ModeEditing Mode = iota
	ModeSimulating
)

func (m Mode) String() string {
	if m == ModeSimulating {
		return "simulating"
	}
	return "editing"
}

// EditState is the pointer interaction in progress.
type EditState uint8

const (
	EditIdle EditState = iota
	EditDrawingChain
	EditDragging
	EditLinkSelected
)

func (s EditState) String() string {
	switch s {
	case EditDrawingChain:
		return "drawing_chain"
	case EditDragging:
		return "dragging"
	case EditLinkSelected:
		return "link_selected"
	default:
		return "idle"
	}
}

// Options configures a Game.
type Options struct {
	// Config is used instead of the global config when set.
	Config *config.Config

	// Scene is .botz text to start from. When empty, Preset (or the configured
	// preset) is loaded.
	Scene  string
	Preset string

	// Seed overrides wind.seed when non-zero.
	Seed int64

	LogStats       bool
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config

	graph   *systems.Graph
	clock   *systems.Clock
	physics *systems.PhysicsSystem
	wind    *systems.Wind

	env         components.Environment
	walls       components.Walls
	arena       components.Arena
	autoReverse components.AutoReverse

	// Editor state
	mode      Mode
	edit      EditState
	dragged   int // vertex being positioned, or components.NoVertex
	chainTail int // last vertex of the chain being drawn
	selLink   int // selected link, or -1
	phase     uint8

	tick           int32
	stepsPerUpdate int

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	snapshotDir   string
	statsCallback func(telemetry.WindowStats)
}

// NewGame creates a game and loads its starting scene.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := cfg.Wind.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = cfg.Simulation.StepsPerUpdate
	}

	clock := &systems.Clock{Paused: cfg.Simulation.ClockPause}
	g := &Game{
		cfg:     cfg,
		graph:   systems.NewGraph(cfg.Environment.Tension),
		clock:   clock,
		physics: systems.NewPhysicsSystem(clock),
		wind:    systems.NewWind(seed, cfg.Wind.GustStrength, cfg.Wind.GustScale),

		env:         cfg.Env(),
		walls:       cfg.WallSet(),
		arena:       cfg.Bounds(),
		autoReverse: components.AutoReverse{Enabled: cfg.Simulation.AutoReverse},

		dragged:   components.NoVertex,
		chainTail: components.NoVertex,
		selLink:   -1,

		stepsPerUpdate: stepsPerUpdate,

		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(int32(cfg.Telemetry.StatsWindow)),
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
	}
	g.physics.OnPhase = func(p systems.StepPhase) {
		g.perfCollector.StartPhase(stepPhases[p])
	}

	switch {
	case opts.Scene != "":
		if err := g.LoadScene(opts.Scene); err != nil {
			return nil, err
		}
	default:
		name := opts.Preset
		if name == "" {
			name = cfg.Simulation.Preset
		}
		if name != "" {
			if err := g.LoadPreset(name); err != nil {
				return nil, err
			}
		}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return g, nil
}

// Close flushes and closes telemetry output.
func (g *Game) Close() error {
	return g.outputManager.Close()
}

// Graph returns the live graph. Callers that change topology through it bypass
// the editor state; use the Game methods for editor-driven changes.
func (g *Game) Graph() *systems.Graph { return g.graph }

// Env returns the live environment.
func (g *Game) Env() *components.Environment { return &g.env }

// Walls returns the live wall toggles.
func (g *Game) Walls() *components.Walls { return &g.walls }

// Arena returns the collision bounds.
func (g *Game) Arena() components.Arena { return g.arena }

// Clock returns the actuation clock.
func (g *Game) Clock() *systems.Clock { return g.clock }

// AutoReverse returns the auto-reverse tracker.
func (g *Game) AutoReverse() *components.AutoReverse { return &g.autoReverse }

// Tick returns the number of simulated ticks.
func (g *Game) Tick() int32 { return g.tick }

// Mode returns the current run mode.
func (g *Game) Mode() Mode { return g.mode }

// EditState returns the pointer interaction in progress.
func (g *Game) EditState() EditState { return g.edit }

// Dragged returns the vertex being positioned, or components.NoVertex.
func (g *Game) Dragged() int { return g.dragged }

// SelectedLink returns the selected link id, or -1.
func (g *Game) SelectedLink() int { return g.selLink }

// Triangles returns the current 3-cycles for shading.
func (g *Game) Triangles() []systems.Triangle { return g.graph.Triangles() }

// SetStepsPerUpdate sets how many ticks each Update runs.
func (g *Game) SetStepsPerUpdate(n int) {
	if n < 1 {
		n = 1
	}
	g.stepsPerUpdate = n
}

// SetPhase sets the phase tag given to vertices drawn from now on.
func (g *Game) SetPhase(p uint8) { g.phase = p }
