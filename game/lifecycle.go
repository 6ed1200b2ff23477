package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/botz/botz"
	"github.com/pthm-cable/botz/components"
)

// LoadScene replaces the scene with parsed .botz text. The text is parsed into a
// fresh scene first, so on error the current scene is left untouched.
//
// Environment records in the text override the live environment; fields the
// text omits keep their current value. The M record selects the run mode.
func (g *Game) LoadScene(text string) error {
	scene, err := botz.Parse(text, g.env)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	g.env = scene.Env
	g.graph.DefaultTension = scene.Env.Tension
	g.graph.Replace(scene.Vertices, scene.Links)
	g.graph.UpdateMidpoints()
	g.autoReverse.State = components.DriveNeutral

	g.resetEditor()
	g.mode = ModeEditing
	if scene.Simulating {
		g.mode = ModeSimulating
	}

	slog.Info("scene loaded",
		"vertices", g.graph.UsedCount(),
		"links", len(g.graph.Links),
		"mode", g.mode.String(),
		"clock_speed", g.env.ClockSpeed,
	)
	return nil
}

// LoadPreset loads a built-in scene by name.
func (g *Game) LoadPreset(name string) error {
	text, err := botz.Preset(name)
	if err != nil {
		return err
	}
	if err := g.LoadScene(text); err != nil {
		return fmt.Errorf("preset %s: %w", name, err)
	}
	return nil
}

// SceneText serialises the current scene as .botz text.
func (g *Game) SceneText() string {
	return botz.Format(botz.FromGraph(g.env, g.mode == ModeSimulating, g.graph.Vertices, g.graph.Links))
}
