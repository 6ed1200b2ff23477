package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/botz/telemetry"
)

// flushTelemetry closes the stats window once it is full.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.graph, g.clock, g.env.ClockSpeed)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	if g.snapshotDir != "" {
		label := ""
		if stats.Reversals > 0 {
			label = "reversal"
		}
		if _, err := g.SaveSnapshot(label); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
}

// Snapshot captures the current state.
func (g *Game) Snapshot(label string) *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Tick:        g.tick,
		Fingerprint: g.graph.Fingerprint(),
		CycleTime:   g.clock.Time,
		ClockPaused: g.clock.Paused,
		Drive:       g.autoReverse.State,
		Label:       label,
		Scene:       g.SceneText(),
	}
}

// SaveSnapshot writes a snapshot into the snapshot directory and returns its path.
func (g *Game) SaveSnapshot(label string) (string, error) {
	if g.snapshotDir == "" {
		return "", fmt.Errorf("no snapshot directory configured")
	}
	path, err := telemetry.SaveSnapshot(g.Snapshot(label), g.snapshotDir)
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
	return path, nil
}

// RestoreSnapshot loads a snapshot's scene and clock state. A fingerprint
// mismatch is logged but not fatal.
func (g *Game) RestoreSnapshot(s *telemetry.Snapshot) error {
	if err := g.LoadScene(s.Scene); err != nil {
		return fmt.Errorf("restoring snapshot at tick %d: %w", s.Tick, err)
	}
	g.tick = s.Tick
	g.clock.Time = s.CycleTime
	g.clock.Paused = s.ClockPaused
	g.autoReverse.State = s.Drive
	g.collector.Restart(s.Tick)

	if fp := g.graph.Fingerprint(); fp != s.Fingerprint {
		slog.Warn("snapshot fingerprint mismatch", "tick", s.Tick, "want", s.Fingerprint, "got", fp)
	}
	return nil
}
