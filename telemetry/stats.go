package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Topology at window end
	Vertices  int `csv:"vertices"`
	Links     int `csv:"links"`
	Triangles int `csv:"triangles"`

	// Actuation clock at window end
	CycleTime  int32 `csv:"cycle_time"`
	ClockSpeed int32 `csv:"clock_speed"`

	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`

	// Per-vertex speed, sampled at window end
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedStd      float64 `csv:"speed_std"`
	SpeedMax      float64 `csv:"speed_max"`
	KineticEnergy float64 `csv:"kinetic_energy"` // unit mass per vertex

	// Events during window
	WallContacts int `csv:"wall_contacts"`
	Reversals    int `csv:"reversals"`
}

// MotionStats summarises per-vertex speeds.
type MotionStats struct {
	Mean, Std, Max float64
	KineticEnergy  float64
}

// ComputeMotionStats returns speed statistics for the given speeds.
// Returns zero values when speeds is empty.
func ComputeMotionStats(speeds []float64) MotionStats {
	switch len(speeds) {
	case 0:
		return MotionStats{}
	case 1:
		// stat.StdDev is NaN for a single sample.
		return MotionStats{Mean: speeds[0], Max: speeds[0], KineticEnergy: 0.5 * speeds[0] * speeds[0]}
	}

	mean, std := stat.MeanStdDev(speeds, nil)
	ke := 0.5 * floats.Dot(speeds, speeds)
	return MotionStats{
		Mean:          mean,
		Std:           std,
		Max:           floats.Max(speeds),
		KineticEnergy: ke,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("vertices", s.Vertices),
		slog.Int("links", s.Links),
		slog.Int("triangles", s.Triangles),
		slog.Int("cycle_time", int(s.CycleTime)),
		slog.Int("clock_speed", int(s.ClockSpeed)),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Int("wall_contacts", s.WallContacts),
		slog.Int("reversals", s.Reversals),
	)
}

// LogStats logs the window as a single "stats" record.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"vertices", s.Vertices,
		"links", s.Links,
		"triangles", s.Triangles,
		"cycle_time", s.CycleTime,
		"clock_speed", s.ClockSpeed,
		"centroid_x", round2(s.CentroidX),
		"centroid_y", round2(s.CentroidY),
		"speed_mean", round2(s.SpeedMean),
		"speed_max", round2(s.SpeedMax),
		"kinetic_energy", round2(s.KineticEnergy),
		"wall_contacts", s.WallContacts,
		"reversals", s.Reversals,
	)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
