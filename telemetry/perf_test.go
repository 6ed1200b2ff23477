package telemetry

import (
	"testing"
	"time"
)

// fakeClock returns a now func that advances by the queued steps.
func fakeClock(steps ...time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	i := 0
	return func() time.Time {
		if i < len(steps) {
			t = t.Add(steps[i])
			i++
		}
		return t
	}
}

func TestPerfCollectorPhaseTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	// StartTick, StartPhase(relax), StartPhase(integrate), EndTick
	pc.now = fakeClock(0, 0, 100*time.Microsecond, 300*time.Microsecond)

	pc.StartTick()
	pc.StartPhase(PhaseRelax)
	pc.StartPhase(PhaseIntegrate)
	pc.EndTick()

	stats := pc.Stats()
	if stats.Samples != 1 {
		t.Fatalf("samples = %d, want 1", stats.Samples)
	}
	if stats.AvgTick != 400*time.Microsecond {
		t.Errorf("avg tick = %v, want 400µs", stats.AvgTick)
	}
	if stats.PhaseAvg[PhaseRelax] != 100*time.Microsecond {
		t.Errorf("relax = %v, want 100µs", stats.PhaseAvg[PhaseRelax])
	}
	if stats.PhaseAvg[PhaseIntegrate] != 300*time.Microsecond {
		t.Errorf("integrate = %v, want 300µs", stats.PhaseAvg[PhaseIntegrate])
	}
	if got := stats.PhasePct[PhaseIntegrate]; got != 75 {
		t.Errorf("integrate pct = %v, want 75", got)
	}
	if stats.PhaseAvg[PhaseClock] != 0 {
		t.Errorf("untimed phase clock = %v, want 0", stats.PhaseAvg[PhaseClock])
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)
	durations := []time.Duration{1, 2, 3, 4, 5}
	for _, d := range durations {
		pc.now = fakeClock(0, d*time.Millisecond)
		pc.StartTick()
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Samples != 3 {
		t.Fatalf("samples = %d, want 3", stats.Samples)
	}
	if stats.MinTick != 3*time.Millisecond || stats.MaxTick != 5*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 3ms/5ms", stats.MinTick, stats.MaxTick)
	}
	if stats.AvgTick != 4*time.Millisecond {
		t.Errorf("avg = %v, want 4ms", stats.AvgTick)
	}
	if stats.TicksPerSecond != 250 {
		t.Errorf("ticks/sec = %v, want 250", stats.TicksPerSecond)
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.Samples != 0 || stats.AvgTick != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v, want zero", stats)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{AvgTick: 2 * time.Millisecond}
	s.PhasePct[PhaseRelax] = 40
	s.PhasePct[PhaseTriangles] = 5

	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.RelaxPct != 40 || row.TrianglesPct != 5 || row.ClockPct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseMidpoints.String() != "midpoints" {
		t.Errorf("got %q", PhaseMidpoints.String())
	}
	if Phase(99).String() != "unknown" {
		t.Errorf("got %q", Phase(99).String())
	}
}
