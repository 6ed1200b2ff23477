package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase identifies one timed section of a simulation step.
type Phase uint8

// Phases of a simulation step, in execution order.
const (
	PhaseClock Phase = iota
	PhaseRelax
	PhaseIntegrate
	PhaseMidpoints
	PhaseTriangles
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseClock:     "clock",
	PhaseRelax:     "relax",
	PhaseIntegrate: "integrate",
	PhaseMidpoints: "midpoints",
	PhaseTriangles: "triangles",
	PhaseTelemetry: "telemetry",
}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	Tick   time.Duration
	Phases [numPhases]time.Duration
}

// PerfCollector tracks step timings over a rolling window.
type PerfCollector struct {
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]PerfSample, windowSize),
		now:     time.Now,
	}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = PerfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = phase < numPhases
}

// EndTick closes the step and records it in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.current.Tick = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// PerfStats holds aggregated timings for the window.
type PerfStats struct {
	Samples int

	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg [numPhases]time.Duration
	// Share of the average tick, in percent.
	PhasePct [numPhases]float64

	TicksPerSecond float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	n := p.sampleCount
	if n == 0 {
		return PerfStats{}
	}

	ticks := make([]float64, n)
	var phaseSum [numPhases]float64
	for i := 0; i < n; i++ {
		s := p.samples[i]
		ticks[i] = float64(s.Tick)
		for ph, d := range s.Phases {
			phaseSum[ph] += float64(d)
		}
	}

	avg := floats.Sum(ticks) / float64(n)
	stats := PerfStats{
		Samples: n,
		AvgTick: time.Duration(avg),
		MinTick: time.Duration(floats.Min(ticks)),
		MaxTick: time.Duration(floats.Max(ticks)),
	}
	for ph := range phaseSum {
		phAvg := phaseSum[ph] / float64(n)
		stats.PhaseAvg[ph] = time.Duration(phAvg)
		if avg > 0 {
			stats.PhasePct[ph] = phAvg / avg * 100
		}
	}
	if avg > 0 {
		stats.TicksPerSecond = float64(time.Second) / avg
	}
	return stats
}

// LogStats writes the stats as a single "perf" record, omitting negligible phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"min_tick_us", s.MinTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	ClockPct     float64 `csv:"clock_pct"`
	RelaxPct     float64 `csv:"relax_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	MidpointsPct float64 `csv:"midpoints_pct"`
	TrianglesPct float64 `csv:"triangles_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		ClockPct:     s.PhasePct[PhaseClock],
		RelaxPct:     s.PhasePct[PhaseRelax],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		MidpointsPct: s.PhasePct[PhaseMidpoints],
		TrianglesPct: s.PhasePct[PhaseTriangles],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
