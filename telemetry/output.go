package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/botz/config"
)

// OutputManager writes experiment output (CSV rows and the effective config) to a directory.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry csvSink
	perf      csvSink
}

// csvSink appends gocsv rows to a file, writing the header with the first row.
type csvSink struct {
	f             *os.File
	headerWritten bool
}

func (s *csvSink) write(rows any) error {
	if s.headerWritten {
		return gocsv.MarshalWithoutHeaders(rows, s.f)
	}
	if err := gocsv.Marshal(rows, s.f); err != nil {
		return err
	}
	s.headerWritten = true
	return nil
}

// NewOutputManager creates dir and opens the CSV files in it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry.f, err = os.Create(filepath.Join(dir, "telemetry.csv")); err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	if om.perf.f, err = os.Create(filepath.Join(dir, "perf.csv")); err != nil {
		om.telemetry.f.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	return om, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a row to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files, returning the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []io.Closer{om.telemetry.f, om.perf.f} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
