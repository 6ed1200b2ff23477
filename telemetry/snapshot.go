package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/botz/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds enough state to resume a run: the scene as .botz text plus the
// clock and auto-reverse state the text does not carry.
type Snapshot struct {
	Version int   `json:"version"`
	Tick    int32 `json:"tick"`

	// Fingerprint is the graph digest at Tick, for checking a replay.
	Fingerprint uint64 `json:"fingerprint"`

	CycleTime   int32                     `json:"cycle_time"`
	ClockPaused bool                      `json:"clock_paused,omitempty"`
	Drive       components.DriveDirection `json:"drive"`

	// Label, if set, is appended to the file name.
	Label string `json:"label,omitempty"`

	Scene string `json:"scene"`
}

// Filename returns the base name SaveSnapshot uses.
func (s *Snapshot) Filename() string {
	name := fmt.Sprintf("snapshot_%d", s.Tick)
	if s.Label != "" {
		name += "_" + strings.ReplaceAll(s.Label, " ", "_")
	}
	return name + ".json"
}

// SaveSnapshot writes a snapshot into dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, snapshot.Filename())
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot %s: unsupported version %d", path, snapshot.Version)
	}
	return &snapshot, nil
}
