package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment.Gravity != 0.4 {
		t.Errorf("gravity = %v, want 0.4", cfg.Environment.Gravity)
	}
	if cfg.Environment.ClockSpeed != 3 {
		t.Errorf("clock_speed = %d, want 3", cfg.Environment.ClockSpeed)
	}
	if cfg.Derived.RightWall != 796 || cfg.Derived.Ceiling != 596 {
		t.Errorf("derived bounds = (%v, %v), want (796, 596)", cfg.Derived.RightWall, cfg.Derived.Ceiling)
	}
	if !cfg.Walls.Floor || !cfg.Walls.Left || !cfg.Walls.Right || !cfg.Walls.Ceiling {
		t.Errorf("expected all walls enabled by default, got %+v", cfg.Walls)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("environment:\n  gravity: 0\n  clock_speed: -5\nwalls:\n  ceiling: false\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment.Gravity != 0 {
		t.Errorf("gravity = %v, want 0", cfg.Environment.Gravity)
	}
	if cfg.Environment.ClockSpeed != -5 {
		t.Errorf("clock_speed = %d, want -5", cfg.Environment.ClockSpeed)
	}
	if cfg.Walls.Ceiling {
		t.Error("ceiling should be disabled by overlay")
	}
	// Untouched fields keep their defaults
	if cfg.Environment.Tension != 0.9 {
		t.Errorf("tension = %v, want default 0.9", cfg.Environment.Tension)
	}
}

func TestLoadRejectsBadAtmosphere(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("environment:\n  atmosphere: 1.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for atmosphere outside [0, 1]")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Environment.LeftWind = 2.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Environment.LeftWind != 2.5 {
		t.Errorf("left_wind = %v, want 2.5", back.Environment.LeftWind)
	}
}

func TestMustInit(t *testing.T) {
	MustInit("")
	if Cfg().Environment.ClockSpeed != 3 {
		t.Errorf("clock_speed = %d, want 3", Cfg().Environment.ClockSpeed)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustInit did not panic on a missing file")
		}
	}()
	MustInit(filepath.Join(t.TempDir(), "missing.yaml"))
}
