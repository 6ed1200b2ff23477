package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/botz/botz"
	"github.com/pthm-cable/botz/config"
	"github.com/pthm-cable/botz/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, preset string) *Game {
	t.Helper()
	g, err := NewGame(Options{Config: testConfig(t), Preset: preset})
	if err != nil {
		t.Fatalf("NewGame(%s): %v", preset, err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestNewGameLoadsConfiguredPreset(t *testing.T) {
	g, err := NewGame(Options{Config: testConfig(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if n := g.Graph().UsedCount(); n != 4 {
		t.Errorf("walker vertices = %d, want 4", n)
	}
	if n := len(g.Graph().Links); n != 6 {
		t.Errorf("walker links = %d, want 6", n)
	}
	if g.Mode() != ModeSimulating {
		t.Errorf("mode = %v, want simulating", g.Mode())
	}
	if !g.AutoReverse().Enabled {
		t.Error("auto-reverse should follow config")
	}
}

func TestNewGameRejectsUnknownPreset(t *testing.T) {
	if _, err := NewGame(Options{Config: testConfig(t), Preset: "nope"}); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestLoadSceneFailureLeavesSceneUntouched(t *testing.T) {
	g := newTestGame(t, "box")
	g.Step()
	before := g.Graph().Fingerprint()
	env := *g.Env()

	err := g.LoadScene("G9;VX1|Y1;LA1|B9;")
	if !errors.Is(err, botz.ErrLinkEndpoint) {
		t.Fatalf("err = %v, want ErrLinkEndpoint", err)
	}
	if g.Graph().Fingerprint() != before {
		t.Error("graph changed after failed load")
	}
	if *g.Env() != env {
		t.Errorf("env = %+v, want %+v", *g.Env(), env)
	}
}

func TestLoadedRestLengthsMatchGeometry(t *testing.T) {
	for _, name := range botz.PresetNames() {
		t.Run(name, func(t *testing.T) {
			g := newTestGame(t, name)
			gr := g.Graph()
			for i := range gr.Links {
				want := gr.Links[i].RestLength
				gr.ResetLink(i)
				if got := gr.Links[i].RestLength; math.Abs(got-want) > 1e-9 {
					t.Errorf("link %d: reset rest = %v, stored %v", i, got, want)
				}
			}
		})
	}
}

func TestUpdateDoesNothingWhileEditing(t *testing.T) {
	g := newTestGame(t, "box")
	g.SetMode(ModeEditing)
	before := g.Graph().Fingerprint()

	g.Update()

	if g.Tick() != 0 {
		t.Errorf("tick = %d, want 0", g.Tick())
	}
	if g.Graph().Fingerprint() != before {
		t.Error("editing scene moved")
	}
}

func TestUpdateRunsStepsPerUpdate(t *testing.T) {
	g := newTestGame(t, "walker")
	g.SetStepsPerUpdate(5)
	g.Update()
	if g.Tick() != 5 {
		t.Errorf("tick = %d, want 5", g.Tick())
	}
}

func TestUpdateUntilStopsAtLimit(t *testing.T) {
	g := newTestGame(t, "walker")
	g.SetStepsPerUpdate(4)
	for g.Tick() < 10 {
		g.UpdateUntil(10)
	}
	if g.Tick() != 10 {
		t.Errorf("tick = %d, want 10", g.Tick())
	}
	g.UpdateUntil(10)
	if g.Tick() != 10 {
		t.Errorf("tick = %d after reaching the limit, want 10", g.Tick())
	}
}

func TestStepIsDeterministic(t *testing.T) {
	a := newTestGame(t, "walker")
	b := newTestGame(t, "walker")
	for i := 0; i < 500; i++ {
		a.Step()
		b.Step()
	}
	if a.Graph().Fingerprint() != b.Graph().Fingerprint() {
		t.Error("identical runs diverged")
	}
	if a.Clock().Time != b.Clock().Time {
		t.Errorf("clock %d vs %d", a.Clock().Time, b.Clock().Time)
	}
}

func TestSceneTextRoundTrip(t *testing.T) {
	a := newTestGame(t, "unicycle")
	for i := 0; i < 100; i++ {
		a.Step()
	}

	b := newTestGame(t, "blank")
	if err := b.LoadScene(a.SceneText()); err != nil {
		t.Fatal(err)
	}
	if a.Graph().Fingerprint() != b.Graph().Fingerprint() {
		t.Error("reloaded scene hashes differently")
	}
	if *a.Env() != *b.Env() {
		t.Errorf("env = %+v, want %+v", *b.Env(), *a.Env())
	}
	if b.Mode() != ModeSimulating {
		t.Errorf("mode = %v, want simulating", b.Mode())
	}
}

func TestSnapshotRestoreContinuesRun(t *testing.T) {
	a := newTestGame(t, "walker")
	for i := 0; i < 150; i++ {
		a.Step()
	}
	snap := a.Snapshot("")

	b := newTestGame(t, "box")
	if err := b.RestoreSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if b.Tick() != 150 || b.Graph().Fingerprint() != snap.Fingerprint {
		t.Fatalf("restore: tick %d, fingerprint match %v", b.Tick(), b.Graph().Fingerprint() == snap.Fingerprint)
	}

	for i := 0; i < 200; i++ {
		a.Step()
		b.Step()
	}
	if a.Graph().Fingerprint() != b.Graph().Fingerprint() {
		t.Error("restored run diverged")
	}
}

func TestStatsCallbackWindows(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 10

	var windows []telemetry.WindowStats
	g, err := NewGame(Options{
		Config: cfg,
		Preset: "walker",
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	for i := 0; i < 35; i++ {
		g.Step()
	}
	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}
	for i, w := range windows {
		if want := int32(10 * (i + 1)); w.WindowEndTick != want {
			t.Errorf("window %d ends at %d, want %d", i, w.WindowEndTick, want)
		}
		if w.Vertices != 4 || w.Links != 6 {
			t.Errorf("window %d topology = %d/%d", i, w.Vertices, w.Links)
		}
	}
	// The walker starts on the floor.
	if windows[0].WallContacts == 0 {
		t.Error("expected floor contacts in first window")
	}
}

func TestOutputAndSnapshotDirs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 10
	out := filepath.Join(t.TempDir(), "out")
	snaps := filepath.Join(t.TempDir(), "snaps")

	g, err := NewGame(Options{Config: cfg, Preset: "box", OutputDir: out, SnapshotDir: snaps})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		g.Step()
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	entries, err := os.ReadDir(snaps)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("snapshots = %d, want one per window", len(entries))
	}

	loaded, err := telemetry.LoadSnapshot(filepath.Join(snaps, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Tick != 10 && loaded.Tick != 20 {
		t.Errorf("snapshot tick = %d", loaded.Tick)
	}
}

func TestSaveSnapshotNeedsDir(t *testing.T) {
	g := newTestGame(t, "blank")
	if _, err := g.SaveSnapshot(""); err == nil {
		t.Error("expected error without snapshot dir")
	}
}

func TestClockPause(t *testing.T) {
	g := newTestGame(t, "walker")
	g.SetClockPaused(true)
	for i := 0; i < 10; i++ {
		g.Step()
	}
	if g.Clock().Time != 0 {
		t.Errorf("paused clock moved to %d", g.Clock().Time)
	}
	// Push is still computed so it resumes without a jump.
	var pushed bool
	for _, l := range g.Graph().Links {
		if l.Push != 0 {
			pushed = true
		}
	}
	if !pushed {
		t.Error("expected muscle push values while paused")
	}
}

func TestNewGameFallsBackToGlobalConfig(t *testing.T) {
	config.MustInit("")

	g, err := NewGame(Options{Preset: "box"})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if g.Arena() != config.Cfg().Bounds() {
		t.Errorf("arena = %+v, want global %+v", g.Arena(), config.Cfg().Bounds())
	}
}
