package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/botz/config"
	"github.com/pthm-cable/botz/game"
	"github.com/pthm-cable/botz/telemetry"
)

// FitnessEvaluator runs headless simulations of one scene and scores how far
// it walks.
type FitnessEvaluator struct {
	params     *ParamVector
	scene      string
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestScene    string
	lastDistance float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, scene string, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		scene:       scene,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestScene returns the .botz text, with parameters applied, of the best evaluation.
func (fe *FitnessEvaluator) BestScene() string {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestScene
}

// LastDistance returns the mean distance of the most recent evaluation.
func (fe *FitnessEvaluator) LastDistance() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDistance
}

// runResult holds the results from a single simulation run.
type runResult struct {
	distance float64 // furthest rightward centroid travel
	scene    string  // starting scene with the parameters applied
	err      error
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Fitness is the negated mean distance walked across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		if r.err != nil {
			// A scene that fails to load is as bad as one that does not move.
			continue
		}
		total += r.distance
	}
	mean := total / float64(len(fe.seeds))
	fitness := -mean

	fe.mu.Lock()
	if fitness < fe.bestFitness && results[0].err == nil {
		fe.bestFitness = fitness
		fe.bestScene = results[0].scene
	}
	fe.lastDistance = mean
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := *fe.baseConfig

	var windows []telemetry.WindowStats
	g, err := game.NewGame(game.Options{
		Config: &cfg,
		Scene:  fe.scene,
		Seed:   seed,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		return runResult{err: err}
	}
	defer g.Close()

	fe.params.ApplyToLinks(g.Graph().Links, x)
	g.SetMode(game.ModeSimulating)
	scene := g.SceneText()

	start := g.Graph().Centroid()[0]
	for g.Tick() < fe.maxTicks {
		g.Step()
	}

	return runResult{
		distance: furthest(windows, g.Graph().Centroid()[0]) - start,
		scene:    scene,
	}
}

// furthest returns the largest centroid x seen at any window boundary or at the end.
func furthest(windows []telemetry.WindowStats, final float64) float64 {
	best := final
	for _, w := range windows {
		best = max(best, w.CentroidX)
	}
	return best
}
