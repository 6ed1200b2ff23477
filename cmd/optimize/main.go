// Package main searches the muscle timings and strengths of a scene with CMA-ES
// for the gait that carries it furthest to the right.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/botz/botz"
	"github.com/pthm-cable/botz/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	preset := flag.String("preset", "walker", "Built-in scene to optimise")
	scenePath := flag.String("scene", "", "Path to a .botz scene (overrides -preset)")
	maxTicks := flag.Int("max-ticks", 3000, "Simulation length per run in ticks")
	seeds := flag.Int("seeds", 3, "Wind seeds per evaluation (1 when gusts are off)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Per-run scene loads are noise at this level.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	sceneText, err := loadScene(*scenePath, *preset)
	if err != nil {
		log.Fatal(err)
	}
	scene, err := botz.Parse(sceneText, baseCfg.Env())
	if err != nil {
		log.Fatalf("parsing scene: %v", err)
	}

	params := NewParamVector(scene.Links)
	dim := params.Dim()
	if dim == 0 {
		log.Fatal("scene has no muscle links (push_strength != 0) to optimise")
	}

	// Without gusts every seed runs the same simulation.
	if baseCfg.Wind.GustStrength == 0 {
		*seeds = 1
	}
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, sceneText, int32(*maxTicks), evalSeeds, baseCfg)

	initX := params.Normalize(params.DefaultVector())
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "distance"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 0.0
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if bestParams == nil || fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		distance := evaluator.LastDistance()
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.6f", distance)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
		fmt.Printf("Eval %d/%d: distance=%.1f (best=%.1f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, distance, -bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters (%d muscles), population=%d, max_evals=%d\n",
		dim, dim/2, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", len(evalSeeds), *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best distance: %.1f\n", -bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.3f\n", spec.Name, bestParams[i])
	}

	if best := evaluator.BestScene(); best != "" {
		scenePath := filepath.Join(*outputDir, "best.botz")
		if err := os.WriteFile(scenePath, []byte(best), 0644); err != nil {
			log.Printf("failed to write best scene: %v", err)
		} else {
			fmt.Printf("\nBest scene saved to: %s\n", scenePath)
		}
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write config: %v", err)
	} else {
		fmt.Printf("Run config saved to: %s\n", configOutPath)
	}
}

func loadScene(path, preset string) (string, error) {
	if path == "" {
		return botz.Preset(preset)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading scene: %w", err)
	}
	return string(data), nil
}
