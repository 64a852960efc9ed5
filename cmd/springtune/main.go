// Package main fits cursor spring stiffness and damping to a target settle
// time without overshoot.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/goop/config"
	"github.com/pthm-cable/goop/spring"
)

const (
	simSeconds      = 10.0
	frameDt         = 1.0 / 60.0
	overshootWeight = 50.0
	unsettledCost   = 10.0
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetSettle := flag.Float64("target-settle", 0.35, "Desired settle time in seconds")
	tolerance := flag.Float64("tolerance", 0.01, "Settle band around the target value")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	logPath := flag.String("log", "", "Optional CSV log of evaluations")
	outputPath := flag.String("output", "", "Optional path to write the tuned config YAML")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logWriter *csv.Writer
	if *logPath != "" {
		logFile, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer logFile.Close()
		logWriter = csv.NewWriter(logFile)
		defer logWriter.Flush()
		logWriter.Write([]string{"eval", "fitness", "stiffness", "damping", "settle_s", "overshoot"})
	}

	// Optimize in log space so the search stays positive
	initX := []float64{
		math.Log(cfg.Graph.CursorStiffness),
		math.Log(cfg.Graph.CursorDamping),
	}

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestK, bestC float64

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			k := math.Exp(x[0])
			c := math.Exp(x[1])
			settle, overshoot, settled := settleMetrics(k, c, *tolerance)

			fitness := math.Abs(settle-*targetSettle) + overshootWeight*overshoot
			if !settled {
				fitness += unsettledCost
			}

			evalCount++
			if fitness < bestFitness {
				bestFitness = fitness
				bestK, bestC = k, c
			}
			if logWriter != nil {
				logWriter.Write([]string{
					strconv.Itoa(evalCount),
					fmt.Sprintf("%.6f", fitness),
					fmt.Sprintf("%.4f", k),
					fmt.Sprintf("%.4f", c),
					fmt.Sprintf("%.4f", settle),
					fmt.Sprintf("%.5f", overshoot),
				})
				logWriter.Flush()
			}
			fmt.Printf("Eval %d/%d: k=%.1f c=%.1f settle=%.3fs overshoot=%.4f (best=%.4f)\n",
				evalCount, *maxEvals, k, c, settle, overshoot, bestFitness)

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.NelderMead{}

	fmt.Printf("Tuning cursor spring: target settle %.3fs, tolerance %.3f, max_evals=%d\n",
		*targetSettle, *tolerance, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestK == 0 {
		bestK = math.Exp(result.X[0])
		bestC = math.Exp(result.X[1])
	}

	settle, overshoot, settled := settleMetrics(bestK, bestC, *tolerance)
	fmt.Printf("\nBest after %d evaluations: fitness=%.4f\n", evalCount, bestFitness)
	fmt.Printf("  stiffness: %.2f\n", bestK)
	fmt.Printf("  damping:   %.2f\n", bestC)
	fmt.Printf("  settle:    %.3fs (settled=%v)\n", settle, settled)
	fmt.Printf("  overshoot: %.4f\n", overshoot)
	fmt.Printf("  critical damping for this stiffness: %.2f\n", spring.CriticalDamping(bestK))

	fmt.Println("\nYAML fragment:")
	fmt.Printf("graph:\n  cursor_stiffness: %.2f\n  cursor_damping: %.2f\n", bestK, bestC)

	if *outputPath != "" {
		cfg.Graph.CursorStiffness = bestK
		cfg.Graph.CursorDamping = bestC
		if err := cfg.WriteYAML(*outputPath); err != nil {
			log.Printf("failed to write tuned config: %v", err)
		} else {
			fmt.Printf("\nTuned config saved to: %s\n", *outputPath)
		}
	}
}

// settleMetrics runs a unit step response at 60fps and reports when the
// value last left the tolerance band, plus the peak overshoot past the
// target. settled is false when the spring is still outside the band at the
// end of the run.
func settleMetrics(stiffness, damping, tolerance float64) (settle, overshoot float64, settled bool) {
	s, err := spring.New(stiffness, damping, 0)
	if err != nil {
		return simSeconds, 1, false
	}
	s.SetTarget(1)

	lastOutside := 0.0
	peak := 0.0
	steps := int(simSeconds / frameDt)
	for i := 1; i <= steps; i++ {
		x := s.Step(frameDt)
		if x > peak {
			peak = x
		}
		if math.Abs(x-1) > tolerance {
			lastOutside = float64(i) * frameDt
		}
	}

	overshoot = peak - 1
	if overshoot < 0 {
		overshoot = 0
	}
	if math.Abs(s.Value()-1) > tolerance {
		return simSeconds, overshoot, false
	}
	return lastOutside, overshoot, true
}
