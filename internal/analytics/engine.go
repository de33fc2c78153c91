// Package analytics converts submission, grade and reward-ledger history into
// forecasts, risk verdicts, cohort tiers and aggregate reports. Every function
// is pure: callers fetch the history and pass it in.
package analytics

import (
	"math"
	"time"
)

// Engine evaluates signals using a fixed set of thresholds.
type Engine struct {
	th      Thresholds
	lexicon Lexicon
}

// NewEngine constructs an engine. An empty lexicon falls back to the Portuguese default.
func NewEngine(th Thresholds, lexicon Lexicon) *Engine {
	if len(lexicon.Positive) == 0 && len(lexicon.Negative) == 0 {
		lexicon = PortugueseLexicon()
	}
	if len(th.PredictionWeights) == 0 {
		th.PredictionWeights = DefaultThresholds().PredictionWeights
	}
	return &Engine{th: th, lexicon: lexicon}
}

// Thresholds exposes the cut-offs in use.
func (e *Engine) Thresholds() Thresholds {
	return e.th
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationVariance divides by n, matching how the dashboards have always reported spread.
func populationVariance(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
