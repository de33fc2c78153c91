package analytics

import (
	"fmt"
	"math"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// Predict forecasts the next grade from a snapshot.
//
// The forecast is a weighted sum over the last len(PredictionWeights) grades
// with weights aligned oldest-to-newest from the first weight. With fewer
// grades than weights the unused tail weights are dropped and, unless
// NormalizePredictionWeights is set, the remaining weights are not rescaled,
// so short histories produce a damped forecast.
func (e *Engine) Predict(snap models.StudentMetricsSnapshot) models.Prediction {
	if snap.SampleCount < e.th.MinPredictionSamples {
		return models.Prediction{
			Prediction:  nil,
			Confidence:  0,
			Trend:       models.TrendInsufficientData,
			SampleCount: snap.SampleCount,
			Message:     fmt.Sprintf("at least %d graded activities required", e.th.MinPredictionSamples),
		}
	}

	window := tail(snap.Grades, len(e.th.PredictionWeights))
	var forecast, used float64
	for i, g := range window {
		w := e.th.PredictionWeights[i]
		forecast += g * w
		used += w
	}
	if e.th.NormalizePredictionWeights && used > 0 {
		forecast /= used
	}
	forecast = round1(forecast)

	trend := gradeTrend(snap.RecentMean, snap.Mean, e.th.PredictionTrendDeadZone)
	confidence := clamp(100-e.th.ConfidenceStdDevFactor*snap.StdDev, 0, 100)

	return models.Prediction{
		Prediction:  &forecast,
		Confidence:  int(math.Round(confidence)),
		Trend:       trend,
		RecentMean:  round1(snap.RecentMean),
		Mean:        round1(snap.Mean),
		SampleCount: snap.SampleCount,
		Message:     trendMessage(trend),
	}
}

func gradeTrend(recent, overall, deadZone float64) models.Trend {
	switch {
	case recent > overall+deadZone:
		return models.TrendImproving
	case recent < overall-deadZone:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func trendMessage(trend models.Trend) string {
	switch trend {
	case models.TrendImproving:
		return "student is improving"
	case models.TrendDeclining:
		return "attention: performance is declining"
	default:
		return "performance is stable"
	}
}
