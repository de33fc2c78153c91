package analytics

import (
	"math"
	"time"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// AggregateClass rolls up the graded submissions and ledger credits of a
// class. It returns nil when there is no graded work.
func (e *Engine) AggregateClass(records []models.SubmissionRecord, ledger []models.LedgerEntry, now time.Time) *models.ClassAggregate {
	graded := gradedChronologically(records)
	if len(graded) == 0 {
		return nil
	}

	grades := make([]float64, len(graded))
	recent := make([]float64, 0, len(graded))
	perStudent := make(map[string]int)
	windowStart := now.Add(-e.th.AggregateTrendWindow)
	for i, r := range graded {
		grades[i] = *r.Grade
		perStudent[r.StudentID]++
		if r.SubmittedAt.After(windowStart) {
			recent = append(recent, *r.Grade)
		}
	}

	avg := mean(grades)
	stdDev := math.Sqrt(populationVariance(grades, avg))
	recentAvg := avg
	if len(recent) > 0 {
		recentAvg = mean(recent)
	}

	ledgerTotal, sources := sumLedger(ledger)
	bonus := math.Min(e.th.LedgerBonusCap, float64(ledgerTotal)/e.th.LedgerBonusDivisor)
	adjusted := avg*e.th.LedgerMeanWeight + bonus*e.th.LedgerBonusWeight

	return &models.ClassAggregate{
		Mean:                     round1(avg),
		AdjustedMean:             round1(adjusted),
		StdDev:                   round1(stdDev),
		Trend:                    gradeTrend(recentAvg, avg, e.th.AggregateTrendDeadZone),
		TotalSubmissions:         len(graded),
		TotalStudents:            len(perStudent),
		LedgerTotal:              ledgerTotal,
		LedgerSources:            sources,
		Histogram:                histogram(grades),
		AvgDaysBetweenSubmission: cadence(graded),
		SubmissionsPerStudent:    round1(float64(len(graded)) / float64(len(perStudent))),
		Consistency:              e.consistency(stdDev),
		Engagement:               e.engagement(ledgerTotal),
	}
}

// GradeHistogram buckets the graded records of a single student.
func (e *Engine) GradeHistogram(records []models.SubmissionRecord) models.GradeHistogram {
	grades := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Graded() {
			grades = append(grades, *r.Grade)
		}
	}
	return histogram(grades)
}

func histogram(grades []float64) models.GradeHistogram {
	var h models.GradeHistogram
	for _, g := range grades {
		switch v := math.Round(g); {
		case v <= 49:
			h.Below50++
		case v <= 69:
			h.From50To69++
		case v <= 84:
			h.From70To84++
		default:
			h.From85To100++
		}
	}
	return h
}

// cadence expects records in chronological order.
func cadence(records []models.SubmissionRecord) *float64 {
	var total float64
	var count int
	for i := 1; i < len(records); i++ {
		d := records[i].SubmittedAt.Sub(records[i-1].SubmittedAt).Hours() / 24
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			continue
		}
		total += d
		count++
	}
	if count == 0 {
		return nil
	}
	v := round1(total / float64(count))
	return &v
}

func sumLedger(entries []models.LedgerEntry) (int, map[string]int) {
	total := 0
	sources := make(map[string]int)
	for _, entry := range entries {
		total += entry.Amount
		sources[entry.Source] += entry.Amount
	}
	return total, sources
}

func (e *Engine) consistency(stdDev float64) models.QualitativeLevel {
	switch {
	case stdDev < e.th.ConsistencyHighStdDev:
		return models.LevelHigh
	case stdDev < e.th.ConsistencyMedStdDev:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

func (e *Engine) engagement(ledgerTotal int) models.QualitativeLevel {
	switch {
	case ledgerTotal > e.th.EngagementHighLedger:
		return models.LevelHigh
	case ledgerTotal > e.th.EngagementMedLedger:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}
