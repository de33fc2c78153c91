package analytics

import (
	"math"
	"sort"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// Snapshot extracts the metrics of one student's submissions. Ungraded records
// are ignored and the rest are ordered chronologically; a zero SampleCount
// means there is not enough data, not a zero grade.
func (e *Engine) Snapshot(records []models.SubmissionRecord) models.StudentMetricsSnapshot {
	graded := gradedChronologically(records)
	snap := models.StudentMetricsSnapshot{SampleCount: len(graded)}
	if len(graded) == 0 {
		return snap
	}

	grades := make([]float64, len(graded))
	for i, r := range graded {
		grades[i] = *r.Grade
	}
	snap.Grades = grades
	snap.Mean = mean(grades)
	snap.RecentMean = mean(tail(grades, e.th.RecentWindow))
	snap.Variance = populationVariance(grades, snap.Mean)
	snap.StdDev = math.Sqrt(snap.Variance)
	snap.Min, snap.Max = grades[0], grades[0]
	for _, g := range grades[1:] {
		if g < snap.Min {
			snap.Min = g
		}
		if g > snap.Max {
			snap.Max = g
		}
	}
	return snap
}

func gradedChronologically(records []models.SubmissionRecord) []models.SubmissionRecord {
	graded := make([]models.SubmissionRecord, 0, len(records))
	for _, r := range records {
		if r.Graded() {
			graded = append(graded, r)
		}
	}
	sort.SliceStable(graded, func(i, j int) bool {
		return graded[i].SubmittedAt.Before(graded[j].SubmittedAt)
	})
	return graded
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
