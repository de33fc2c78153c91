package analytics

import (
	"sort"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// Risk reason tags.
const (
	ReasonLowAverage    = "low average"
	ReasonRecentDecline = "recent decline"
	ReasonInconsistent  = "inconsistent"
)

// AssessRisk scores academic risk. The boolean is false when the student has
// no graded work or no criterion triggered.
func (e *Engine) AssessRisk(studentID string, snap models.StudentMetricsSnapshot) (*models.RiskAssessment, bool) {
	if snap.SampleCount == 0 {
		return nil, false
	}

	score := 0
	reasons := make([]string, 0, 3)
	if snap.Mean < e.th.RiskLowMean {
		score += e.th.RiskLowMeanWeight
		reasons = append(reasons, ReasonLowAverage)
	}
	if snap.RecentMean < snap.Mean-e.th.RiskDeclineGap {
		score += e.th.RiskDeclineWeight
		reasons = append(reasons, ReasonRecentDecline)
	}
	if snap.Max-snap.Min > e.th.RiskInconsistencyRange {
		score += e.th.RiskInconsistentWeight
		reasons = append(reasons, ReasonInconsistent)
	}

	level, ok := e.riskLevel(score)
	if !ok {
		return nil, false
	}
	return &models.RiskAssessment{
		StudentID:   studentID,
		Level:       level,
		Score:       score,
		Reasons:     reasons,
		Mean:        round1(snap.Mean),
		RecentMean:  round1(snap.RecentMean),
		SampleCount: snap.SampleCount,
	}, true
}

func (e *Engine) riskLevel(score int) (models.RiskLevel, bool) {
	switch {
	case score >= e.th.RiskHighScore:
		return models.RiskHigh, true
	case score >= e.th.RiskMediumScore:
		return models.RiskMedium, true
	case score >= e.th.RiskLowScore:
		return models.RiskLow, true
	default:
		return "", false
	}
}

// SortRiskAssessments orders assessments high, medium, low. Equal levels keep their input order.
func SortRiskAssessments(items []models.RiskAssessment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Level.Rank() > items[j].Level.Rank()
	})
}
