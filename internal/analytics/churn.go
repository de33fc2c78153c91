package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// ReasonNoActivity marks a student who never submitted anything.
const ReasonNoActivity = "no activity"

// StudentActivity is the recency input of the churn predictor.
type StudentActivity struct {
	StudentID    string
	JoinedAt     *time.Time
	LastActivity *time.Time
}

// LastActivity returns the latest submission time regardless of grading, or nil when there is none.
func LastActivity(records []models.SubmissionRecord) *time.Time {
	var last *time.Time
	for i := range records {
		at := records[i].SubmittedAt
		if at.IsZero() {
			continue
		}
		if last == nil || at.After(*last) {
			t := at
			last = &t
		}
	}
	return last
}

// EvaluateChurn classifies inactivity risk. A student who never submitted is
// always high risk; otherwise only lapses beyond ChurnMediumDays are flagged.
func (e *Engine) EvaluateChurn(activity StudentActivity, now time.Time) (*models.ChurnRisk, bool) {
	if activity.LastActivity == nil {
		days := 0
		if activity.JoinedAt != nil {
			days = wholeDays(now.Sub(*activity.JoinedAt))
		}
		return &models.ChurnRisk{
			StudentID:         activity.StudentID,
			Level:             models.RiskHigh,
			Reason:            ReasonNoActivity,
			DaysSinceActivity: days,
		}, true
	}

	days := wholeDays(now.Sub(*activity.LastActivity))
	if days <= e.th.ChurnMediumDays {
		return nil, false
	}
	level := models.RiskMedium
	if days > e.th.ChurnHighDays {
		level = models.RiskHigh
	}
	return &models.ChurnRisk{
		StudentID:         activity.StudentID,
		Level:             level,
		Reason:            fmt.Sprintf("%d days without activity", days),
		DaysSinceActivity: days,
	}, true
}

// SortChurnRisks orders by days since activity, longest lapse first.
func SortChurnRisks(items []models.ChurnRisk) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysSinceActivity > items[j].DaysSinceActivity
	})
}
