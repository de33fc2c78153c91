package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

func daysAgo(days int) *time.Time {
	t := testNow.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestEvaluateChurnNeverActive(t *testing.T) {
	engine := newTestEngine()

	for _, joined := range []*time.Time{nil, daysAgo(0), daysAgo(3), daysAgo(400)} {
		churn, ok := engine.EvaluateChurn(StudentActivity{StudentID: "s1", JoinedAt: joined}, testNow)
		require.True(t, ok)
		assert.Equal(t, models.RiskHigh, churn.Level)
		assert.Equal(t, ReasonNoActivity, churn.Reason)
	}

	churn, _ := engine.EvaluateChurn(StudentActivity{StudentID: "s1", JoinedAt: daysAgo(3)}, testNow)
	assert.Equal(t, 3, churn.DaysSinceActivity)

	churn, _ = engine.EvaluateChurn(StudentActivity{StudentID: "s1"}, testNow)
	assert.Zero(t, churn.DaysSinceActivity)
}

func TestEvaluateChurnLevels(t *testing.T) {
	engine := newTestEngine()
	cases := []struct {
		days    int
		flagged bool
		level   models.RiskLevel
	}{
		{days: 0, flagged: false},
		{days: 14, flagged: false},
		{days: 15, flagged: true, level: models.RiskMedium},
		{days: 30, flagged: true, level: models.RiskMedium},
		{days: 31, flagged: true, level: models.RiskHigh},
	}
	for _, tc := range cases {
		churn, ok := engine.EvaluateChurn(StudentActivity{StudentID: "s1", JoinedAt: daysAgo(100), LastActivity: daysAgo(tc.days)}, testNow)
		assert.Equal(t, tc.flagged, ok, "days=%d", tc.days)
		if tc.flagged {
			assert.Equal(t, tc.level, churn.Level, "days=%d", tc.days)
			assert.Equal(t, tc.days, churn.DaysSinceActivity)
		}
	}
}

func TestEvaluateChurnPartialDaysTruncate(t *testing.T) {
	engine := newTestEngine()
	last := testNow.Add(-(14*24 + 23) * time.Hour)

	_, ok := engine.EvaluateChurn(StudentActivity{StudentID: "s1", LastActivity: &last}, testNow)

	assert.False(t, ok)
}

func TestLastActivityIgnoresGrading(t *testing.T) {
	records := gradedRecords("s1", 70, 80)
	latest := testNow.Add(-time.Hour)
	records = append(records, models.SubmissionRecord{StudentID: "s1", SubmittedAt: latest})

	got := LastActivity(records)

	require.NotNil(t, got)
	assert.Equal(t, latest, *got)
	assert.Nil(t, LastActivity(nil))
}

func TestSortChurnRisks(t *testing.T) {
	items := []models.ChurnRisk{
		{StudentID: "a", DaysSinceActivity: 20},
		{StudentID: "b", DaysSinceActivity: 45},
		{StudentID: "c", DaysSinceActivity: 20},
		{StudentID: "d", DaysSinceActivity: 90},
	}

	SortChurnRisks(items)

	assert.Equal(t, "d", items[0].StudentID)
	assert.Equal(t, "b", items[1].StudentID)
	assert.Equal(t, "a", items[2].StudentID)
	assert.Equal(t, "c", items[3].StudentID)
}
