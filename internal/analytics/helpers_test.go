package analytics

import (
	"time"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func grade(v float64) *float64 {
	return &v
}

// gradedRecords builds one submission per grade, a day apart, ending a day before testNow.
func gradedRecords(studentID string, grades ...float64) []models.SubmissionRecord {
	out := make([]models.SubmissionRecord, len(grades))
	start := testNow.AddDate(0, 0, -len(grades))
	for i, g := range grades {
		out[i] = models.SubmissionRecord{
			ID:          studentID + "-sub-" + string(rune('a'+i)),
			StudentID:   studentID,
			ClassID:     "class-1",
			ActivityID:  "act-" + string(rune('a'+i)),
			Grade:       grade(g),
			SubmittedAt: start.AddDate(0, 0, i),
		}
	}
	return out
}

func newTestEngine() *Engine {
	return NewEngine(DefaultThresholds(), Lexicon{})
}
