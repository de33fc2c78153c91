package analytics

import (
	"fmt"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

const (
	RecommendationReview   = "review"
	RecommendationPractice = "practice"

	quizActivityType = "quiz"
	maxReviewItems   = 3
)

// Recommend suggests study actions from a student's graded work in one class.
func (e *Engine) Recommend(records []models.SubmissionRecord) models.Recommendations {
	graded := gradedChronologically(records)
	if len(graded) < e.th.RecommendMinSubmission {
		return models.Recommendations{
			Items:         []models.Recommendation{},
			TotalAnalyzed: len(graded),
			Message:       "more graded activities are needed for recommendations",
		}
	}

	weak := make([]string, 0)
	quizzes := 0
	for _, r := range graded {
		if *r.Grade < e.th.RecommendReviewBelow {
			weak = append(weak, r.ActivityTitle)
		}
		if r.ActivityType == quizActivityType {
			quizzes++
		}
	}

	items := make([]models.Recommendation, 0, 2)
	if len(weak) > 0 {
		listed := weak
		if len(listed) > maxReviewItems {
			listed = listed[:maxReviewItems]
		}
		items = append(items, models.Recommendation{
			Type:        RecommendationReview,
			Priority:    "high",
			Title:       "Review needed",
			Description: fmt.Sprintf("Review the concepts of %d low-scoring activit%s", len(weak), plural(len(weak), "y", "ies")),
			Activities:  listed,
		})
	}
	if quizzes < e.th.RecommendMinQuizzes {
		items = append(items, models.Recommendation{
			Type:        RecommendationPractice,
			Priority:    "medium",
			Title:       "Quiz practice",
			Description: "Take more quizzes to consolidate the content; the question bank is available",
		})
	}

	return models.Recommendations{
		Items:         items,
		TotalAnalyzed: len(graded),
		WeakAreas:     len(weak),
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
