package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendRequiresMinimumGradedWork(t *testing.T) {
	recs := newTestEngine().Recommend(gradedRecords("s1", 40, 50))

	assert.Empty(t, recs.Items)
	assert.NotNil(t, recs.Items)
	assert.Equal(t, 2, recs.TotalAnalyzed)
	assert.NotEmpty(t, recs.Message)
}

func TestRecommendReviewAndPractice(t *testing.T) {
	records := gradedRecords("s1", 50, 60, 65, 80, 55)
	titles := []string{"A", "B", "C", "D", "E"}
	for i := range records {
		records[i].ActivityTitle = titles[i]
	}
	records[0].ActivityType = quizActivityType

	recs := newTestEngine().Recommend(records)

	require.Len(t, recs.Items, 2)
	assert.Equal(t, 5, recs.TotalAnalyzed)
	assert.Equal(t, 4, recs.WeakAreas)

	review := recs.Items[0]
	assert.Equal(t, RecommendationReview, review.Type)
	assert.Equal(t, "high", review.Priority)
	assert.Equal(t, []string{"A", "B", "C"}, review.Activities)

	practice := recs.Items[1]
	assert.Equal(t, RecommendationPractice, practice.Type)
	assert.Equal(t, "medium", practice.Priority)
}

func TestRecommendNothingNeeded(t *testing.T) {
	records := gradedRecords("s1", 90, 95, 88)
	for i := range records {
		records[i].ActivityType = quizActivityType
	}

	recs := newTestEngine().Recommend(records)

	assert.Empty(t, recs.Items)
	assert.Zero(t, recs.WeakAreas)
	assert.Empty(t, recs.Message)
}
