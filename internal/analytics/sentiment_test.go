package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

func TestClassifySentiment(t *testing.T) {
	engine := newTestEngine()

	positive := engine.ClassifySentiment("Adorei, foi fácil e claro")
	assert.Equal(t, 3, positive.Score)
	assert.Equal(t, models.SentimentPositive, positive.Label)
	assert.False(t, positive.NeedsAttention)
	assert.ElementsMatch(t, []string{"adorei", "fácil", "claro"}, positive.Positive)

	negative := engine.ClassifySentiment("Muito difícil, não entendi nada, estou frustrado")
	assert.Equal(t, -3, negative.Score)
	assert.Equal(t, models.SentimentNegative, negative.Label)
	assert.True(t, negative.NeedsAttention)

	caseInsensitive := engine.ClassifySentiment("ÓTIMO e EXCELENTE")
	assert.Equal(t, 2, caseInsensitive.Score)
	assert.Equal(t, models.SentimentPositive, caseInsensitive.Label)
}

func TestClassifySentimentNeutralBand(t *testing.T) {
	engine := newTestEngine()

	for _, text := range []string{"", "   ", "ok", "bom", "ruim", "bom mas confuso"} {
		s := engine.ClassifySentiment(text)
		assert.Equal(t, models.SentimentNeutral, s.Label, text)
		assert.False(t, s.NeedsAttention, text)
	}
	assert.Equal(t, -1, engine.ClassifySentiment("ruim").Score)
}

func TestClassifySentimentEnglishLexicon(t *testing.T) {
	engine := NewEngine(DefaultThresholds(), LexiconByName("en"))

	s := engine.ClassifySentiment("Terrible and confusing, I am frustrated")
	assert.Equal(t, -3, s.Score)
	assert.True(t, s.NeedsAttention)

	assert.Equal(t, PortugueseLexicon(), LexiconByName("pt"))
	assert.Equal(t, PortugueseLexicon(), LexiconByName("unknown"))
}

func TestSummariseFeedback(t *testing.T) {
	engine := newTestEngine()
	records := []models.FeedbackRecord{
		{SubmissionID: "1", StudentID: "s1", ActivityTitle: "Quiz 1", Text: "Adorei, perfeito e claro"},
		{SubmissionID: "2", StudentID: "s2", ActivityTitle: "Quiz 1", Text: "Horrível, confuso e complicado"},
		{SubmissionID: "3", StudentID: "s3", ActivityTitle: "Quiz 2", Text: "ok"},
		{SubmissionID: "4", StudentID: "s4", ActivityTitle: "Quiz 2", Text: "  "},
	}

	summary := engine.SummariseFeedback(records)

	assert.Equal(t, 3, summary.TotalFeedbacks)
	assert.Equal(t, 1, summary.Positive)
	assert.Equal(t, 1, summary.Negative)
	assert.Equal(t, 1, summary.Neutral)
	assert.Equal(t, 0.0, summary.AverageScore)
	assert.Equal(t, models.SentimentNeutral, summary.Overall)
	if assert.Len(t, summary.Alerts, 1) {
		assert.Equal(t, "2", summary.Alerts[0].SubmissionID)
	}
}

func TestSummariseFeedbackEmpty(t *testing.T) {
	summary := newTestEngine().SummariseFeedback(nil)

	assert.Zero(t, summary.TotalFeedbacks)
	assert.NotEmpty(t, summary.Message)
	assert.NotNil(t, summary.Feedbacks)
	assert.NotNil(t, summary.Alerts)
}

func TestSummariseFeedbackOverallNegative(t *testing.T) {
	summary := newTestEngine().SummariseFeedback([]models.FeedbackRecord{
		{SubmissionID: "1", Text: "péssimo e impossível"},
		{SubmissionID: "2", Text: "ruim"},
	})

	assert.Equal(t, -1.5, summary.AverageScore)
	assert.Equal(t, models.SentimentNegative, summary.Overall)
}
