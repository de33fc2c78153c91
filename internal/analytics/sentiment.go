package analytics

import (
	"math"
	"strings"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// Lexicon lists the keywords matched by the sentiment classifier. Keywords are
// matched as lower-case substrings.
type Lexicon struct {
	Positive []string
	Negative []string
}

// PortugueseLexicon is the platform default.
func PortugueseLexicon() Lexicon {
	return Lexicon{
		Positive: []string{"bom", "ótimo", "excelente", "legal", "entendi", "fácil", "claro", "adorei", "perfeito", "incrível"},
		Negative: []string{"ruim", "difícil", "complicado", "confuso", "péssimo", "horrível", "não entendi", "muito difícil", "impossível", "frustrado"},
	}
}

func EnglishLexicon() Lexicon {
	return Lexicon{
		Positive: []string{"good", "great", "excellent", "nice", "understood", "easy", "clear", "loved", "perfect", "amazing"},
		Negative: []string{"bad", "difficult", "complicated", "confusing", "terrible", "awful", "didn't understand", "too difficult", "impossible", "frustrated"},
	}
}

// LexiconByName resolves a configured lexicon name. Unknown names fall back to Portuguese.
func LexiconByName(name string) Lexicon {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "en", "english":
		return EnglishLexicon()
	default:
		return PortugueseLexicon()
	}
}

// ClassifySentiment scores free text as positive keyword hits minus negative
// keyword hits. Each keyword counts at most once.
func (e *Engine) ClassifySentiment(text string) models.Sentiment {
	out := models.Sentiment{
		Label:    models.SentimentNeutral,
		Positive: []string{},
		Negative: []string{},
	}
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return out
	}

	for _, word := range e.lexicon.Positive {
		if strings.Contains(lower, word) {
			out.Positive = append(out.Positive, word)
		}
	}
	for _, word := range e.lexicon.Negative {
		if strings.Contains(lower, word) {
			out.Negative = append(out.Negative, word)
		}
	}
	out.Score = len(out.Positive) - len(out.Negative)

	switch {
	case out.Score < e.th.SentimentNegativeBelow:
		out.Label = models.SentimentNegative
	case out.Score > e.th.SentimentPositiveAbove:
		out.Label = models.SentimentPositive
	}
	out.NeedsAttention = out.Score < e.th.SentimentNegativeBelow
	return out
}

// SummariseFeedback classifies every comment of a class and aggregates the labels.
func (e *Engine) SummariseFeedback(records []models.FeedbackRecord) models.FeedbackSentimentSummary {
	summary := models.FeedbackSentimentSummary{
		Overall:   models.SentimentNeutral,
		Feedbacks: []models.FeedbackSentiment{},
		Alerts:    []models.FeedbackSentiment{},
	}

	var total int
	for _, r := range records {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		item := models.FeedbackSentiment{
			SubmissionID:  r.SubmissionID,
			StudentID:     r.StudentID,
			ActivityTitle: r.ActivityTitle,
			Text:          r.Text,
			Sentiment:     e.ClassifySentiment(r.Text),
		}
		switch item.Sentiment.Label {
		case models.SentimentPositive:
			summary.Positive++
		case models.SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
		if item.Sentiment.NeedsAttention {
			summary.Alerts = append(summary.Alerts, item)
		}
		total += item.Sentiment.Score
		summary.Feedbacks = append(summary.Feedbacks, item)
	}

	summary.TotalFeedbacks = len(summary.Feedbacks)
	if summary.TotalFeedbacks == 0 {
		summary.Message = "no feedback found"
		return summary
	}

	avg := float64(total) / float64(summary.TotalFeedbacks)
	summary.AverageScore = math.Round(avg*100) / 100
	switch {
	case avg > e.th.SentimentOverallBand:
		summary.Overall = models.SentimentPositive
	case avg < -e.th.SentimentOverallBand:
		summary.Overall = models.SentimentNegative
	}
	return summary
}
