package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Thresholds holds every cut-off used by the analytics engine. They load from
// SIGNAL_* variables on top of DefaultThresholds.
type Thresholds struct {
	RecentWindow int `validate:"gte=1"`

	MinPredictionSamples       int       `validate:"gte=1"`
	PredictionWeights          []float64 `validate:"min=1,dive,gte=0"`
	NormalizePredictionWeights bool
	PredictionTrendDeadZone    float64 `validate:"gte=0"`
	ConfidenceStdDevFactor     float64 `validate:"gte=0"`

	RiskLowMean            float64 `validate:"gte=0,lte=100"`
	RiskDeclineGap         float64 `validate:"gte=0"`
	RiskInconsistencyRange float64 `validate:"gte=0"`
	RiskLowMeanWeight      int     `validate:"gte=0"`
	RiskDeclineWeight      int     `validate:"gte=0"`
	RiskInconsistentWeight int     `validate:"gte=0"`
	RiskHighScore          int     `validate:"gtefield=RiskMediumScore"`
	RiskMediumScore        int     `validate:"gtefield=RiskLowScore"`
	RiskLowScore           int     `validate:"gte=1"`

	ChurnMediumDays int `validate:"gte=0"`
	ChurnHighDays   int `validate:"gtefield=ChurnMediumDays"`

	MinClusterStudents int     `validate:"gte=1"`
	TierExcellent      float64 `validate:"gtefield=TierGood"`
	TierGood           float64 `validate:"gtefield=TierRegular"`
	TierRegular        float64 `validate:"gte=0"`

	AggregateTrendWindow   time.Duration `validate:"gt=0"`
	AggregateTrendDeadZone float64       `validate:"gte=0"`
	LedgerMeanWeight       float64       `validate:"gte=0,lte=1"`
	LedgerBonusWeight      float64       `validate:"gte=0,lte=1"`
	LedgerBonusCap         float64       `validate:"gte=0"`
	LedgerBonusDivisor     float64       `validate:"gt=0"`
	ConsistencyHighStdDev  float64       `validate:"gt=0"`
	ConsistencyMedStdDev   float64       `validate:"gtefield=ConsistencyHighStdDev"`
	EngagementHighLedger   int           `validate:"gtefield=EngagementMedLedger"`
	EngagementMedLedger    int           `validate:"gte=0"`

	SentimentNegativeBelow int `validate:"ltefield=SentimentPositiveAbove"`
	SentimentPositiveAbove int
	SentimentOverallBand   float64 `validate:"gte=0"`

	RecommendReviewBelow   float64 `validate:"gte=0,lte=100"`
	RecommendMinQuizzes    int     `validate:"gte=0"`
	RecommendMinSubmission int     `validate:"gte=1"`
}

// DefaultThresholds returns the reference cut-offs of the platform.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RecentWindow: 5,

		MinPredictionSamples:    3,
		PredictionWeights:       []float64{0.1, 0.15, 0.2, 0.25, 0.3},
		PredictionTrendDeadZone: 5,
		ConfidenceStdDevFactor:  2,

		RiskLowMean:            60,
		RiskDeclineGap:         10,
		RiskInconsistencyRange: 40,
		RiskLowMeanWeight:      3,
		RiskDeclineWeight:      2,
		RiskInconsistentWeight: 1,
		RiskHighScore:          4,
		RiskMediumScore:        2,
		RiskLowScore:           1,

		ChurnMediumDays: 14,
		ChurnHighDays:   30,

		MinClusterStudents: 3,
		TierExcellent:      85,
		TierGood:           70,
		TierRegular:        60,

		AggregateTrendWindow:   28 * 24 * time.Hour,
		AggregateTrendDeadZone: 3,
		LedgerMeanWeight:       0.9,
		LedgerBonusWeight:      0.1,
		LedgerBonusCap:         5,
		LedgerBonusDivisor:     1000,
		ConsistencyHighStdDev:  15,
		ConsistencyMedStdDev:   25,
		EngagementHighLedger:   5000,
		EngagementMedLedger:    2000,

		SentimentNegativeBelow: -1,
		SentimentPositiveAbove: 1,
		SentimentOverallBand:   0.5,

		RecommendReviewBelow:   70,
		RecommendMinQuizzes:    3,
		RecommendMinSubmission: 3,
	}
}

// Validate checks internal consistency of the thresholds.
func (t Thresholds) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return fmt.Errorf("invalid analytics thresholds: %w", err)
	}
	return nil
}
