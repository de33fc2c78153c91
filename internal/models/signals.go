package models

// Trend labels the direction of recent grades against the overall mean.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// RiskLevel grades academic or churn risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels so that high sorts before medium before low.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// QualitativeLevel is the high/medium/low label used for consistency and engagement.
type QualitativeLevel string

const (
	LevelHigh   QualitativeLevel = "high"
	LevelMedium QualitativeLevel = "medium"
	LevelLow    QualitativeLevel = "low"
)

// StudentMetricsSnapshot summarises one student's graded history.
type StudentMetricsSnapshot struct {
	Grades      []float64 `json:"grades"`
	Mean        float64   `json:"mean"`
	RecentMean  float64   `json:"recent_mean"`
	Variance    float64   `json:"variance"`
	StdDev      float64   `json:"std_dev"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	SampleCount int       `json:"sample_count"`
}

// Prediction is the next-grade forecast for a student.
type Prediction struct {
	Prediction  *float64 `json:"prediction"`
	Confidence  int      `json:"confidence"`
	Trend       Trend    `json:"trend"`
	RecentMean  float64  `json:"avg_recent"`
	Mean        float64  `json:"avg_total"`
	SampleCount int      `json:"total_submissions"`
	Message     string   `json:"message"`
}

// RiskAssessment is the academic risk verdict for a student.
type RiskAssessment struct {
	StudentID   string    `json:"student_id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Level       RiskLevel `json:"risk_level"`
	Score       int       `json:"score"`
	Reasons     []string  `json:"reasons"`
	Mean        float64   `json:"avg_grade"`
	RecentMean  float64   `json:"avg_recent"`
	SampleCount int       `json:"total_submissions"`
}

// ChurnRisk flags a student whose activity has lapsed.
type ChurnRisk struct {
	StudentID         string    `json:"student_id"`
	Name              string    `json:"name,omitempty"`
	Email             string    `json:"email,omitempty"`
	Level             RiskLevel `json:"risk_level"`
	Reason            string    `json:"reason"`
	DaysSinceActivity int       `json:"days_since_activity"`
}

// Tier is a cohort performance band.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierRegular   Tier = "regular"
	TierAttention Tier = "attention"
)

// ClusterMember is a student placed into a tier.
type ClusterMember struct {
	StudentID   string  `json:"student_id"`
	Name        string  `json:"name,omitempty"`
	Mean        float64 `json:"avg_grade"`
	Consistency float64 `json:"consistency"`
	SampleCount int     `json:"total_submissions"`
}

// Cluster is one tier of a class partition.
type Cluster struct {
	Tier    Tier            `json:"tier"`
	Count   int             `json:"count"`
	Mean    float64         `json:"avg_grade"`
	Members []ClusterMember `json:"students"`
}

// ClusterSummary is the full tier partition of a class.
type ClusterSummary struct {
	Clusters      []Cluster       `json:"clusters"`
	TotalStudents int             `json:"total_students"`
	Failures      []EntityFailure `json:"failures,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// GradeHistogram counts grades into the four reporting buckets.
type GradeHistogram struct {
	Below50     int `json:"0-49"`
	From50To69  int `json:"50-69"`
	From70To84  int `json:"70-84"`
	From85To100 int `json:"85-100"`
}

// Total returns the number of grades counted.
func (h GradeHistogram) Total() int {
	return h.Below50 + h.From50To69 + h.From70To84 + h.From85To100
}

// ClassAggregate rolls up the graded history of a class.
type ClassAggregate struct {
	ClassID                  string           `json:"class_id,omitempty"`
	ClassName                string           `json:"class_name,omitempty"`
	Mean                     float64          `json:"avg_grade"`
	AdjustedMean             float64          `json:"adjusted_avg"`
	StdDev                   float64          `json:"std_dev"`
	Trend                    Trend            `json:"trend"`
	TotalSubmissions         int              `json:"total_submissions"`
	TotalStudents            int              `json:"total_students"`
	LedgerTotal              int              `json:"total_xp"`
	LedgerSources            map[string]int   `json:"xp_sources"`
	Histogram                GradeHistogram   `json:"grade_buckets"`
	AvgDaysBetweenSubmission *float64         `json:"avg_days_between_submissions"`
	SubmissionsPerStudent    float64          `json:"submissions_per_student_avg"`
	Consistency              QualitativeLevel `json:"consistency"`
	Engagement               QualitativeLevel `json:"engagement"`
}

// TeacherAggregate rolls up every class owned by a teacher.
type TeacherAggregate struct {
	TeacherID        string           `json:"teacher_id"`
	TotalClasses     int              `json:"total_classes"`
	TotalStudents    int              `json:"total_students"`
	TotalActivities  int              `json:"total_activities"`
	TotalSubmissions int              `json:"total_submissions"`
	LedgerTotal      int              `json:"total_xp"`
	Mean             float64          `json:"avg_grade"`
	Classes          []ClassAggregate `json:"class_analyses"`
	EngagementScore  float64          `json:"engagement_score"`
	ActivityRate     float64          `json:"activity_rate"`
	Failures         []EntityFailure  `json:"failures,omitempty"`
}

// ClassComparison is a class aggregate labelled for school-wide ranking.
type ClassComparison struct {
	ClassAggregate
	TeacherName string `json:"teacher_name"`
}

// TeacherComparison is a teacher aggregate labelled for school-wide ranking.
type TeacherComparison struct {
	TeacherAggregate
	Name string `json:"name"`
}

// SentimentLabel classifies free text.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Sentiment is the keyword score of a comment.
type Sentiment struct {
	Score          int            `json:"score"`
	Label          SentimentLabel `json:"label"`
	NeedsAttention bool           `json:"needs_attention"`
	Positive       []string       `json:"positive_matches"`
	Negative       []string       `json:"negative_matches"`
}

// FeedbackSentiment is the sentiment of a single submission comment.
type FeedbackSentiment struct {
	SubmissionID  string    `json:"submission_id"`
	StudentID     string    `json:"student_id"`
	ActivityTitle string    `json:"activity_title"`
	Text          string    `json:"text"`
	Sentiment     Sentiment `json:"sentiment"`
}

// FeedbackSentimentSummary aggregates sentiment across a class.
type FeedbackSentimentSummary struct {
	TotalFeedbacks int                 `json:"total_feedbacks"`
	Positive       int                 `json:"positive"`
	Negative       int                 `json:"negative"`
	Neutral        int                 `json:"neutral"`
	AverageScore   float64             `json:"avg_score"`
	Overall        SentimentLabel      `json:"overall_sentiment"`
	Feedbacks      []FeedbackSentiment `json:"feedbacks"`
	Alerts         []FeedbackSentiment `json:"alerts"`
	Message        string              `json:"message,omitempty"`
}

// Recommendation is an adaptive study suggestion.
type Recommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Activities  []string `json:"activities,omitempty"`
}

// Recommendations bundles the suggestions for a student.
type Recommendations struct {
	Items         []Recommendation `json:"recommendations"`
	TotalAnalyzed int              `json:"total_analyzed"`
	WeakAreas     int              `json:"weak_areas"`
	Message       string           `json:"message,omitempty"`
}

// Narrative is the structured text returned by the external narrative generator.
type Narrative struct {
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
	Message         string   `json:"message,omitempty"`
}
