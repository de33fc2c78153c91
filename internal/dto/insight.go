package dto

import "github.com/noah-isme/edu-signal-api/internal/models"

// InsightKind selects the entity an insight is generated for.
type InsightKind string

const (
	InsightStudent InsightKind = "student"
	InsightClass   InsightKind = "class"
	InsightTeacher InsightKind = "teacher"
)

// Valid reports whether the kind is one of the supported entities.
func (k InsightKind) Valid() bool {
	switch k {
	case InsightStudent, InsightClass, InsightTeacher:
		return true
	default:
		return false
	}
}

// InsightEnvelope is the request handed to the narrative generator.
type InsightEnvelope struct {
	Kind              InsightKind `json:"kind"`
	EntityID          string      `json:"entityId"`
	SystemInstruction string      `json:"systemInstruction"`
	Payload           interface{} `json:"payload"`
	ResponseFields    []string    `json:"responseFields"`
}

// SourceTotal is a ledger source with its accumulated amount.
type SourceTotal struct {
	Source string `json:"source"`
	Amount int    `json:"amount"`
}

// StudentInsightPayload summarises one student for the narrative generator.
type StudentInsightPayload struct {
	StudentName      string                  `json:"studentName,omitempty"`
	AvgGrade         float64                 `json:"avgGrade"`
	Trend            models.Trend            `json:"trend"`
	TotalXP          int                     `json:"totalXp"`
	TotalSubmissions int                     `json:"totalSubmissions"`
	Consistency      models.QualitativeLevel `json:"consistency,omitempty"`
	Prediction       *float64                `json:"prediction"`
	Note             string                  `json:"note"`
}

// ClassInsightPayload summarises one class for the narrative generator.
type ClassInsightPayload struct {
	AvgGrade                 float64                 `json:"avgGrade"`
	StdDev                   float64                 `json:"stdDev"`
	Trend                    models.Trend            `json:"trend"`
	TotalXP                  int                     `json:"totalXp"`
	TotalStudents            int                     `json:"totalStudents"`
	Engagement               models.QualitativeLevel `json:"engagement"`
	TopXPSources             []SourceTotal           `json:"topXpSources"`
	GradeBuckets             models.GradeHistogram   `json:"gradeBuckets"`
	AvgDaysBetweenSubmission *float64                `json:"avgDaysBetweenSubmissions"`
	SubmissionsPerStudent    float64                 `json:"submissionsPerStudentAvg"`
	Note                     string                  `json:"note"`
}

// ClassHighlight names a class singled out in a teacher summary.
type ClassHighlight struct {
	ClassID    string                  `json:"classId"`
	ClassName  string                  `json:"className"`
	AvgGrade   float64                 `json:"avgGrade"`
	Engagement models.QualitativeLevel `json:"engagement"`
}

// TeacherInsightPayload summarises a teacher's classes for the narrative generator.
type TeacherInsightPayload struct {
	TotalClasses  int                  `json:"totalClasses"`
	TotalStudents int                  `json:"totalStudents"`
	AvgGrade      float64              `json:"avgGrade"`
	TotalXP       int                  `json:"totalXp"`
	ActivityRate  float64              `json:"activityRate"`
	TrendCounts   map[models.Trend]int `json:"trendCounts"`
	TopClass      *ClassHighlight      `json:"topClass"`
	BottomClass   *ClassHighlight      `json:"bottomClass"`
	TopXPSources  []SourceTotal        `json:"topXpSources"`
	Note          string               `json:"note"`
}
