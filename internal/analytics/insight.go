package analytics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/noah-isme/edu-signal-api/internal/dto"
	"github.com/noah-isme/edu-signal-api/internal/models"
)

// SystemInstruction is the system-role message sent with every insight payload.
const SystemInstruction = "You are an educational analysis specialist. Respond ONLY with valid JSON."

const (
	ledgerWeightNote = "XP carries a reduced 10% weight in adjusted averages."
	topSourceCount   = 5
)

// ErrNilInsightSubject is returned when BuildInsight receives no subject.
var ErrNilInsightSubject = errors.New("insight subject is nil")

// InsightSubject is one of StudentInsightSubject, ClassInsightSubject or TeacherInsightSubject.
type InsightSubject interface {
	insightSubject()
}

type StudentInsightSubject struct {
	StudentID   string
	StudentName string
	Snapshot    models.StudentMetricsSnapshot
	Prediction  models.Prediction
	LedgerTotal int
}

type ClassInsightSubject struct {
	ClassID   string
	Aggregate models.ClassAggregate
}

type TeacherInsightSubject struct {
	TeacherID string
	Aggregate models.TeacherAggregate
}

func (StudentInsightSubject) insightSubject() {}
func (ClassInsightSubject) insightSubject()   {}
func (TeacherInsightSubject) insightSubject() {}

// BuildInsight reshapes already computed analytics into the envelope consumed
// by the narrative generator.
func (e *Engine) BuildInsight(subject InsightSubject) (dto.InsightEnvelope, error) {
	switch s := subject.(type) {
	case StudentInsightSubject:
		return e.studentInsight(s), nil
	case *StudentInsightSubject:
		if s == nil {
			return dto.InsightEnvelope{}, ErrNilInsightSubject
		}
		return e.studentInsight(*s), nil
	case ClassInsightSubject:
		return classInsight(s), nil
	case *ClassInsightSubject:
		if s == nil {
			return dto.InsightEnvelope{}, ErrNilInsightSubject
		}
		return classInsight(*s), nil
	case TeacherInsightSubject:
		return teacherInsight(s), nil
	case *TeacherInsightSubject:
		if s == nil {
			return dto.InsightEnvelope{}, ErrNilInsightSubject
		}
		return teacherInsight(*s), nil
	case nil:
		return dto.InsightEnvelope{}, ErrNilInsightSubject
	default:
		return dto.InsightEnvelope{}, fmt.Errorf("unsupported insight subject %T", subject)
	}
}

func (e *Engine) studentInsight(s StudentInsightSubject) dto.InsightEnvelope {
	payload := dto.StudentInsightPayload{
		StudentName:      s.StudentName,
		AvgGrade:         round1(s.Snapshot.Mean),
		Trend:            s.Prediction.Trend,
		TotalXP:          s.LedgerTotal,
		TotalSubmissions: s.Snapshot.SampleCount,
		Prediction:       s.Prediction.Prediction,
		Note:             ledgerWeightNote,
	}
	if s.Snapshot.SampleCount > 0 {
		payload.Consistency = e.consistency(s.Snapshot.StdDev)
	}
	return dto.InsightEnvelope{
		Kind:              dto.InsightStudent,
		EntityID:          s.StudentID,
		SystemInstruction: SystemInstruction,
		Payload:           payload,
		ResponseFields:    []string{"strengths", "weaknesses", "recommendations", "motivationalMessage"},
	}
}

func classInsight(s ClassInsightSubject) dto.InsightEnvelope {
	agg := s.Aggregate
	return dto.InsightEnvelope{
		Kind:              dto.InsightClass,
		EntityID:          s.ClassID,
		SystemInstruction: SystemInstruction,
		Payload: dto.ClassInsightPayload{
			AvgGrade:                 agg.Mean,
			StdDev:                   agg.StdDev,
			Trend:                    agg.Trend,
			TotalXP:                  agg.LedgerTotal,
			TotalStudents:            agg.TotalStudents,
			Engagement:               agg.Engagement,
			TopXPSources:             topSources(agg.LedgerSources, topSourceCount),
			GradeBuckets:             agg.Histogram,
			AvgDaysBetweenSubmission: agg.AvgDaysBetweenSubmission,
			SubmissionsPerStudent:    agg.SubmissionsPerStudent,
			Note:                     ledgerWeightNote,
		},
		ResponseFields: []string{"strengths", "concerns", "recommendations", "teachingTips"},
	}
}

func teacherInsight(s TeacherInsightSubject) dto.InsightEnvelope {
	agg := s.Aggregate
	trendCounts := make(map[models.Trend]int)
	merged := make(map[string]int)
	var top, bottom *dto.ClassHighlight
	for i := range agg.Classes {
		c := agg.Classes[i]
		trend := c.Trend
		if trend == "" {
			trend = models.TrendStable
		}
		trendCounts[trend]++
		for source, amount := range c.LedgerSources {
			merged[source] += amount
		}
		if top == nil || c.Mean > top.AvgGrade {
			top = highlight(c)
		}
		if bottom == nil || c.Mean < bottom.AvgGrade {
			bottom = highlight(c)
		}
	}

	return dto.InsightEnvelope{
		Kind:              dto.InsightTeacher,
		EntityID:          s.TeacherID,
		SystemInstruction: SystemInstruction,
		Payload: dto.TeacherInsightPayload{
			TotalClasses:  agg.TotalClasses,
			TotalStudents: agg.TotalStudents,
			AvgGrade:      agg.Mean,
			TotalXP:       agg.LedgerTotal,
			ActivityRate:  agg.ActivityRate,
			TrendCounts:   trendCounts,
			TopClass:      top,
			BottomClass:   bottom,
			TopXPSources:  topSources(merged, topSourceCount),
			Note:          ledgerWeightNote,
		},
		ResponseFields: []string{"strengths", "improvements", "recommendations", "recognition"},
	}
}

func highlight(c models.ClassAggregate) *dto.ClassHighlight {
	return &dto.ClassHighlight{
		ClassID:    c.ClassID,
		ClassName:  c.ClassName,
		AvgGrade:   c.Mean,
		Engagement: c.Engagement,
	}
}

// topSources orders by amount descending, then by source name.
func topSources(sources map[string]int, n int) []dto.SourceTotal {
	out := make([]dto.SourceTotal, 0, len(sources))
	for source, amount := range sources {
		out = append(out, dto.SourceTotal{Source: source, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Source < out[j].Source
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
