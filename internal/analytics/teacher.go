package analytics

import "github.com/noah-isme/edu-signal-api/internal/models"

// ClassRollup is one class of a teacher with its aggregate (nil when the class
// has no graded work) and the number of activities it holds.
type ClassRollup struct {
	Class      models.ClassInfo
	Aggregate  *models.ClassAggregate
	Activities int
}

// AggregateTeacher combines class aggregates. Classes without data still count
// towards TotalClasses and TotalActivities. Returns nil when the teacher owns no classes.
func (e *Engine) AggregateTeacher(teacherID string, classes []ClassRollup) *models.TeacherAggregate {
	if len(classes) == 0 {
		return nil
	}

	out := &models.TeacherAggregate{
		TeacherID:    teacherID,
		TotalClasses: len(classes),
		Classes:      make([]models.ClassAggregate, 0, len(classes)),
	}
	means := make([]float64, 0, len(classes))
	for _, c := range classes {
		out.TotalActivities += c.Activities
		if c.Aggregate == nil {
			continue
		}
		agg := *c.Aggregate
		agg.ClassID = c.Class.ID
		agg.ClassName = c.Class.Name
		out.Classes = append(out.Classes, agg)
		out.TotalStudents += agg.TotalStudents
		out.TotalSubmissions += agg.TotalSubmissions
		out.LedgerTotal += agg.LedgerTotal
		means = append(means, agg.Mean)
	}

	out.Mean = round1(mean(means))
	if out.TotalStudents > 0 {
		out.EngagementScore = float64(out.LedgerTotal) / float64(out.TotalStudents)
	}
	out.ActivityRate = float64(out.TotalActivities) / float64(out.TotalClasses)
	return out
}
