package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

func TestAggregateTeacher(t *testing.T) {
	engine := newTestEngine()
	classA := engine.AggregateClass(gradedRecords("s1", 80, 90), []models.LedgerEntry{{StudentID: "s1", Amount: 300, Source: "quiz"}}, testNow)
	classB := engine.AggregateClass(append(gradedRecords("s2", 60), gradedRecords("s3", 70, 70, 70)...), nil, testNow)

	agg := engine.AggregateTeacher("t1", []ClassRollup{
		{Class: models.ClassInfo{ID: "a", Name: "Math"}, Aggregate: classA, Activities: 4},
		{Class: models.ClassInfo{ID: "b", Name: "Physics"}, Aggregate: classB, Activities: 2},
		{Class: models.ClassInfo{ID: "c", Name: "Empty"}, Activities: 3},
	})

	require.NotNil(t, agg)
	assert.Equal(t, "t1", agg.TeacherID)
	assert.Equal(t, 3, agg.TotalClasses)
	assert.Equal(t, 9, agg.TotalActivities)
	assert.Equal(t, 3.0, agg.ActivityRate)
	assert.Equal(t, 3, agg.TotalStudents)
	assert.Equal(t, 6, agg.TotalSubmissions)
	assert.Equal(t, 300, agg.LedgerTotal)
	assert.Equal(t, 100.0, agg.EngagementScore)
	// class means 85 and 67.5, not weighted by submissions
	assert.Equal(t, 76.3, agg.Mean)
	require.Len(t, agg.Classes, 2)
	assert.Equal(t, "Math", agg.Classes[0].ClassName)
	assert.Equal(t, "b", agg.Classes[1].ClassID)
}

func TestAggregateTeacherWithoutDataOrClasses(t *testing.T) {
	engine := newTestEngine()

	assert.Nil(t, engine.AggregateTeacher("t1", nil))

	agg := engine.AggregateTeacher("t1", []ClassRollup{{Class: models.ClassInfo{ID: "a"}, Activities: 5}})
	require.NotNil(t, agg)
	assert.Zero(t, agg.Mean)
	assert.Zero(t, agg.EngagementScore)
	assert.Equal(t, 5.0, agg.ActivityRate)
	assert.Empty(t, agg.Classes)
}
