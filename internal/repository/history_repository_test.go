package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu      sync.Mutex
	queries []string
}

func (o *recordingObserver) ObserveHistoryFetch(query string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries = append(o.queries, query)
}

func newHistoryRepoMock(t *testing.T) (*HistoryRepository, sqlmock.Sqlmock, *recordingObserver, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	observer := &recordingObserver{}
	return NewHistoryRepository(sqlx.NewDb(db, "sqlmock"), observer), mock, observer, func() { db.Close() }
}

func TestHistoryRepositoryClassMembers(t *testing.T) {
	repo, mock, observer, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	joined := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"student_id", "full_name", "email", "joined_at"}).
		AddRow("s1", "Ana", "ana@example.com", joined).
		AddRow("s2", "Bruno", "bruno@example.com", nil)
	mock.ExpectQuery(`(?s)FROM class_members cm.*WHERE cm\.class_id = \$1 AND cm\.role = 'student'`).WithArgs("class-1").WillReturnRows(rows)

	members, err := repo.ClassMembers(context.Background(), "class-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.NotNil(t, members[0].JoinedAt)
	assert.Equal(t, joined, *members[0].JoinedAt)
	assert.Nil(t, members[1].JoinedAt)
	assert.Equal(t, []string{"class_members"}, observer.queries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryStudentSubmissionsScopedToClass(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	submitted := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "class_id", "activity_id", "activity_title", "activity_type", "grade", "submitted_at", "feedback"}).
		AddRow("sub-1", "s1", "class-1", "act-1", "Quiz 1", "quiz", 72.5, submitted, "bom").
		AddRow("sub-2", "s1", "class-1", "act-2", "Essay", "assignment", nil, submitted.Add(time.Hour), nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.student_id = $1 AND s.submitted_at IS NOT NULL AND a.class_id = $2 ORDER BY s.submitted_at")).
		WithArgs("s1", "class-1").
		WillReturnRows(rows)

	records, err := repo.StudentSubmissions(context.Background(), "s1", "class-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Grade)
	assert.Equal(t, 72.5, *records[0].Grade)
	assert.Equal(t, "quiz", records[0].ActivityType)
	require.NotNil(t, records[0].Feedback)
	assert.False(t, records[1].Graded())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryStudentSubmissionsAllClasses(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.student_id = $1 AND s.submitted_at IS NOT NULL ORDER BY s.submitted_at")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := repo.StudentSubmissions(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryClassSubmissionsError(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("s.grade IS NOT NULL").WithArgs("class-1").WillReturnError(errors.New("connection reset"))

	_, err := repo.ClassSubmissions(context.Background(), "class-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query class submissions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryLedger(t *testing.T) {
	repo, mock, observer, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	entries, err := repo.Ledger(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, observer.queries)

	rows := sqlmock.NewRows([]string{"student_id", "amount", "source", "created_at"}).
		AddRow("s1", 100, "quiz", time.Now()).
		AddRow("s2", 40, "streak", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM xp_log WHERE student_id = ANY($1)")).
		WithArgs(pq.Array([]string{"s1", "s2"})).
		WillReturnRows(rows)

	entries, err = repo.Ledger(context.Background(), []string{"s1", "s2"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 100, entries[0].Amount)
	assert.Equal(t, "streak", entries[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryStudentProfileNotFound(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM profiles WHERE id = \\$1").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.StudentProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryTeacherClassesAndActivities(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_by FROM classes WHERE created_by = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by"}).AddRow("c1", "Math", "t1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM activities WHERE class_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	classes, err := repo.TeacherClasses(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "t1", classes[0].TeacherID)

	count, err := repo.CountClassActivities(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositorySchoolQueries(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM school_classes sc").
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "teacher_name"}).AddRow("c1", "Math", "t1", "Carla"))
	mock.ExpectQuery("FROM school_teachers st").
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("t1", "Carla"))

	classes, err := repo.SchoolClasses(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Carla", classes[0].TeacherName)
	assert.Equal(t, "Math", classes[0].Name)

	teachers, err := repo.SchoolTeachers(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "t1", teachers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryClassFeedback(t *testing.T) {
	repo, mock, _, cleanup := newHistoryRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("s.feedback IS NOT NULL").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"submission_id", "student_id", "activity_title", "feedback"}).
			AddRow("sub-1", "s1", "Quiz 1", "Adorei"))

	records, err := repo.ClassFeedback(context.Background(), "class-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Adorei", records[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}
