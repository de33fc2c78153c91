package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// FetchObserver receives the duration of every history query.
type FetchObserver interface {
	ObserveHistoryFetch(query string, duration time.Duration)
}

// HistoryRepository reads submission, ledger and roster history from the platform database.
// It never writes.
type HistoryRepository struct {
	db       *sqlx.DB
	observer FetchObserver
}

// NewHistoryRepository instantiates the repository. observer may be nil.
func NewHistoryRepository(db *sqlx.DB, observer FetchObserver) *HistoryRepository {
	return &HistoryRepository{db: db, observer: observer}
}

const submissionColumns = `s.id, s.student_id, a.class_id, s.activity_id, COALESCE(a.title, '') AS activity_title,
        COALESCE(a.activity_type, '') AS activity_type, s.grade, s.submitted_at, s.feedback
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id`

func (r *HistoryRepository) observe(query string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveHistoryFetch(query, time.Since(start))
	}
}

// ClassMembers lists the students enrolled in a class ordered by name. Teachers
// and assistants sharing the roster table are excluded.
func (r *HistoryRepository) ClassMembers(ctx context.Context, classID string) ([]models.ClassMember, error) {
	defer r.observe("class_members", time.Now())
	const query = `SELECT cm.student_id, COALESCE(p.full_name, '') AS full_name, COALESCE(p.email, '') AS email, cm.joined_at
        FROM class_members cm
        JOIN profiles p ON p.id = cm.student_id
        WHERE cm.class_id = $1 AND cm.role = 'student'
        ORDER BY full_name, cm.student_id`
	var members []models.ClassMember
	if err := r.db.SelectContext(ctx, &members, query, classID); err != nil {
		return nil, fmt.Errorf("query class members: %w", err)
	}
	return members, nil
}

// StudentSubmissions returns every submitted piece of work of a student,
// restricted to one class when classID is set.
func (r *HistoryRepository) StudentSubmissions(ctx context.Context, studentID, classID string) ([]models.SubmissionRecord, error) {
	defer r.observe("student_submissions", time.Now())
	query := "SELECT " + submissionColumns + " WHERE s.student_id = $1 AND s.submitted_at IS NOT NULL"
	args := []interface{}{studentID}
	if classID != "" {
		args = append(args, classID)
		query += fmt.Sprintf(" AND a.class_id = $%d", len(args))
	}
	query += " ORDER BY s.submitted_at"

	var records []models.SubmissionRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("query student submissions: %w", err)
	}
	return records, nil
}

// ClassSubmissions returns the graded submissions of a class.
func (r *HistoryRepository) ClassSubmissions(ctx context.Context, classID string) ([]models.SubmissionRecord, error) {
	defer r.observe("class_submissions", time.Now())
	query := "SELECT " + submissionColumns + " WHERE a.class_id = $1 AND s.grade IS NOT NULL AND s.submitted_at IS NOT NULL ORDER BY s.submitted_at"
	var records []models.SubmissionRecord
	if err := r.db.SelectContext(ctx, &records, query, classID); err != nil {
		return nil, fmt.Errorf("query class submissions: %w", err)
	}
	return records, nil
}

// Ledger returns the XP credits of the given students.
func (r *HistoryRepository) Ledger(ctx context.Context, studentIDs []string) ([]models.LedgerEntry, error) {
	if len(studentIDs) == 0 {
		return []models.LedgerEntry{}, nil
	}
	defer r.observe("ledger", time.Now())
	const query = `SELECT student_id, amount, COALESCE(source, '') AS source, created_at FROM xp_log WHERE student_id = ANY($1) ORDER BY created_at`
	var entries []models.LedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("query xp ledger: %w", err)
	}
	return entries, nil
}

// StudentProfile returns sql.ErrNoRows when the profile does not exist.
func (r *HistoryRepository) StudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	defer r.observe("student_profile", time.Now())
	const query = `SELECT id, COALESCE(full_name, '') AS full_name, COALESCE(email, '') AS email FROM profiles WHERE id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, studentID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// TeacherClasses lists the classes created by a teacher.
func (r *HistoryRepository) TeacherClasses(ctx context.Context, teacherID string) ([]models.ClassInfo, error) {
	defer r.observe("teacher_classes", time.Now())
	const query = `SELECT id, name, created_by FROM classes WHERE created_by = $1 ORDER BY name, id`
	var classes []models.ClassInfo
	if err := r.db.SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, fmt.Errorf("query teacher classes: %w", err)
	}
	return classes, nil
}

// CountClassActivities counts the activities published in a class.
func (r *HistoryRepository) CountClassActivities(ctx context.Context, classID string) (int, error) {
	defer r.observe("class_activity_count", time.Now())
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM activities WHERE class_id = $1`, classID); err != nil {
		return 0, fmt.Errorf("count class activities: %w", err)
	}
	return total, nil
}

// SchoolClasses lists the classes linked to a school together with the owning teacher name.
func (r *HistoryRepository) SchoolClasses(ctx context.Context, schoolID string) ([]models.SchoolClass, error) {
	defer r.observe("school_classes", time.Now())
	const query = `SELECT c.id, c.name, COALESCE(c.created_by::text, '') AS created_by, COALESCE(p.full_name, '') AS teacher_name
        FROM school_classes sc
        JOIN classes c ON c.id = sc.class_id
        LEFT JOIN profiles p ON p.id = c.created_by
        WHERE sc.school_id = $1
        ORDER BY c.name, c.id`
	var classes []models.SchoolClass
	if err := r.db.SelectContext(ctx, &classes, query, schoolID); err != nil {
		return nil, fmt.Errorf("query school classes: %w", err)
	}
	return classes, nil
}

// SchoolTeachers lists the active teachers of a school.
func (r *HistoryRepository) SchoolTeachers(ctx context.Context, schoolID string) ([]models.TeacherInfo, error) {
	defer r.observe("school_teachers", time.Now())
	const query = `SELECT st.user_id AS id, COALESCE(p.full_name, '') AS name
        FROM school_teachers st
        JOIN profiles p ON p.id = st.user_id
        WHERE st.school_id = $1 AND st.status = 'active'
        ORDER BY name, st.user_id`
	var teachers []models.TeacherInfo
	if err := r.db.SelectContext(ctx, &teachers, query, schoolID); err != nil {
		return nil, fmt.Errorf("query school teachers: %w", err)
	}
	return teachers, nil
}

// ClassFeedback returns the non-empty feedback comments left on class submissions.
func (r *HistoryRepository) ClassFeedback(ctx context.Context, classID string) ([]models.FeedbackRecord, error) {
	defer r.observe("class_feedback", time.Now())
	const query = `SELECT s.id AS submission_id, s.student_id, COALESCE(a.title, '') AS activity_title, s.feedback
        FROM submissions s
        JOIN activities a ON a.id = s.activity_id
        WHERE a.class_id = $1 AND s.feedback IS NOT NULL AND s.feedback <> ''
        ORDER BY s.submitted_at, s.id`
	var records []models.FeedbackRecord
	if err := r.db.SelectContext(ctx, &records, query, classID); err != nil {
		return nil, fmt.Errorf("query class feedback: %w", err)
	}
	return records, nil
}
