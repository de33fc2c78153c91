package service

import (
	"context"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// HistoryProvider is the read side of the platform the signal services depend on.
type HistoryProvider interface {
	ClassMembers(ctx context.Context, classID string) ([]models.ClassMember, error)
	StudentSubmissions(ctx context.Context, studentID, classID string) ([]models.SubmissionRecord, error)
	ClassSubmissions(ctx context.Context, classID string) ([]models.SubmissionRecord, error)
	Ledger(ctx context.Context, studentIDs []string) ([]models.LedgerEntry, error)
	StudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	TeacherClasses(ctx context.Context, teacherID string) ([]models.ClassInfo, error)
	CountClassActivities(ctx context.Context, classID string) (int, error)
	SchoolClasses(ctx context.Context, schoolID string) ([]models.SchoolClass, error)
	SchoolTeachers(ctx context.Context, schoolID string) ([]models.TeacherInfo, error)
	ClassFeedback(ctx context.Context, classID string) ([]models.FeedbackRecord, error)
}
