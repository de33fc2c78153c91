package models

import "time"

// SubmissionRecord is a single student submission read from the history provider.
type SubmissionRecord struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ClassID       string    `db:"class_id" json:"class_id"`
	ActivityID    string    `db:"activity_id" json:"activity_id"`
	ActivityTitle string    `db:"activity_title" json:"activity_title"`
	ActivityType  string    `db:"activity_type" json:"activity_type"`
	Grade         *float64  `db:"grade" json:"grade"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
	Feedback      *string   `db:"feedback" json:"feedback,omitempty"`
}

// Graded reports whether the submission carries a grade.
func (r SubmissionRecord) Graded() bool {
	return r.Grade != nil
}

// LedgerEntry is a reward-point (XP) credit for a student.
type LedgerEntry struct {
	StudentID string    `db:"student_id" json:"student_id"`
	Amount    int       `db:"amount" json:"amount"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassMember is a student enrolled in a class together with the profile fields used in reports.
type ClassMember struct {
	StudentID string     `db:"student_id" json:"student_id"`
	FullName  string     `db:"full_name" json:"full_name"`
	Email     string     `db:"email" json:"email"`
	JoinedAt  *time.Time `db:"joined_at" json:"joined_at,omitempty"`
}

// StudentProfile holds the display data of a student.
type StudentProfile struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}

// ClassInfo identifies a class and its owning teacher.
type ClassInfo struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	TeacherID string `db:"created_by" json:"teacher_id"`
}

// TeacherInfo identifies an active teacher of a school.
type TeacherInfo struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// FeedbackRecord is a free-text comment attached to a submission.
type FeedbackRecord struct {
	SubmissionID  string `db:"submission_id" json:"submission_id"`
	StudentID     string `db:"student_id" json:"student_id"`
	ActivityTitle string `db:"activity_title" json:"activity_title"`
	Text          string `db:"feedback" json:"text"`
}

// SchoolClass is a class linked to a school with the display name of its teacher.
type SchoolClass struct {
	ClassInfo
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}
