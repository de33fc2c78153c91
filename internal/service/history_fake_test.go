package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/edu-signal-api/internal/analytics"
	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

func floatPtr(v float64) *float64 {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// submissions builds one graded submission per grade, a day apart, ending a day before testNow.
func submissions(studentID, classID string, grades ...float64) []models.SubmissionRecord {
	out := make([]models.SubmissionRecord, len(grades))
	start := testNow.AddDate(0, 0, -len(grades))
	for i, g := range grades {
		out[i] = models.SubmissionRecord{
			ID:            studentID + "-" + classID + "-" + string(rune('a'+i)),
			StudentID:     studentID,
			ClassID:       classID,
			ActivityID:    "act-" + string(rune('a'+i)),
			ActivityTitle: "Activity " + string(rune('A'+i)),
			Grade:         floatPtr(g),
			SubmittedAt:   start.AddDate(0, 0, i),
		}
	}
	return out
}

func newTestEngine() *analytics.Engine {
	return analytics.NewEngine(analytics.DefaultThresholds(), analytics.EnglishLexicon())
}

type fakeHistory struct {
	mu sync.Mutex

	members        map[string][]models.ClassMember
	membersErr     error
	studentSubs    map[string][]models.SubmissionRecord
	studentErrs    map[string]error
	classSubs      map[string][]models.SubmissionRecord
	classSubsErr   map[string]error
	ledger         []models.LedgerEntry
	ledgerErr      error
	teacherClasses map[string][]models.ClassInfo
	activities     map[string]int
	schoolClasses  map[string][]models.SchoolClass
	schoolTeachers map[string][]models.TeacherInfo
	feedback       map[string][]models.FeedbackRecord
	feedbackErr    error
	profiles       map[string]models.StudentProfile
	profileErr     error

	calls map[string]int
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		members:        map[string][]models.ClassMember{},
		studentSubs:    map[string][]models.SubmissionRecord{},
		studentErrs:    map[string]error{},
		classSubs:      map[string][]models.SubmissionRecord{},
		classSubsErr:   map[string]error{},
		teacherClasses: map[string][]models.ClassInfo{},
		activities:     map[string]int{},
		schoolClasses:  map[string][]models.SchoolClass{},
		schoolTeachers: map[string][]models.TeacherInfo{},
		feedback:       map[string][]models.FeedbackRecord{},
		profiles:       map[string]models.StudentProfile{},
		calls:          map[string]int{},
	}
}

func studentKey(studentID, classID string) string {
	return studentID + "|" + classID
}

func (f *fakeHistory) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeHistory) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeHistory) ClassMembers(_ context.Context, classID string) ([]models.ClassMember, error) {
	f.record("ClassMembers")
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members[classID], nil
}

func (f *fakeHistory) StudentSubmissions(_ context.Context, studentID, classID string) ([]models.SubmissionRecord, error) {
	f.record("StudentSubmissions")
	if err := f.studentErrs[studentID]; err != nil {
		return nil, err
	}
	return f.studentSubs[studentKey(studentID, classID)], nil
}

func (f *fakeHistory) ClassSubmissions(_ context.Context, classID string) ([]models.SubmissionRecord, error) {
	f.record("ClassSubmissions")
	if err := f.classSubsErr[classID]; err != nil {
		return nil, err
	}
	return f.classSubs[classID], nil
}

func (f *fakeHistory) Ledger(_ context.Context, studentIDs []string) ([]models.LedgerEntry, error) {
	f.record("Ledger")
	if f.ledgerErr != nil {
		return nil, f.ledgerErr
	}
	wanted := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = struct{}{}
	}
	out := make([]models.LedgerEntry, 0)
	for _, entry := range f.ledger {
		if _, ok := wanted[entry.StudentID]; ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeHistory) StudentProfile(_ context.Context, studentID string) (*models.StudentProfile, error) {
	f.record("StudentProfile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if profile, ok := f.profiles[studentID]; ok {
		return &profile, nil
	}
	return &models.StudentProfile{ID: studentID}, nil
}

func (f *fakeHistory) TeacherClasses(_ context.Context, teacherID string) ([]models.ClassInfo, error) {
	f.record("TeacherClasses")
	return f.teacherClasses[teacherID], nil
}

func (f *fakeHistory) CountClassActivities(_ context.Context, classID string) (int, error) {
	f.record("CountClassActivities")
	return f.activities[classID], nil
}

func (f *fakeHistory) SchoolClasses(_ context.Context, schoolID string) ([]models.SchoolClass, error) {
	f.record("SchoolClasses")
	return f.schoolClasses[schoolID], nil
}

func (f *fakeHistory) SchoolTeachers(_ context.Context, schoolID string) ([]models.TeacherInfo, error) {
	f.record("SchoolTeachers")
	return f.schoolTeachers[schoolID], nil
}

func (f *fakeHistory) ClassFeedback(_ context.Context, classID string) ([]models.FeedbackRecord, error) {
	f.record("ClassFeedback")
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return f.feedback[classID], nil
}

type stubCacheRepo struct {
	mu    sync.Mutex
	store map[string][]byte
	err   error
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.store, key)
	}
	return nil
}

func (s *stubCacheRepo) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.store[key]
	return ok
}
