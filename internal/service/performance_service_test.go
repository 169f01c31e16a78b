package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/config"
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"gorm.io/gorm"
)

type fakePerformanceStore struct {
	records map[string]*model.PerformanceRecord
	seq     int
}

func newFakePerformanceStore() *fakePerformanceStore {
	return &fakePerformanceStore{records: map[string]*model.PerformanceRecord{}}
}

func (f *fakePerformanceStore) FindByKey(studentID, courseID, semesterID uint) (*model.PerformanceRecord, error) {
	for _, r := range f.records {
		if r.StudentID == studentID && r.CourseID == courseID && r.SemesterID == semesterID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePerformanceStore) FindByID(id string) (*model.PerformanceRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakePerformanceStore) List(filters repository.PerformanceFilters, page, limit int) ([]model.PerformanceRecord, int64, error) {
	var out []model.PerformanceRecord
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakePerformanceStore) Create(record *model.PerformanceRecord) error {
	f.seq++
	record.ID = fmt.Sprintf("perf-%d", f.seq)
	cp := *record
	f.records[record.ID] = &cp
	return nil
}

func (f *fakePerformanceStore) Update(record *model.PerformanceRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *record
	f.records[record.ID] = &cp
	return nil
}

func (f *fakePerformanceStore) Delete(id string) error {
	delete(f.records, id)
	return nil
}

type fakeUserReader struct {
	users map[uint]*model.User
}

func (f *fakeUserReader) FindByID(id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeCourseReader struct {
	courses map[uint]*model.Course
}

func (f *fakeCourseReader) FindByID(id uint) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

type fakeSemesterReader struct {
	semesters map[uint]*model.Semester
}

func (f *fakeSemesterReader) FindByID(id uint) (*model.Semester, error) {
	semester, ok := f.semesters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return semester, nil
}

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		AttendanceWeight:     0.30,
		AssignmentWeight:     0.40,
		QuizWeight:           0.30,
		AttendanceThreshold:  70,
		PerformanceThreshold: 60,
		TopicThreshold:       50,
		RecentWindowDays:     30,
	}
}

// 学生1、课程2、学期3：出勤50%，作业均分40%，测验均分30%
func newScorerFixture() (*PerformanceService, *fakePerformanceStore) {
	attendance := NewAttendanceService(
		&fakeAttendanceReader{studentSessionDates: 10, studentPresent: 5},
		&fakeVirtualReader{},
		&fakeEnrollmentReader{},
	)
	grades := NewGradeService(
		&fakeSubmissionReader{graded: []model.AssessmentSubmission{
			submission(1, "Essay", 100, 40),
		}},
		&fakeAttemptReader{scored: []model.QuizAttempt{
			attempt(1, "Quiz 1", 100, 30),
		}},
	)

	store := newFakePerformanceStore()
	svc := NewPerformanceService(
		attendance,
		grades,
		NewNarrativeService(nil),
		store,
		&fakeUserReader{users: map[uint]*model.User{1: {Name: "Alice Moyo"}}},
		&fakeCourseReader{courses: map[uint]*model.Course{2: {Title: "Data Structures"}}},
		&fakeSemesterReader{semesters: map[uint]*model.Semester{3: {Name: "Semester 1"}}},
		testAnalyticsConfig(),
	)
	return svc, store
}

func TestScoreStudentWeightedOverall(t *testing.T) {
	svc, _ := newScorerFixture()

	record, err := svc.ScoreStudent(1, 2, 3)
	if err != nil {
		t.Fatalf("ScoreStudent returned error: %v", err)
	}

	if !almostEqual(record.AttendancePercentage, 50) {
		t.Errorf("AttendancePercentage = %v, want 50", record.AttendancePercentage)
	}
	if !almostEqual(record.AssignmentAverage, 40) {
		t.Errorf("AssignmentAverage = %v, want 40", record.AssignmentAverage)
	}
	if !almostEqual(record.QuizAverage, 30) {
		t.Errorf("QuizAverage = %v, want 30", record.QuizAverage)
	}

	want := 0.30*50 + 0.40*40 + 0.30*30
	if !almostEqual(record.OverallPerformance, want) {
		t.Errorf("OverallPerformance = %v, want %v", record.OverallPerformance, want)
	}
	if record.PerformanceCategory != model.CategoryPoor {
		t.Errorf("PerformanceCategory = %v, want %v", record.PerformanceCategory, model.CategoryPoor)
	}
	if record.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}

	// 叙述字段由规则降级实现填充，全弱的学生三个弱点都要在
	var weaknesses []string
	if err := json.Unmarshal(record.Weaknesses, &weaknesses); err != nil {
		t.Fatalf("unmarshal weaknesses: %v", err)
	}
	if len(weaknesses) != 3 {
		t.Errorf("weaknesses = %v, want 3 entries", weaknesses)
	}
}

func TestScoreStudentUpsert(t *testing.T) {
	svc, store := newScorerFixture()

	first, err := svc.ScoreStudent(1, 2, 3)
	if err != nil {
		t.Fatalf("first ScoreStudent returned error: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	second, err := svc.ScoreStudent(1, 2, 3)
	if err != nil {
		t.Fatalf("second ScoreStudent returned error: %v", err)
	}

	// 同键重算必须原地更新，不能出现第二行
	if len(store.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(store.records))
	}
	if second.ID != first.ID {
		t.Errorf("second ID = %s, want %s", second.ID, first.ID)
	}
	if !second.LastUpdated.After(first.LastUpdated) {
		t.Errorf("LastUpdated did not advance: %v -> %v", first.LastUpdated, second.LastUpdated)
	}
}

func TestScoreStudentUnknownEntities(t *testing.T) {
	svc, _ := newScorerFixture()

	if _, err := svc.ScoreStudent(99, 2, 3); !errors.Is(err, util.ErrStudentNotFound) {
		t.Errorf("unknown student error = %v, want ErrStudentNotFound", err)
	}
	if _, err := svc.ScoreStudent(1, 99, 3); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("unknown course error = %v, want ErrCourseNotFound", err)
	}
	if _, err := svc.ScoreStudent(1, 2, 99); !errors.Is(err, util.ErrSemesterNotFound) {
		t.Errorf("unknown semester error = %v, want ErrSemesterNotFound", err)
	}
}

func TestGetByStudentNotFound(t *testing.T) {
	svc, _ := newScorerFixture()

	_, err := svc.GetByStudent(1, 2, 3)
	if !errors.Is(err, util.ErrPerformanceNotFound) {
		t.Errorf("error = %v, want ErrPerformanceNotFound", err)
	}
}

func TestUpdateRecordNarrativeOnly(t *testing.T) {
	svc, _ := newScorerFixture()

	record, err := svc.ScoreStudent(1, 2, 3)
	if err != nil {
		t.Fatalf("ScoreStudent returned error: %v", err)
	}
	originalWeaknesses := string(record.Weaknesses)

	updated, err := svc.UpdateRecord(record.ID, UpdateNarrativeRequest{
		Strengths: []string{"Shows initiative in practical sessions"},
	})
	if err != nil {
		t.Fatalf("UpdateRecord returned error: %v", err)
	}

	var strengths []string
	if err := json.Unmarshal(updated.Strengths, &strengths); err != nil {
		t.Fatalf("unmarshal strengths: %v", err)
	}
	if len(strengths) != 1 || strengths[0] != "Shows initiative in practical sessions" {
		t.Errorf("strengths = %v", strengths)
	}

	// 未提交的字段保持原样
	if string(updated.Weaknesses) != originalWeaknesses {
		t.Errorf("weaknesses changed: %s -> %s", originalWeaknesses, updated.Weaknesses)
	}

	if _, err := svc.UpdateRecord("missing-id", UpdateNarrativeRequest{}); !errors.Is(err, util.ErrPerformanceNotFound) {
		t.Errorf("missing id error = %v, want ErrPerformanceNotFound", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	svc, store := newScorerFixture()

	record, err := svc.ScoreStudent(1, 2, 3)
	if err != nil {
		t.Fatalf("ScoreStudent returned error: %v", err)
	}

	if err := svc.DeleteRecord(record.ID); err != nil {
		t.Fatalf("DeleteRecord returned error: %v", err)
	}
	if len(store.records) != 0 {
		t.Errorf("store has %d records after delete, want 0", len(store.records))
	}
	if err := svc.DeleteRecord(record.ID); !errors.Is(err, util.ErrPerformanceNotFound) {
		t.Errorf("second delete error = %v, want ErrPerformanceNotFound", err)
	}
}
