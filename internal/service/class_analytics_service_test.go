package service

import (
	"testing"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
)

// 按学生区分返回值的读取器，班级聚合要跨多名学生
type keyedAttendanceReader struct {
	sessionDates int64
	present      int64
	studentDates map[uint]int64
	studentHits  map[uint]int64
}

func (f *keyedAttendanceReader) CountSessionDates(courseID, semesterID uint) (int64, error) {
	return f.sessionDates, nil
}

func (f *keyedAttendanceReader) CountStudentSessionDates(studentID, courseID, semesterID uint) (int64, error) {
	return f.studentDates[studentID], nil
}

func (f *keyedAttendanceReader) CountPresent(courseID, semesterID uint) (int64, error) {
	return f.present, nil
}

func (f *keyedAttendanceReader) CountStudentPresent(studentID, courseID, semesterID uint) (int64, error) {
	return f.studentHits[studentID], nil
}

type keyedSubmissionReader struct {
	graded map[uint][]model.AssessmentSubmission
}

func (f *keyedSubmissionReader) FindGradedSubmissions(studentID, courseID, semesterID uint) ([]model.AssessmentSubmission, error) {
	return f.graded[studentID], nil
}

func (f *keyedSubmissionReader) FindRecentGradedSubmissions(studentID, courseID, semesterID uint, since time.Time) ([]model.AssessmentSubmission, error) {
	return nil, nil
}

type keyedAttemptReader struct {
	scored map[uint][]model.QuizAttempt
}

func (f *keyedAttemptReader) FindScoredAttempts(studentID, courseID, semesterID uint) ([]model.QuizAttempt, error) {
	return f.scored[studentID], nil
}

func (f *keyedAttemptReader) FindRecentScoredAttempts(studentID, courseID, semesterID uint, since time.Time) ([]model.QuizAttempt, error) {
	return nil, nil
}

// 三名在读学生：1和3能打分，2在用户表里不存在，打分失败后跳过。
// 均值只对成功的两人计算
func TestAnalyzeClassSkipsFailingStudent(t *testing.T) {
	enrollment := &fakeEnrollmentReader{enrollments: []model.Enrollment{
		{StudentID: 1, Student: &model.User{Name: "Alice Moyo"}},
		{StudentID: 2, Student: &model.User{Name: "Brian Dube"}},
		{StudentID: 3, Student: &model.User{Name: "Tariro Ncube"}},
	}}

	attendance := NewAttendanceService(
		&keyedAttendanceReader{
			studentDates: map[uint]int64{1: 10, 2: 10, 3: 10},
			studentHits:  map[uint]int64{1: 10, 2: 10, 3: 5},
		},
		&fakeVirtualReader{},
		enrollment,
	)
	grades := NewGradeService(
		&keyedSubmissionReader{graded: map[uint][]model.AssessmentSubmission{
			1: {submission(1, "Essay", 100, 80)},
			3: {submission(1, "Essay", 100, 40)},
		}},
		&keyedAttemptReader{scored: map[uint][]model.QuizAttempt{
			1: {attempt(1, "Quiz 1", 100, 60)},
			3: {attempt(1, "Quiz 1", 100, 30)},
		}},
	)

	courses := &fakeCourseReader{courses: map[uint]*model.Course{2: {Title: "Data Structures"}}}
	performance := NewPerformanceService(
		attendance,
		grades,
		NewNarrativeService(nil),
		newFakePerformanceStore(),
		&fakeUserReader{users: map[uint]*model.User{
			1: {Name: "Alice Moyo"},
			3: {Name: "Tariro Ncube"},
		}},
		courses,
		&fakeSemesterReader{semesters: map[uint]*model.Semester{3: {Name: "Semester 1"}}},
		testAnalyticsConfig(),
	)

	svc := NewClassAnalyticsService(performance, NewNarrativeService(nil), enrollment, courses, nil, 10*time.Minute)

	analysis, err := svc.AnalyzeClass(2, 3)
	if err != nil {
		t.Fatalf("AnalyzeClass returned error: %v", err)
	}

	if analysis.TotalStudents != 2 {
		t.Fatalf("TotalStudents = %d, want 2", analysis.TotalStudents)
	}
	if len(analysis.StudentAnalyses) != 2 {
		t.Fatalf("len(StudentAnalyses) = %d, want 2", len(analysis.StudentAnalyses))
	}

	// 学生1：出勤100 作业80 测验60 → 80；学生3：出勤50 作业40 测验30 → 40
	if !almostEqual(analysis.AttendanceAverage, 75) {
		t.Errorf("AttendanceAverage = %v, want 75", analysis.AttendanceAverage)
	}
	if !almostEqual(analysis.AssignmentAverage, 60) {
		t.Errorf("AssignmentAverage = %v, want 60", analysis.AssignmentAverage)
	}
	if !almostEqual(analysis.QuizAverage, 45) {
		t.Errorf("QuizAverage = %v, want 45", analysis.QuizAverage)
	}
	if !almostEqual(analysis.OverallAverage, 60) {
		t.Errorf("OverallAverage = %v, want 60", analysis.OverallAverage)
	}

	// 五个档位必须全部出现，即使计数为零
	if len(analysis.CategoryCounts) != 5 {
		t.Errorf("CategoryCounts has %d keys, want 5: %v", len(analysis.CategoryCounts), analysis.CategoryCounts)
	}
	if analysis.CategoryCounts[model.CategoryGood] != 1 {
		t.Errorf("good count = %d, want 1", analysis.CategoryCounts[model.CategoryGood])
	}
	if analysis.CategoryCounts[model.CategoryPoor] != 1 {
		t.Errorf("poor count = %d, want 1", analysis.CategoryCounts[model.CategoryPoor])
	}

	if len(analysis.ClassRecommendations) == 0 {
		t.Error("ClassRecommendations is empty")
	}

	for _, sa := range analysis.StudentAnalyses {
		if sa.StudentID == 2 {
			t.Error("failing student 2 should have been skipped")
		}
		if sa.StudentName == "" {
			t.Errorf("student %d has empty name", sa.StudentID)
		}
	}
}

func TestAnalyzeClassUnknownCourse(t *testing.T) {
	enrollment := &fakeEnrollmentReader{}
	performance, _ := newScorerFixture()
	courses := &fakeCourseReader{courses: map[uint]*model.Course{}}

	svc := NewClassAnalyticsService(performance, NewNarrativeService(nil), enrollment, courses, nil, time.Minute)

	if _, err := svc.AnalyzeClass(99, 3); err == nil {
		t.Fatal("expected error for unknown course")
	}
}

func TestAnalyzeClassEmptyRoster(t *testing.T) {
	enrollment := &fakeEnrollmentReader{}
	performance, _ := newScorerFixture()
	courses := &fakeCourseReader{courses: map[uint]*model.Course{2: {Title: "Data Structures"}}}

	svc := NewClassAnalyticsService(performance, NewNarrativeService(nil), enrollment, courses, nil, time.Minute)

	analysis, err := svc.AnalyzeClass(2, 3)
	if err != nil {
		t.Fatalf("AnalyzeClass returned error: %v", err)
	}
	if analysis.TotalStudents != 0 {
		t.Errorf("TotalStudents = %d, want 0", analysis.TotalStudents)
	}
	if analysis.OverallAverage != 0 {
		t.Errorf("OverallAverage = %v, want 0", analysis.OverallAverage)
	}
	if len(analysis.ClassRecommendations) == 0 {
		t.Error("empty roster should still produce a recommendation")
	}
}
