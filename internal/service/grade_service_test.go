package service

import (
	"testing"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
)

type fakeSubmissionReader struct {
	graded []model.AssessmentSubmission
	recent []model.AssessmentSubmission
}

func (f *fakeSubmissionReader) FindGradedSubmissions(studentID, courseID, semesterID uint) ([]model.AssessmentSubmission, error) {
	return f.graded, nil
}

func (f *fakeSubmissionReader) FindRecentGradedSubmissions(studentID, courseID, semesterID uint, since time.Time) ([]model.AssessmentSubmission, error) {
	return f.recent, nil
}

type fakeAttemptReader struct {
	scored []model.QuizAttempt
	recent []model.QuizAttempt
}

func (f *fakeAttemptReader) FindScoredAttempts(studentID, courseID, semesterID uint) ([]model.QuizAttempt, error) {
	return f.scored, nil
}

func (f *fakeAttemptReader) FindRecentScoredAttempts(studentID, courseID, semesterID uint, since time.Time) ([]model.QuizAttempt, error) {
	return f.recent, nil
}

func marks(v float64) *float64 { return &v }

func submission(assessmentID uint, title string, total, earned float64) model.AssessmentSubmission {
	return model.AssessmentSubmission{
		AssessmentID: assessmentID,
		Marks:        marks(earned),
		IsGraded:     true,
		Assessment:   &model.Assessment{Title: title, TotalMarks: total},
	}
}

func attempt(quizID uint, title string, total, score float64) model.QuizAttempt {
	return model.QuizAttempt{
		QuizID: quizID,
		Score:  marks(score),
		Status: model.AttemptCompleted,
		Quiz:   &model.Quiz{Title: title, TotalMarks: total},
	}
}

func TestAssignmentPerformance(t *testing.T) {
	tests := []struct {
		name        string
		submissions []model.AssessmentSubmission
		wantCount   int
		wantAverage float64
	}{
		{
			name:        "no graded submissions",
			wantCount:   0,
			wantAverage: 0,
		},
		{
			// 满分不一致的作业按总分加权，不是各项百分比的均值
			name: "heterogeneous total marks",
			submissions: []model.AssessmentSubmission{
				submission(1, "Essay", 100, 80),
				submission(2, "Lab report", 20, 10),
			},
			wantCount:   2,
			wantAverage: 90.0 / 120.0 * 100,
		},
		{
			name: "ungraded rows are skipped",
			submissions: []model.AssessmentSubmission{
				submission(1, "Essay", 100, 50),
				{AssessmentID: 2, Assessment: &model.Assessment{Title: "Pending", TotalMarks: 50}},
			},
			wantCount:   1,
			wantAverage: 50,
		},
		{
			name: "missing assessment preload is skipped",
			submissions: []model.AssessmentSubmission{
				{AssessmentID: 3, Marks: marks(10)},
			},
			wantCount:   0,
			wantAverage: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewGradeService(&fakeSubmissionReader{graded: tt.submissions}, &fakeAttemptReader{})

			perf, err := svc.AssignmentPerformance(1, 2, 3)
			if err != nil {
				t.Fatalf("AssignmentPerformance returned error: %v", err)
			}

			if perf.TotalSubmissions != tt.wantCount {
				t.Errorf("TotalSubmissions = %d, want %d", perf.TotalSubmissions, tt.wantCount)
			}
			if !almostEqual(perf.AverageScore, tt.wantAverage) {
				t.Errorf("AverageScore = %v, want %v", perf.AverageScore, tt.wantAverage)
			}
			if len(perf.Assignments) != tt.wantCount {
				t.Errorf("len(Assignments) = %d, want %d", len(perf.Assignments), tt.wantCount)
			}
		})
	}
}

func TestQuizPerformance(t *testing.T) {
	svc := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{
		scored: []model.QuizAttempt{
			attempt(1, "Quiz 1", 10, 9),
			attempt(2, "Quiz 2", 30, 15),
		},
	})

	perf, err := svc.QuizPerformance(1, 2, 3)
	if err != nil {
		t.Fatalf("QuizPerformance returned error: %v", err)
	}

	if perf.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d, want 2", perf.TotalAttempts)
	}
	want := 24.0 / 40.0 * 100
	if !almostEqual(perf.AverageScore, want) {
		t.Errorf("AverageScore = %v, want %v", perf.AverageScore, want)
	}
	if !almostEqual(perf.Quizzes[0].Percentage, 90) {
		t.Errorf("first quiz Percentage = %v, want 90", perf.Quizzes[0].Percentage)
	}
}

func TestRecentAverages(t *testing.T) {
	since := time.Now().AddDate(0, 0, -30)

	t.Run("no recent items", func(t *testing.T) {
		svc := NewGradeService(&fakeSubmissionReader{}, &fakeAttemptReader{})

		avg, count, err := svc.RecentQuizAverage(1, 2, 3, since)
		if err != nil {
			t.Fatalf("RecentQuizAverage returned error: %v", err)
		}
		if count != 0 || avg != 0 {
			t.Errorf("got (avg=%v, count=%d), want (0, 0)", avg, count)
		}
	})

	t.Run("average of per-item percentages", func(t *testing.T) {
		// 近期口径是各项得分率的简单均值，与学期累计的总分加权不同
		svc := NewGradeService(
			&fakeSubmissionReader{recent: []model.AssessmentSubmission{
				submission(1, "A1", 100, 80), // 80%
				submission(2, "A2", 20, 5),   // 25%
			}},
			&fakeAttemptReader{recent: []model.QuizAttempt{
				attempt(1, "Q1", 10, 4), // 40%
				attempt(2, "Q2", 50, 30), // 60%
			}},
		)

		avg, count, err := svc.RecentAssignmentAverage(1, 2, 3, since)
		if err != nil {
			t.Fatalf("RecentAssignmentAverage returned error: %v", err)
		}
		if count != 2 || !almostEqual(avg, 52.5) {
			t.Errorf("assignment got (avg=%v, count=%d), want (52.5, 2)", avg, count)
		}

		avg, count, err = svc.RecentQuizAverage(1, 2, 3, since)
		if err != nil {
			t.Fatalf("RecentQuizAverage returned error: %v", err)
		}
		if count != 2 || !almostEqual(avg, 50) {
			t.Errorf("quiz got (avg=%v, count=%d), want (50, 2)", avg, count)
		}
	})
}
