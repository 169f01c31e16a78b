package service

import (
	"fmt"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
)

type SubmissionReader interface {
	FindGradedSubmissions(studentID, courseID, semesterID uint) ([]model.AssessmentSubmission, error)
	FindRecentGradedSubmissions(studentID, courseID, semesterID uint, since time.Time) ([]model.AssessmentSubmission, error)
}

type AttemptReader interface {
	FindScoredAttempts(studentID, courseID, semesterID uint) ([]model.QuizAttempt, error)
	FindRecentScoredAttempts(studentID, courseID, semesterID uint, since time.Time) ([]model.QuizAttempt, error)
}

// GradeService 作业与测验的得分聚合。满分是各项总分之和，
// 没有已批改记录时均分为 0，调用方用计数字段区分“无数据”和“零分”
type GradeService struct {
	AssessmentRepo SubmissionReader
	QuizRepo       AttemptReader
}

func NewGradeService(assessmentRepo SubmissionReader, quizRepo AttemptReader) *GradeService {
	return &GradeService{
		AssessmentRepo: assessmentRepo,
		QuizRepo:       quizRepo,
	}
}

func (s *GradeService) AssignmentPerformance(studentID, courseID, semesterID uint) (*model.AssignmentPerformance, error) {
	submissions, err := s.AssessmentRepo.FindGradedSubmissions(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("find graded submissions: %w", err)
	}

	perf := &model.AssignmentPerformance{Assignments: []model.AssignmentItem{}}
	for _, sub := range submissions {
		if sub.Marks == nil || sub.Assessment == nil {
			continue
		}

		item := model.AssignmentItem{
			AssessmentID: sub.AssessmentID,
			Title:        sub.Assessment.Title,
			TotalMarks:   sub.Assessment.TotalMarks,
			Marks:        *sub.Marks,
			SubmittedAt:  sub.SubmittedAt,
		}
		if item.TotalMarks > 0 {
			item.Percentage = item.Marks / item.TotalMarks * 100
		}

		perf.Assignments = append(perf.Assignments, item)
		perf.TotalSubmissions++
		perf.TotalMarks += item.TotalMarks
		perf.EarnedMarks += item.Marks
	}

	if perf.TotalMarks > 0 {
		perf.AverageScore = perf.EarnedMarks / perf.TotalMarks * 100
	}

	return perf, nil
}

func (s *GradeService) QuizPerformance(studentID, courseID, semesterID uint) (*model.QuizPerformance, error) {
	attempts, err := s.QuizRepo.FindScoredAttempts(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("find scored attempts: %w", err)
	}

	perf := &model.QuizPerformance{Quizzes: []model.QuizItem{}}
	for _, attempt := range attempts {
		if attempt.Score == nil || attempt.Quiz == nil {
			continue
		}

		item := model.QuizItem{
			QuizID:      attempt.QuizID,
			Title:       attempt.Quiz.Title,
			TotalMarks:  attempt.Quiz.TotalMarks,
			Score:       *attempt.Score,
			CompletedAt: attempt.CompletedAt,
		}
		if item.TotalMarks > 0 {
			item.Percentage = item.Score / item.TotalMarks * 100
		}

		perf.Quizzes = append(perf.Quizzes, item)
		perf.TotalAttempts++
		perf.TotalMarks += item.TotalMarks
		perf.EarnedMarks += item.Score
	}

	if perf.TotalMarks > 0 {
		perf.AverageScore = perf.EarnedMarks / perf.TotalMarks * 100
	}

	return perf, nil
}

// RecentQuizAverage 近期窗口内测验得分率均值，供风险识别用。
// 返回 (均值, 条数)，条数为 0 时均值无意义
func (s *GradeService) RecentQuizAverage(studentID, courseID, semesterID uint, since time.Time) (float64, int, error) {
	attempts, err := s.QuizRepo.FindRecentScoredAttempts(studentID, courseID, semesterID, since)
	if err != nil {
		return 0, 0, fmt.Errorf("find recent attempts: %w", err)
	}

	var sum float64
	var count int
	for _, attempt := range attempts {
		if attempt.Score == nil || attempt.Quiz == nil || attempt.Quiz.TotalMarks <= 0 {
			continue
		}
		sum += *attempt.Score / attempt.Quiz.TotalMarks * 100
		count++
	}

	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (s *GradeService) RecentAssignmentAverage(studentID, courseID, semesterID uint, since time.Time) (float64, int, error) {
	submissions, err := s.AssessmentRepo.FindRecentGradedSubmissions(studentID, courseID, semesterID, since)
	if err != nil {
		return 0, 0, fmt.Errorf("find recent submissions: %w", err)
	}

	var sum float64
	var count int
	for _, sub := range submissions {
		if sub.Marks == nil || sub.Assessment == nil || sub.Assessment.TotalMarks <= 0 {
			continue
		}
		sum += *sub.Marks / sub.Assessment.TotalMarks * 100
		count++
	}

	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}
