package repository

import (
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindScoredAttempts 只取已提交或已完成、且已有分数的测验记录
func (r *QuizRepository) FindScoredAttempts(studentID, courseID, semesterID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.student_id = ? AND quiz_attempts.status IN ? AND quiz_attempts.score IS NOT NULL AND quizzes.course_id = ? AND quizzes.semester_id = ?",
			studentID,
			[]model.QuizAttemptStatus{model.AttemptSubmitted, model.AttemptCompleted},
			courseID, semesterID).
		Order("quiz_attempts.started_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) FindRecentScoredAttempts(studentID, courseID, semesterID uint, since time.Time) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.student_id = ? AND quiz_attempts.status IN ? AND quiz_attempts.score IS NOT NULL AND quizzes.course_id = ? AND quizzes.semester_id = ? AND quiz_attempts.started_at >= ?",
			studentID,
			[]model.QuizAttemptStatus{model.AttemptSubmitted, model.AttemptCompleted},
			courseID, semesterID, since).
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizRepository) CompleteAttempt(id uint, score float64) error {
	now := time.Now()
	return r.DB.Model(&model.QuizAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":        score,
			"status":       model.AttemptCompleted,
			"completed_at": now,
		}).Error
}
