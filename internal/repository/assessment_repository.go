package repository

import (
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

// FindGradedSubmissions 只取已批改的提交，带作业信息
func (r *AssessmentRepository) FindGradedSubmissions(studentID, courseID, semesterID uint) ([]model.AssessmentSubmission, error) {
	var submissions []model.AssessmentSubmission
	err := r.DB.Preload("Assessment").
		Joins("JOIN assessments ON assessments.id = assessment_submissions.assessment_id").
		Where("assessment_submissions.student_id = ? AND assessment_submissions.is_graded = ? AND assessments.course_id = ? AND assessments.semester_id = ?",
			studentID, true, courseID, semesterID).
		Order("assessment_submissions.submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

// FindRecentGradedSubmissions 近期窗口内的已批改提交，风险识别的独立信号
func (r *AssessmentRepository) FindRecentGradedSubmissions(studentID, courseID, semesterID uint, since time.Time) ([]model.AssessmentSubmission, error) {
	var submissions []model.AssessmentSubmission
	err := r.DB.Preload("Assessment").
		Joins("JOIN assessments ON assessments.id = assessment_submissions.assessment_id").
		Where("assessment_submissions.student_id = ? AND assessment_submissions.is_graded = ? AND assessments.course_id = ? AND assessments.semester_id = ? AND assessment_submissions.submitted_at >= ?",
			studentID, true, courseID, semesterID, since).
		Find(&submissions).Error
	return submissions, err
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.DB.First(&assessment, id).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepository) CreateSubmission(submission *model.AssessmentSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *AssessmentRepository) GradeSubmission(id uint, marks float64, feedback string) error {
	now := time.Now()
	return r.DB.Model(&model.AssessmentSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"marks":     marks,
			"feedback":  feedback,
			"is_graded": true,
			"graded_at": now,
		}).Error
}
