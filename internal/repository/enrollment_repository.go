package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// FindEnrolled 返回某课程某学期所有在读学生，带学生信息
func (r *EnrollmentRepository) FindEnrolled(courseID, semesterID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Student").
		Where("course_id = ? AND semester_id = ? AND status = ?", courseID, semesterID, model.Enrolled).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CountEnrolled(courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND semester_id = ? AND status = ?", courseID, semesterID, model.Enrolled).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) IsEnrolled(studentID, courseID, semesterID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ? AND semester_id = ? AND status = ?",
			studentID, courseID, semesterID, model.Enrolled).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByStudent(studentID, semesterID uint) ([]model.Enrollment, error) {
	query := r.DB.Where("student_id = ?", studentID)
	if semesterID != 0 {
		query = query.Where("semester_id = ?", semesterID)
	}

	var enrollments []model.Enrollment
	err := query.Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) UpdateStatus(id uint, status model.EnrollmentStatus) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *EnrollmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Enrollment{}, id).Error
}
