package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// CountSessionDates 整个课程的线下课次数：对全部点名记录的日期去重。
// 课次的存在由谁点过名决定，与选课名单无关
func (r *AttendanceRepository) CountSessionDates(courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttendanceRecord{}).
		Where("course_id = ? AND semester_id = ?", courseID, semesterID).
		Distinct("date").
		Count(&count).Error
	return count, err
}

// CountStudentSessionDates 单个学生视角的课次数：只对该生自己的记录去重
func (r *AttendanceRepository) CountStudentSessionDates(studentID, courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttendanceRecord{}).
		Where("student_id = ? AND course_id = ? AND semester_id = ?", studentID, courseID, semesterID).
		Distinct("date").
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepository) CountPresent(courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttendanceRecord{}).
		Where("course_id = ? AND semester_id = ? AND is_present = ?", courseID, semesterID, true).
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepository) CountStudentPresent(studentID, courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttendanceRecord{}).
		Where("student_id = ? AND course_id = ? AND semester_id = ? AND is_present = ?",
			studentID, courseID, semesterID, true).
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepository) ListByStudent(studentID, courseID, semesterID uint) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.DB.Where("student_id = ? AND course_id = ? AND semester_id = ?", studentID, courseID, semesterID).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) Create(record *model.AttendanceRecord) error {
	return r.DB.Create(record).Error
}

func (r *AttendanceRepository) Update(record *model.AttendanceRecord) error {
	return r.DB.Save(record).Error
}
