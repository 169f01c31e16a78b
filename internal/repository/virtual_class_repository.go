package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type VirtualClassRepository struct {
	DB *gorm.DB
}

func NewVirtualClassRepository(db *gorm.DB) *VirtualClassRepository {
	return &VirtualClassRepository{DB: db}
}

// CountHeld 线上课次数只计已开始或已结束的，取消和未开始的不计
func (r *VirtualClassRepository) CountHeld(courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VirtualClass{}).
		Where("course_id = ? AND semester_id = ? AND status IN ?",
			courseID, semesterID,
			[]model.VirtualClassStatus{model.VirtualCompleted, model.VirtualInProgress}).
		Count(&count).Error
	return count, err
}

// CountPresent 全班在线上课的出席总行数
func (r *VirtualClassRepository) CountPresent(courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VirtualAttendanceRecord{}).
		Joins("JOIN virtual_classes ON virtual_classes.id = virtual_attendance_records.virtual_class_id").
		Where("virtual_classes.course_id = ? AND virtual_classes.semester_id = ? AND virtual_attendance_records.is_present = ?",
			courseID, semesterID, true).
		Count(&count).Error
	return count, err
}

func (r *VirtualClassRepository) CountStudentPresent(studentID, courseID, semesterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VirtualAttendanceRecord{}).
		Joins("JOIN virtual_classes ON virtual_classes.id = virtual_attendance_records.virtual_class_id").
		Where("virtual_attendance_records.student_id = ? AND virtual_classes.course_id = ? AND virtual_classes.semester_id = ? AND virtual_attendance_records.is_present = ?",
			studentID, courseID, semesterID, true).
		Count(&count).Error
	return count, err
}

func (r *VirtualClassRepository) Create(vc *model.VirtualClass) error {
	return r.DB.Create(vc).Error
}

func (r *VirtualClassRepository) UpdateStatus(id uint, status model.VirtualClassStatus) error {
	return r.DB.Model(&model.VirtualClass{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *VirtualClassRepository) CreateAttendance(record *model.VirtualAttendanceRecord) error {
	return r.DB.Create(record).Error
}
