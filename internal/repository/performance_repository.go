package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

func (r *PerformanceRepository) FindByKey(studentID, courseID, semesterID uint) (*model.PerformanceRecord, error) {
	var record model.PerformanceRecord
	err := r.DB.Where("student_id = ? AND course_id = ? AND semester_id = ?",
		studentID, courseID, semesterID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PerformanceRepository) FindByID(id string) (*model.PerformanceRecord, error) {
	var record model.PerformanceRecord
	err := r.DB.Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

type PerformanceFilters struct {
	StudentID  uint
	CourseID   uint
	SemesterID uint
	Category   model.PerformanceCategory
}

func (r *PerformanceRepository) List(filters PerformanceFilters, page, limit int) ([]model.PerformanceRecord, int64, error) {
	query := r.DB.Model(&model.PerformanceRecord{})
	if filters.StudentID != 0 {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.CourseID != 0 {
		query = query.Where("course_id = ?", filters.CourseID)
	}
	if filters.SemesterID != 0 {
		query = query.Where("semester_id = ?", filters.SemesterID)
	}
	if filters.Category != "" {
		query = query.Where("performance_category = ?", filters.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.PerformanceRecord
	err := query.Offset((page - 1) * limit).Limit(limit).
		Order("last_updated DESC").
		Find(&records).Error
	return records, total, err
}

func (r *PerformanceRepository) Create(record *model.PerformanceRecord) error {
	return r.DB.Create(record).Error
}

func (r *PerformanceRepository) Update(record *model.PerformanceRecord) error {
	return r.DB.Save(record).Error
}

func (r *PerformanceRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.PerformanceRecord{}).Error
}
