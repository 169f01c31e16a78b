package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type RiskRepository struct {
	DB *gorm.DB
}

func NewRiskRepository(db *gorm.DB) *RiskRepository {
	return &RiskRepository{DB: db}
}

// FindUnresolvedByKey 未解除记录按复合键最多一条
func (r *RiskRepository) FindUnresolvedByKey(studentID, courseID, semesterID uint) (*model.AtRiskRecord, error) {
	var record model.AtRiskRecord
	err := r.DB.Where("student_id = ? AND course_id = ? AND semester_id = ? AND is_resolved = ?",
		studentID, courseID, semesterID, false).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *RiskRepository) FindByID(id string) (*model.AtRiskRecord, error) {
	var record model.AtRiskRecord
	err := r.DB.Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

type RiskFilters struct {
	StudentID  uint
	CourseID   uint
	SemesterID uint
	RiskLevel  model.RiskLevel
	Resolved   *bool
}

func (r *RiskRepository) List(filters RiskFilters, page, limit int) ([]model.AtRiskRecord, int64, error) {
	query := r.DB.Model(&model.AtRiskRecord{})
	if filters.StudentID != 0 {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.CourseID != 0 {
		query = query.Where("course_id = ?", filters.CourseID)
	}
	if filters.SemesterID != 0 {
		query = query.Where("semester_id = ?", filters.SemesterID)
	}
	if filters.RiskLevel != "" {
		query = query.Where("risk_level = ?", filters.RiskLevel)
	}
	if filters.Resolved != nil {
		query = query.Where("is_resolved = ?", *filters.Resolved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.AtRiskRecord
	err := query.Offset((page - 1) * limit).Limit(limit).
		Order("risk_score DESC").
		Find(&records).Error
	return records, total, err
}

func (r *RiskRepository) Create(record *model.AtRiskRecord) error {
	return r.DB.Create(record).Error
}

func (r *RiskRepository) Update(record *model.AtRiskRecord) error {
	return r.DB.Save(record).Error
}

func (r *RiskRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.AtRiskRecord{}).Error
}
