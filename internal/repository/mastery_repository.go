package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type MasteryRepository struct {
	DB *gorm.DB
}

func NewMasteryRepository(db *gorm.DB) *MasteryRepository {
	return &MasteryRepository{DB: db}
}

// FindByKey 没有快照时返回 gorm.ErrRecordNotFound，调用方自行处理
func (r *MasteryRepository) FindByKey(studentID, courseID, semesterID uint) (*model.CourseMastery, error) {
	var mastery model.CourseMastery
	err := r.DB.Where("student_id = ? AND course_id = ? AND semester_id = ?",
		studentID, courseID, semesterID).
		First(&mastery).Error
	if err != nil {
		return nil, err
	}
	return &mastery, nil
}
