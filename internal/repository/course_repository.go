package repository

import (
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(programID uint, page, limit int) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})
	if programID != 0 {
		query = query.Where("program_id = ?", programID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query.Offset((page - 1) * limit).Limit(limit).Order("code ASC").Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

type SemesterRepository struct {
	DB *gorm.DB
}

func NewSemesterRepository(db *gorm.DB) *SemesterRepository {
	return &SemesterRepository{DB: db}
}

func (r *SemesterRepository) FindByID(id uint) (*model.Semester, error) {
	var semester model.Semester
	err := r.DB.First(&semester, id).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *SemesterRepository) FindActive() (*model.Semester, error) {
	var semester model.Semester
	err := r.DB.Where("is_active = ?", true).First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *SemesterRepository) List() ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.DB.Order("start_date DESC").Find(&semesters).Error
	return semesters, err
}

func (r *SemesterRepository) Create(semester *model.Semester) error {
	return r.DB.Create(semester).Error
}

func (r *SemesterRepository) Update(semester *model.Semester) error {
	return r.DB.Save(semester).Error
}

func (r *SemesterRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Semester{}, id).Error
}
