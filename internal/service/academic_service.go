package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"gorm.io/gorm"
)

// AcademicService 课程/学期/选课的薄CRUD，分析引擎的数据来源
type AcademicService struct {
	CourseRepo     *repository.CourseRepository
	SemesterRepo   *repository.SemesterRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
}

func NewAcademicService(
	courseRepo *repository.CourseRepository,
	semesterRepo *repository.SemesterRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
) *AcademicService {
	return &AcademicService{
		CourseRepo:     courseRepo,
		SemesterRepo:   semesterRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
	}
}

type CourseRequest struct {
	ProgramID   uint   `json:"programId" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CreditHours int    `json:"creditHours"`
	Level       int    `json:"level"`
}

func (s *AcademicService) CreateCourse(req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		ProgramID:   req.ProgramID,
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		CreditHours: req.CreditHours,
		Level:       req.Level,
	}
	if course.CreditHours == 0 {
		course.CreditHours = 3
	}
	if course.Level == 0 {
		course.Level = 1
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *AcademicService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrCourseNotFound, id)
		}
		return nil, err
	}
	return course, nil
}

func (s *AcademicService) ListCourses(programID uint, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.List(programID, page, limit)
}

func (s *AcademicService) UpdateCourse(id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}

	course.ProgramID = req.ProgramID
	course.Code = req.Code
	course.Title = req.Title
	course.Description = req.Description
	if req.CreditHours > 0 {
		course.CreditHours = req.CreditHours
	}
	if req.Level > 0 {
		course.Level = req.Level
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *AcademicService) DeleteCourse(id uint) error {
	if _, err := s.GetCourse(id); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

type SemesterRequest struct {
	Name         string    `json:"name" binding:"required"`
	AcademicYear string    `json:"academicYear" binding:"required"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
}

func (s *AcademicService) CreateSemester(req SemesterRequest) (*model.Semester, error) {
	semester := &model.Semester{
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     req.IsActive,
	}
	if err := s.SemesterRepo.Create(semester); err != nil {
		return nil, err
	}
	return semester, nil
}

func (s *AcademicService) GetSemester(id uint) (*model.Semester, error) {
	semester, err := s.SemesterRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrSemesterNotFound, id)
		}
		return nil, err
	}
	return semester, nil
}

func (s *AcademicService) GetActiveSemester() (*model.Semester, error) {
	semester, err := s.SemesterRepo.FindActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active semester", util.ErrSemesterNotFound)
		}
		return nil, err
	}
	return semester, nil
}

func (s *AcademicService) ListSemesters() ([]model.Semester, error) {
	return s.SemesterRepo.List()
}

func (s *AcademicService) UpdateSemester(id uint, req SemesterRequest) (*model.Semester, error) {
	semester, err := s.GetSemester(id)
	if err != nil {
		return nil, err
	}

	semester.Name = req.Name
	semester.AcademicYear = req.AcademicYear
	semester.StartDate = req.StartDate
	semester.EndDate = req.EndDate
	semester.IsActive = req.IsActive

	if err := s.SemesterRepo.Update(semester); err != nil {
		return nil, err
	}
	return semester, nil
}

func (s *AcademicService) DeleteSemester(id uint) error {
	if _, err := s.GetSemester(id); err != nil {
		return err
	}
	return s.SemesterRepo.Delete(id)
}

type EnrollRequest struct {
	StudentID  uint `json:"studentId" binding:"required"`
	CourseID   uint `json:"courseId" binding:"required"`
	SemesterID uint `json:"semesterId" binding:"required"`
}

// EnrollStudent 同键重复选课直接报错，不做静默去重
func (s *AcademicService) EnrollStudent(req EnrollRequest) (*model.Enrollment, error) {
	if _, err := s.UserRepo.FindByID(req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrStudentNotFound, req.StudentID)
		}
		return nil, err
	}
	if _, err := s.GetCourse(req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.GetSemester(req.SemesterID); err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(req.StudentID, req.CourseID, req.SemesterID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, fmt.Errorf("student %d is already enrolled in course %d for semester %d",
			req.StudentID, req.CourseID, req.SemesterID)
	}

	enrollment := &model.Enrollment{
		StudentID:  req.StudentID,
		CourseID:   req.CourseID,
		SemesterID: req.SemesterID,
		Status:     model.Enrolled,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *AcademicService) ListEnrollments(courseID, semesterID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindEnrolled(courseID, semesterID)
}

func (s *AcademicService) ListStudentEnrollments(studentID, semesterID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(studentID, semesterID)
}

func (s *AcademicService) UpdateEnrollmentStatus(id uint, status model.EnrollmentStatus) error {
	switch status {
	case model.Enrolled, model.Dropped, model.CompletedEnrolment:
	default:
		return fmt.Errorf("invalid enrollment status: %s", status)
	}
	return s.EnrollmentRepo.UpdateStatus(id, status)
}

func (s *AcademicService) DeleteEnrollment(id uint) error {
	return s.EnrollmentRepo.Delete(id)
}
