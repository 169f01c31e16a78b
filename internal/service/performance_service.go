package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/config"
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/repository"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PerformanceStore interface {
	FindByKey(studentID, courseID, semesterID uint) (*model.PerformanceRecord, error)
	FindByID(id string) (*model.PerformanceRecord, error)
	List(filters repository.PerformanceFilters, page, limit int) ([]model.PerformanceRecord, int64, error)
	Create(record *model.PerformanceRecord) error
	Update(record *model.PerformanceRecord) error
	Delete(id string) error
}

type UserReader interface {
	FindByID(id uint) (*model.User, error)
}

type CourseReader interface {
	FindByID(id uint) (*model.Course, error)
}

type SemesterReader interface {
	FindByID(id uint) (*model.Semester, error)
}

// PerformanceService 综合成绩打分器。
// 权重固定 出勤0.3/作业0.4/测验0.3，不按课程配置
type PerformanceService struct {
	Attendance      *AttendanceService
	Grades          *GradeService
	Narrative       *NarrativeService
	PerformanceRepo PerformanceStore
	UserRepo        UserReader
	CourseRepo      CourseReader
	SemesterRepo    SemesterReader
	Weights         config.AnalyticsConfig
}

func NewPerformanceService(
	attendance *AttendanceService,
	grades *GradeService,
	narrative *NarrativeService,
	performanceRepo PerformanceStore,
	userRepo UserReader,
	courseRepo CourseReader,
	semesterRepo SemesterReader,
	cfg config.AnalyticsConfig,
) *PerformanceService {
	return &PerformanceService{
		Attendance:      attendance,
		Grades:          grades,
		Narrative:       narrative,
		PerformanceRepo: performanceRepo,
		UserRepo:        userRepo,
		CourseRepo:      courseRepo,
		SemesterRepo:    semesterRepo,
		Weights:         cfg,
	}
}

// ScoreStudent 重算一名学生在某课程某学期的综合表现并落库。
// 同键已有记录时原地更新，lastUpdated 必须前进
func (s *PerformanceService) ScoreStudent(studentID, courseID, semesterID uint) (*model.PerformanceRecord, error) {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrStudentNotFound, studentID)
		}
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrCourseNotFound, courseID)
		}
		return nil, err
	}

	if _, err := s.SemesterRepo.FindByID(semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrSemesterNotFound, semesterID)
		}
		return nil, err
	}

	// 三路聚合缺一不可，任何一路失败都向上传播
	attendance, err := s.Attendance.StudentStats(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("aggregate attendance: %w", err)
	}

	assignments, err := s.Grades.AssignmentPerformance(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("aggregate assignments: %w", err)
	}

	quizzes, err := s.Grades.QuizPerformance(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("aggregate quizzes: %w", err)
	}

	overall := s.Weights.AttendanceWeight*attendance.AttendancePercentage +
		s.Weights.AssignmentWeight*assignments.AverageScore +
		s.Weights.QuizWeight*quizzes.AverageScore

	narrative := s.Narrative.AnalyzeStudent(StudentMetrics{
		StudentName:   student.Name,
		CourseName:    course.Title,
		Attendance:    attendance.AttendancePercentage,
		AssignmentAvg: assignments.AverageScore,
		QuizAvg:       quizzes.AverageScore,
		Overall:       overall,
		Assignments:   assignments.Assignments,
		Quizzes:       quizzes.Quizzes,
	})

	record, err := s.PerformanceRepo.FindByKey(studentID, courseID, semesterID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = &model.PerformanceRecord{
			StudentID:  studentID,
			CourseID:   courseID,
			SemesterID: semesterID,
		}
	}

	record.AttendancePercentage = attendance.AttendancePercentage
	record.AssignmentAverage = assignments.AverageScore
	record.QuizAverage = quizzes.AverageScore
	record.OverallPerformance = overall
	record.PerformanceCategory = model.CategorizePerformance(overall)
	record.Strengths = mustJSON(narrative.Strengths)
	record.Weaknesses = mustJSON(narrative.Weaknesses)
	record.Recommendations = mustJSON(narrative.Recommendations)
	if narrative.FullAnalysis != "" {
		record.AIAnalysis = mustJSON(narrative.FullAnalysis)
	}
	record.LastUpdated = time.Now()

	if record.ID == "" {
		err = s.PerformanceRepo.Create(record)
	} else {
		err = s.PerformanceRepo.Update(record)
	}
	if err != nil {
		return nil, fmt.Errorf("save performance record: %w", err)
	}

	return record, nil
}

func (s *PerformanceService) GetRecord(id string) (*model.PerformanceRecord, error) {
	record, err := s.PerformanceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%s", util.ErrPerformanceNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

func (s *PerformanceService) GetByStudent(studentID, courseID, semesterID uint) (*model.PerformanceRecord, error) {
	record, err := s.PerformanceRepo.FindByKey(studentID, courseID, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student=%d course=%d semester=%d",
				util.ErrPerformanceNotFound, studentID, courseID, semesterID)
		}
		return nil, err
	}
	return record, nil
}

func (s *PerformanceService) ListRecords(filters repository.PerformanceFilters, page, limit int) ([]model.PerformanceRecord, int64, error) {
	return s.PerformanceRepo.List(filters, page, limit)
}

// UpdateNarrativeRequest 管理端只允许改叙述字段，数值字段必须走重算
type UpdateNarrativeRequest struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

func (s *PerformanceService) UpdateRecord(id string, req UpdateNarrativeRequest) (*model.PerformanceRecord, error) {
	record, err := s.GetRecord(id)
	if err != nil {
		return nil, err
	}

	if req.Strengths != nil {
		record.Strengths = mustJSON(req.Strengths)
	}
	if req.Weaknesses != nil {
		record.Weaknesses = mustJSON(req.Weaknesses)
	}
	if req.Recommendations != nil {
		record.Recommendations = mustJSON(req.Recommendations)
	}
	record.LastUpdated = time.Now()

	if err := s.PerformanceRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *PerformanceService) DeleteRecord(id string) error {
	if _, err := s.GetRecord(id); err != nil {
		return err
	}
	return s.PerformanceRepo.Delete(id)
}

func mustJSON(v interface{}) datatypes.JSON {
	data, _ := json.Marshal(v)
	return datatypes.JSON(data)
}
