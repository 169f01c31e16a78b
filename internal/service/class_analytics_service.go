package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/internal/util"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/logger"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClassAnalyticsService 班级整体分析。逐个学生顺序打分，
// 单个学生失败只记日志并跳过，不中断整个批次
type ClassAnalyticsService struct {
	Performance    *PerformanceService
	Narrative      *NarrativeService
	EnrollmentRepo EnrollmentReader
	CourseRepo     CourseReader
	Redis          *redis.Client
	CacheTTL       time.Duration
}

func NewClassAnalyticsService(
	performance *PerformanceService,
	narrative *NarrativeService,
	enrollmentRepo EnrollmentReader,
	courseRepo CourseReader,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *ClassAnalyticsService {
	return &ClassAnalyticsService{
		Performance:    performance,
		Narrative:      narrative,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Redis:          rdb,
		CacheTTL:       cacheTTL,
	}
}

func classCacheKey(courseID, semesterID uint) string {
	return fmt.Sprintf("class_analysis:%d:%d", courseID, semesterID)
}

func (s *ClassAnalyticsService) AnalyzeClass(courseID, semesterID uint) (*model.ClassAnalysis, error) {
	ctx := context.Background()

	// 派生数据允许短暂过期，靠TTL失效
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, classCacheKey(courseID, semesterID)).Result(); err == nil {
			var analysis model.ClassAnalysis
			if err := json.Unmarshal([]byte(cached), &analysis); err == nil {
				return &analysis, nil
			}
		}
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", util.ErrCourseNotFound, courseID)
		}
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.FindEnrolled(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	analysis := &model.ClassAnalysis{
		CourseID:   courseID,
		SemesterID: semesterID,
		CategoryCounts: map[model.PerformanceCategory]int{
			model.CategoryExcellent:    0,
			model.CategoryGood:         0,
			model.CategoryAverage:      0,
			model.CategoryBelowAverage: 0,
			model.CategoryPoor:         0,
		},
		StudentAnalyses: []model.StudentAnalysis{},
		GeneratedAt:     time.Now(),
	}

	var attSum, assignSum, quizSum, overallSum float64
	for _, enrollment := range enrollments {
		record, err := s.Performance.ScoreStudent(enrollment.StudentID, courseID, semesterID)
		if err != nil {
			logger.Log.Warn("skipping student in class analysis",
				zap.Uint("studentId", enrollment.StudentID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}

		name := ""
		if enrollment.Student != nil {
			name = enrollment.Student.Name
		}

		analysis.StudentAnalyses = append(analysis.StudentAnalyses, model.StudentAnalysis{
			StudentID:            enrollment.StudentID,
			StudentName:          name,
			AttendancePercentage: record.AttendancePercentage,
			AssignmentAverage:    record.AssignmentAverage,
			QuizAverage:          record.QuizAverage,
			OverallPerformance:   record.OverallPerformance,
			PerformanceCategory:  record.PerformanceCategory,
		})
		analysis.CategoryCounts[record.PerformanceCategory]++

		attSum += record.AttendancePercentage
		assignSum += record.AssignmentAverage
		quizSum += record.QuizAverage
		overallSum += record.OverallPerformance
	}

	analysis.TotalStudents = len(analysis.StudentAnalyses)
	if analysis.TotalStudents > 0 {
		n := float64(analysis.TotalStudents)
		analysis.AttendanceAverage = attSum / n
		analysis.AssignmentAverage = assignSum / n
		analysis.QuizAverage = quizSum / n
		analysis.OverallAverage = overallSum / n
	}

	analysis.ClassRecommendations = s.Narrative.AnalyzeClass(ClassMetrics{
		CourseName:        course.Title,
		TotalStudents:     analysis.TotalStudents,
		AttendanceAverage: analysis.AttendanceAverage,
		AssignmentAverage: analysis.AssignmentAverage,
		QuizAverage:       analysis.QuizAverage,
		OverallAverage:    analysis.OverallAverage,
		CategoryCounts:    analysis.CategoryCounts,
	})

	if s.Redis != nil {
		if data, err := json.Marshal(analysis); err == nil {
			if err := s.Redis.Set(ctx, classCacheKey(courseID, semesterID), data, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("cache class analysis failed", zap.Error(err))
			}
		}
	}

	return analysis, nil
}
