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

// RecordService 原始记录采集：点名、线上课、作业提交、测验作答。
// 只负责落库，聚合分析读这些表
type RecordService struct {
	AttendanceRepo *repository.AttendanceRepository
	VirtualRepo    *repository.VirtualClassRepository
	AssessmentRepo *repository.AssessmentRepository
	QuizRepo       *repository.QuizRepository
}

func NewRecordService(
	attendanceRepo *repository.AttendanceRepository,
	virtualRepo *repository.VirtualClassRepository,
	assessmentRepo *repository.AssessmentRepository,
	quizRepo *repository.QuizRepository,
) *RecordService {
	return &RecordService{
		AttendanceRepo: attendanceRepo,
		VirtualRepo:    virtualRepo,
		AssessmentRepo: assessmentRepo,
		QuizRepo:       quizRepo,
	}
}

type AttendanceRequest struct {
	StudentID  uint   `json:"studentId" binding:"required"`
	CourseID   uint   `json:"courseId" binding:"required"`
	SemesterID uint   `json:"semesterId" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	IsPresent  bool   `json:"isPresent"`
}

func (s *RecordService) RecordAttendance(req AttendanceRequest, recordedBy uint) (*model.AttendanceRecord, error) {
	date, err := time.Parse(util.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected %s", req.Date, util.DateFormat)
	}

	record := &model.AttendanceRecord{
		StudentID:  req.StudentID,
		CourseID:   req.CourseID,
		SemesterID: req.SemesterID,
		Date:       date,
		IsPresent:  req.IsPresent,
		RecordedBy: recordedBy,
	}
	if err := s.AttendanceRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RecordService) ListStudentAttendance(studentID, courseID, semesterID uint) ([]model.AttendanceRecord, error) {
	return s.AttendanceRepo.ListByStudent(studentID, courseID, semesterID)
}

type VirtualClassRequest struct {
	CourseID       uint      `json:"courseId" binding:"required"`
	SemesterID     uint      `json:"semesterId" binding:"required"`
	Title          string    `json:"title" binding:"required"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
	MeetingLink    string    `json:"meetingLink"`
}

func (s *RecordService) ScheduleVirtualClass(req VirtualClassRequest) (*model.VirtualClass, error) {
	vc := &model.VirtualClass{
		CourseID:       req.CourseID,
		SemesterID:     req.SemesterID,
		Title:          req.Title,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		Status:         model.VirtualScheduled,
		MeetingLink:    req.MeetingLink,
	}
	if err := s.VirtualRepo.Create(vc); err != nil {
		return nil, err
	}
	return vc, nil
}

func (s *RecordService) UpdateVirtualClassStatus(id uint, status model.VirtualClassStatus) error {
	switch status {
	case model.VirtualScheduled, model.VirtualInProgress, model.VirtualCompleted, model.VirtualCancelled:
	default:
		return fmt.Errorf("invalid virtual class status: %s", status)
	}
	return s.VirtualRepo.UpdateStatus(id, status)
}

type VirtualAttendanceRequest struct {
	StudentID      uint       `json:"studentId" binding:"required"`
	VirtualClassID uint       `json:"virtualClassId" binding:"required"`
	JoinTime       time.Time  `json:"joinTime"`
	LeaveTime      *time.Time `json:"leaveTime"`
	IsPresent      bool       `json:"isPresent"`
}

func (s *RecordService) RecordVirtualAttendance(req VirtualAttendanceRequest) (*model.VirtualAttendanceRecord, error) {
	record := &model.VirtualAttendanceRecord{
		StudentID:      req.StudentID,
		VirtualClassID: req.VirtualClassID,
		JoinTime:       req.JoinTime,
		LeaveTime:      req.LeaveTime,
		IsPresent:      req.IsPresent,
	}
	if err := s.VirtualRepo.CreateAttendance(record); err != nil {
		return nil, err
	}
	return record, nil
}

type SubmissionRequest struct {
	StudentID    uint `json:"studentId" binding:"required"`
	AssessmentID uint `json:"assessmentId" binding:"required"`
}

func (s *RecordService) SubmitAssessment(req SubmissionRequest) (*model.AssessmentSubmission, error) {
	if _, err := s.AssessmentRepo.FindByID(req.AssessmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment not found: id=%d", req.AssessmentID)
		}
		return nil, err
	}

	submission := &model.AssessmentSubmission{
		StudentID:    req.StudentID,
		AssessmentID: req.AssessmentID,
		SubmittedAt:  time.Now(),
	}
	if err := s.AssessmentRepo.CreateSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

type GradeRequest struct {
	Marks    float64 `json:"marks" binding:"min=0"`
	Feedback string  `json:"feedback"`
}

func (s *RecordService) GradeSubmission(submissionID uint, req GradeRequest) error {
	return s.AssessmentRepo.GradeSubmission(submissionID, req.Marks, req.Feedback)
}

type AttemptRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
	QuizID    uint `json:"quizId" binding:"required"`
}

func (s *RecordService) StartQuizAttempt(req AttemptRequest) (*model.QuizAttempt, error) {
	if _, err := s.QuizRepo.FindByID(req.QuizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz not found: id=%d", req.QuizID)
		}
		return nil, err
	}

	attempt := &model.QuizAttempt{
		StudentID: req.StudentID,
		QuizID:    req.QuizID,
		Status:    model.AttemptInProgress,
		StartedAt: time.Now(),
	}
	if err := s.QuizRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

type CompleteAttemptRequest struct {
	Score float64 `json:"score" binding:"min=0"`
}

func (s *RecordService) CompleteQuizAttempt(attemptID uint, req CompleteAttemptRequest) error {
	return s.QuizRepo.CompleteAttempt(attemptID, req.Score)
}
