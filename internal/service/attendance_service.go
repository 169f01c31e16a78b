package service

import (
	"fmt"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
)

// AttendanceReader 线下点名记录的只读聚合接口
type AttendanceReader interface {
	CountSessionDates(courseID, semesterID uint) (int64, error)
	CountStudentSessionDates(studentID, courseID, semesterID uint) (int64, error)
	CountPresent(courseID, semesterID uint) (int64, error)
	CountStudentPresent(studentID, courseID, semesterID uint) (int64, error)
}

// VirtualClassReader 线上课及其出席记录的只读聚合接口
type VirtualClassReader interface {
	CountHeld(courseID, semesterID uint) (int64, error)
	CountPresent(courseID, semesterID uint) (int64, error)
	CountStudentPresent(studentID, courseID, semesterID uint) (int64, error)
}

type EnrollmentReader interface {
	FindEnrolled(courseID, semesterID uint) ([]model.Enrollment, error)
	CountEnrolled(courseID, semesterID uint) (int64, error)
}

// AttendanceService 出勤聚合，纯读不落库
type AttendanceService struct {
	AttendanceRepo AttendanceReader
	VirtualRepo    VirtualClassReader
	EnrollmentRepo EnrollmentReader
}

func NewAttendanceService(attendanceRepo AttendanceReader, virtualRepo VirtualClassReader, enrollmentRepo EnrollmentReader) *AttendanceService {
	return &AttendanceService{
		AttendanceRepo: attendanceRepo,
		VirtualRepo:    virtualRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// StudentStats 单个学生的出勤统计。
// 课次分母用该生自己的点名记录去重，而不是全班的课次表；
// 与 CourseStats 的口径不同，两边行为都有回归测试钉住
func (s *AttendanceService) StudentStats(studentID, courseID, semesterID uint) (*model.AttendanceStats, error) {
	physical, err := s.AttendanceRepo.CountStudentSessionDates(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count physical sessions: %w", err)
	}

	virtual, err := s.VirtualRepo.CountHeld(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count virtual classes: %w", err)
	}

	physicalPresent, err := s.AttendanceRepo.CountStudentPresent(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count physical present: %w", err)
	}

	virtualPresent, err := s.VirtualRepo.CountStudentPresent(studentID, courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count virtual present: %w", err)
	}

	total := int(physical + virtual)
	present := int(physicalPresent + virtualPresent)

	// 没有点名行的课次按缺勤计
	absent := total - present
	if absent < 0 {
		absent = 0
	}

	return &model.AttendanceStats{
		TotalClasses:         total,
		TotalPhysicalClasses: int(physical),
		TotalVirtualClasses:  int(virtual),
		PresentCount:         present,
		AbsentCount:          absent,
		AttendancePercentage: attendancePercentage(present, absent),
	}, nil
}

// CourseStats 全班口径：课次对全部点名记录的日期去重，
// 分母为 在读人数 × 课次数
func (s *AttendanceService) CourseStats(courseID, semesterID uint) (*model.AttendanceStats, error) {
	physical, err := s.AttendanceRepo.CountSessionDates(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count physical sessions: %w", err)
	}

	virtual, err := s.VirtualRepo.CountHeld(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count virtual classes: %w", err)
	}

	physicalPresent, err := s.AttendanceRepo.CountPresent(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count physical present: %w", err)
	}

	virtualPresent, err := s.VirtualRepo.CountPresent(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count virtual present: %w", err)
	}

	enrolled, err := s.EnrollmentRepo.CountEnrolled(courseID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("count enrolled: %w", err)
	}

	total := int(physical + virtual)
	present := int(physicalPresent + virtualPresent)

	absent := int(enrolled)*total - present
	if absent < 0 {
		absent = 0
	}

	return &model.AttendanceStats{
		TotalClasses:         total,
		TotalPhysicalClasses: int(physical),
		TotalVirtualClasses:  int(virtual),
		PresentCount:         present,
		AbsentCount:          absent,
		AttendancePercentage: attendancePercentage(present, absent),
	}, nil
}

// attendancePercentage 双零时定义为 0，不产生 NaN
func attendancePercentage(present, absent int) float64 {
	if present+absent == 0 {
		return 0
	}
	return float64(present) / float64(present+absent) * 100
}
