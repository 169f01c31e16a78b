package service

import (
	"math"
	"testing"

	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
)

type fakeAttendanceReader struct {
	sessionDates        int64
	studentSessionDates int64
	present             int64
	studentPresent      int64
}

func (f *fakeAttendanceReader) CountSessionDates(courseID, semesterID uint) (int64, error) {
	return f.sessionDates, nil
}

func (f *fakeAttendanceReader) CountStudentSessionDates(studentID, courseID, semesterID uint) (int64, error) {
	return f.studentSessionDates, nil
}

func (f *fakeAttendanceReader) CountPresent(courseID, semesterID uint) (int64, error) {
	return f.present, nil
}

func (f *fakeAttendanceReader) CountStudentPresent(studentID, courseID, semesterID uint) (int64, error) {
	return f.studentPresent, nil
}

type fakeVirtualReader struct {
	held           int64
	present        int64
	studentPresent int64
}

func (f *fakeVirtualReader) CountHeld(courseID, semesterID uint) (int64, error) {
	return f.held, nil
}

func (f *fakeVirtualReader) CountPresent(courseID, semesterID uint) (int64, error) {
	return f.present, nil
}

func (f *fakeVirtualReader) CountStudentPresent(studentID, courseID, semesterID uint) (int64, error) {
	return f.studentPresent, nil
}

type fakeEnrollmentReader struct {
	enrollments []model.Enrollment
}

func (f *fakeEnrollmentReader) FindEnrolled(courseID, semesterID uint) ([]model.Enrollment, error) {
	return f.enrollments, nil
}

func (f *fakeEnrollmentReader) CountEnrolled(courseID, semesterID uint) (int64, error) {
	return int64(len(f.enrollments)), nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStudentStats(t *testing.T) {
	tests := []struct {
		name        string
		attendance  fakeAttendanceReader
		virtual     fakeVirtualReader
		wantTotal   int
		wantPresent int
		wantAbsent  int
		wantPct     float64
	}{
		{
			name:        "no classes at all",
			wantTotal:   0,
			wantPresent: 0,
			wantAbsent:  0,
			wantPct:     0,
		},
		{
			name:        "full attendance",
			attendance:  fakeAttendanceReader{studentSessionDates: 8, studentPresent: 8},
			virtual:     fakeVirtualReader{held: 2, studentPresent: 2},
			wantTotal:   10,
			wantPresent: 10,
			wantAbsent:  0,
			wantPct:     100,
		},
		{
			name:        "half attendance",
			attendance:  fakeAttendanceReader{studentSessionDates: 10, studentPresent: 5},
			virtual:     fakeVirtualReader{},
			wantTotal:   10,
			wantPresent: 5,
			wantAbsent:  5,
			wantPct:     50,
		},
		{
			name:        "virtual only",
			virtual:     fakeVirtualReader{held: 4, studentPresent: 1},
			wantTotal:   4,
			wantPresent: 1,
			wantAbsent:  3,
			wantPct:     25,
		},
		{
			// 线上出席多于该生自己的点名课次，缺勤不允许为负
			name:        "present exceeds recorded sessions",
			attendance:  fakeAttendanceReader{studentSessionDates: 1, studentPresent: 1},
			virtual:     fakeVirtualReader{held: 1, studentPresent: 2},
			wantTotal:   2,
			wantPresent: 3,
			wantAbsent:  0,
			wantPct:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAttendanceService(&tt.attendance, &tt.virtual, &fakeEnrollmentReader{})

			stats, err := svc.StudentStats(1, 2, 3)
			if err != nil {
				t.Fatalf("StudentStats returned error: %v", err)
			}

			if stats.TotalClasses != tt.wantTotal {
				t.Errorf("TotalClasses = %d, want %d", stats.TotalClasses, tt.wantTotal)
			}
			if stats.PresentCount != tt.wantPresent {
				t.Errorf("PresentCount = %d, want %d", stats.PresentCount, tt.wantPresent)
			}
			if stats.AbsentCount != tt.wantAbsent {
				t.Errorf("AbsentCount = %d, want %d", stats.AbsentCount, tt.wantAbsent)
			}
			if !almostEqual(stats.AttendancePercentage, tt.wantPct) {
				t.Errorf("AttendancePercentage = %v, want %v", stats.AttendancePercentage, tt.wantPct)
			}
			if stats.AttendancePercentage < 0 || stats.AttendancePercentage > 100 {
				t.Errorf("AttendancePercentage out of bounds: %v", stats.AttendancePercentage)
			}
		})
	}
}

// 学生口径的课次分母用该生自己的点名记录去重，全班口径用全部记录去重。
// 点名稀疏时两边的课次数会不同，这个用例钉住该行为
func TestStudentVsCourseSessionDenominator(t *testing.T) {
	attendance := &fakeAttendanceReader{
		sessionDates:        10, // 全班口径：10个去重日期
		studentSessionDates: 6,  // 该生只有6天被点到名
		present:             40,
		studentPresent:      5,
	}
	virtual := &fakeVirtualReader{}
	enrollment := &fakeEnrollmentReader{enrollments: make([]model.Enrollment, 5)}

	svc := NewAttendanceService(attendance, virtual, enrollment)

	student, err := svc.StudentStats(1, 2, 3)
	if err != nil {
		t.Fatalf("StudentStats returned error: %v", err)
	}
	course, err := svc.CourseStats(2, 3)
	if err != nil {
		t.Fatalf("CourseStats returned error: %v", err)
	}

	if student.TotalClasses != 6 {
		t.Errorf("student TotalClasses = %d, want 6", student.TotalClasses)
	}
	if course.TotalClasses != 10 {
		t.Errorf("course TotalClasses = %d, want 10", course.TotalClasses)
	}

	// 全班分母 = 在读5人 × 10课次 = 50
	if course.AbsentCount != 50-40 {
		t.Errorf("course AbsentCount = %d, want 10", course.AbsentCount)
	}
	if !almostEqual(course.AttendancePercentage, 80) {
		t.Errorf("course AttendancePercentage = %v, want 80", course.AttendancePercentage)
	}
}

func TestAttendancePercentageZeroDenominator(t *testing.T) {
	if pct := attendancePercentage(0, 0); pct != 0 {
		t.Errorf("attendancePercentage(0,0) = %v, want 0", pct)
	}
	if pct := attendancePercentage(3, 1); !almostEqual(pct, 75) {
		t.Errorf("attendancePercentage(3,1) = %v, want 75", pct)
	}
}
