package model

import "time"

// 学校 → 院系 → 专业 → 课程 的多租户层级

// swagger:model School
type School struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
}

func (School) TableName() string {
	return "schools"
}

// swagger:model Department
type Department struct {
	BaseModel
	SchoolID uint   `gorm:"index;not null" json:"schoolId"`
	Name     string `gorm:"size:255;not null" json:"name"`
}

func (Department) TableName() string {
	return "departments"
}

// swagger:model Program
type Program struct {
	BaseModel
	DepartmentID  uint   `gorm:"index;not null" json:"departmentId"`
	Name          string `gorm:"size:255;not null" json:"name"`
	DurationYears int    `gorm:"default:4" json:"durationYears"`
}

func (Program) TableName() string {
	return "programs"
}

// swagger:model Course
type Course struct {
	BaseModel
	ProgramID   uint   `gorm:"index;not null" json:"programId"`
	Code        string `gorm:"size:20;not null" json:"code"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CreditHours int    `gorm:"default:3" json:"creditHours"`
	Level       int    `gorm:"default:1" json:"level"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Semester
type Semester struct {
	BaseModel
	Name         string    `gorm:"size:50;not null" json:"name"`
	AcademicYear string    `gorm:"size:20;not null" json:"academicYear"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `gorm:"default:false" json:"isActive"`
}

func (Semester) TableName() string {
	return "semesters"
}

type EnrollmentStatus string

const (
	Enrolled           EnrollmentStatus = "enrolled"
	Dropped            EnrollmentStatus = "dropped"
	CompletedEnrolment EnrollmentStatus = "completed"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID  uint             `gorm:"index:idx_enrollment_key,unique;not null" json:"studentId"`
	CourseID   uint             `gorm:"index:idx_enrollment_key,unique;not null" json:"courseId"`
	SemesterID uint             `gorm:"index:idx_enrollment_key,unique;not null" json:"semesterId"`
	Status     EnrollmentStatus `gorm:"type:enum('enrolled','dropped','completed');default:'enrolled'" json:"status"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
