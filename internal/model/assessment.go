package model

import "time"

// Assessment 课程作业/测评，总分由讲师自定，不要求统一满分
// swagger:model Assessment
type Assessment struct {
	BaseModel
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	SemesterID  uint      `gorm:"index;not null" json:"semesterId"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TotalMarks  float64   `gorm:"not null" json:"totalMarks"`
	DueDate     time.Time `json:"dueDate"`
	IsPublished bool      `gorm:"default:false" json:"isPublished"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// AssessmentSubmission Marks在批改前为空，聚合时只统计已批改的
// swagger:model AssessmentSubmission
type AssessmentSubmission struct {
	BaseModel
	StudentID    uint       `gorm:"index:idx_submission_student;not null" json:"studentId"`
	AssessmentID uint       `gorm:"index:idx_submission_student;not null" json:"assessmentId"`
	Marks        *float64   `json:"marks,omitempty"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	IsGraded     bool       `gorm:"default:false" json:"isGraded"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`

	Assessment *Assessment `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
}

func (AssessmentSubmission) TableName() string {
	return "assessment_submissions"
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID   uint    `gorm:"index;not null" json:"courseId"`
	SemesterID uint    `gorm:"index;not null" json:"semesterId"`
	Title      string  `gorm:"size:255;not null" json:"title"`
	TotalMarks float64 `gorm:"not null" json:"totalMarks"`
	TimeLimit  int     `gorm:"default:0" json:"timeLimit"` // 分钟
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuizAttemptStatus string

const (
	AttemptInProgress QuizAttemptStatus = "in_progress"
	AttemptSubmitted  QuizAttemptStatus = "submitted"
	AttemptCompleted  QuizAttemptStatus = "completed"
)

// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	StudentID   uint              `gorm:"index:idx_attempt_student;not null" json:"studentId"`
	QuizID      uint              `gorm:"index:idx_attempt_student;not null" json:"quizId"`
	Score       *float64          `json:"score,omitempty"`
	Status      QuizAttemptStatus `gorm:"type:enum('in_progress','submitted','completed');default:'in_progress'" json:"status"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`

	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
