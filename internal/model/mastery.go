package model

import "time"

// CourseMastery 学习进度快照，由课程进度模块维护，分析引擎只读
// swagger:model CourseMastery
type CourseMastery struct {
	BaseModel
	StudentID                 uint      `gorm:"index:idx_mastery_key,unique;not null" json:"studentId"`
	CourseID                  uint      `gorm:"index:idx_mastery_key,unique;not null" json:"courseId"`
	SemesterID                uint      `gorm:"index:idx_mastery_key,unique;not null" json:"semesterId"`
	MasteryLevel              float64   `gorm:"default:0" json:"masteryLevel"`
	QuizAverage               float64   `gorm:"default:0" json:"quizAverage"`
	AssignmentAverage         float64   `gorm:"default:0" json:"assignmentAverage"`
	TopicCompletionPercentage float64   `gorm:"default:0" json:"topicCompletionPercentage"`
	LastCalculated            time.Time `json:"lastCalculated"`
}

func (CourseMastery) TableName() string {
	return "course_masteries"
}
