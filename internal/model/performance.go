package model

import (
	"time"

	"gorm.io/datatypes"
)

type PerformanceCategory string

const (
	CategoryExcellent    PerformanceCategory = "excellent"
	CategoryGood         PerformanceCategory = "good"
	CategoryAverage      PerformanceCategory = "average"
	CategoryBelowAverage PerformanceCategory = "below_average"
	CategoryPoor         PerformanceCategory = "poor"
)

// PerformanceRecord 每名学生每门课每学期一条，重算时原地更新
// swagger:model PerformanceRecord
type PerformanceRecord struct {
	UUIDBase
	StudentID            uint                `gorm:"index:idx_performance_key,unique;not null" json:"studentId"`
	CourseID             uint                `gorm:"index:idx_performance_key,unique;not null" json:"courseId"`
	SemesterID           uint                `gorm:"index:idx_performance_key,unique;not null" json:"semesterId"`
	AttendancePercentage float64             `gorm:"default:0" json:"attendancePercentage"`
	AssignmentAverage    float64             `gorm:"default:0" json:"assignmentAverage"`
	QuizAverage          float64             `gorm:"default:0" json:"quizAverage"`
	OverallPerformance   float64             `gorm:"default:0" json:"overallPerformance"`
	PerformanceCategory  PerformanceCategory `gorm:"type:enum('excellent','good','average','below_average','poor');default:'poor'" json:"performanceCategory"`
	Strengths            datatypes.JSON      `gorm:"type:json" json:"strengths"`
	Weaknesses           datatypes.JSON      `gorm:"type:json" json:"weaknesses"`
	Recommendations      datatypes.JSON      `gorm:"type:json" json:"recommendations"`
	AIAnalysis           datatypes.JSON      `gorm:"type:json" json:"aiAnalysis,omitempty"` // 外部生成的原文，不做结构化约束
	LastUpdated          time.Time           `gorm:"not null" json:"lastUpdated"`
}

func (PerformanceRecord) TableName() string {
	return "performance_records"
}

// CategorizePerformance 阈值自上而下取首个命中，下界闭区间
func CategorizePerformance(overall float64) PerformanceCategory {
	switch {
	case overall >= 90:
		return CategoryExcellent
	case overall >= 80:
		return CategoryGood
	case overall >= 70:
		return CategoryAverage
	case overall >= 60:
		return CategoryBelowAverage
	default:
		return CategoryPoor
	}
}
