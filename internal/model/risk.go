package model

import (
	"time"

	"gorm.io/datatypes"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AtRiskRecord 同一(学生,课程,学期)最多一条未解除记录；已解除的保留为历史
// swagger:model AtRiskRecord
type AtRiskRecord struct {
	UUIDBase
	StudentID          uint           `gorm:"index:idx_risk_key;not null" json:"studentId"`
	CourseID           uint           `gorm:"index:idx_risk_key;not null" json:"courseId"`
	SemesterID         uint           `gorm:"index:idx_risk_key;not null" json:"semesterId"`
	RiskScore          float64        `gorm:"default:0" json:"riskScore"`
	RiskLevel          RiskLevel      `gorm:"type:enum('low','medium','high','critical');default:'low'" json:"riskLevel"`
	RiskFactors        datatypes.JSON `gorm:"type:json" json:"riskFactors"` // 有序字符串列表
	RecommendedActions datatypes.JSON `gorm:"type:json" json:"recommendedActions"`
	IsResolved         bool           `gorm:"index;default:false" json:"isResolved"`
	ResolvedAt         *time.Time     `json:"resolvedAt,omitempty"`
	ResolutionNotes    string         `gorm:"type:text" json:"resolutionNotes"`
	LastUpdated        time.Time      `gorm:"not null" json:"lastUpdated"`
}

func (AtRiskRecord) TableName() string {
	return "at_risk_records"
}

// ClassifyRisk 风险分无上限，分档只看累计值
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score > 30:
		return RiskCritical
	case score > 20:
		return RiskHigh
	case score > 10:
		return RiskMedium
	default:
		return RiskLow
	}
}
