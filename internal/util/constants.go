package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 通知类型
const (
	NotificationAtRisk       = "at_risk"
	NotificationRiskResolved = "risk_resolved"
	NotificationPerformance  = "performance"
)
