package model

import "time"

// AttendanceRecord 线下点名记录，每名学生每次课一行
// swagger:model AttendanceRecord
type AttendanceRecord struct {
	BaseModel
	StudentID  uint      `gorm:"index:idx_attendance_session;not null" json:"studentId"`
	CourseID   uint      `gorm:"index:idx_attendance_session;not null" json:"courseId"`
	SemesterID uint      `gorm:"index:idx_attendance_session;not null" json:"semesterId"`
	Date       time.Time `gorm:"index:idx_attendance_session;type:date;not null" json:"date"`
	IsPresent  bool      `gorm:"default:false" json:"isPresent"`
	RecordedBy uint      `json:"recordedBy"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

type VirtualClassStatus string

const (
	VirtualScheduled  VirtualClassStatus = "scheduled"
	VirtualInProgress VirtualClassStatus = "in_progress"
	VirtualCompleted  VirtualClassStatus = "completed"
	VirtualCancelled  VirtualClassStatus = "cancelled"
)

// VirtualClass 线上课。会议链接由外部系统生成，这里只存引用
// swagger:model VirtualClass
type VirtualClass struct {
	BaseModel
	CourseID       uint               `gorm:"index;not null" json:"courseId"`
	SemesterID     uint               `gorm:"index;not null" json:"semesterId"`
	Title          string             `gorm:"size:255;not null" json:"title"`
	ScheduledStart time.Time          `json:"scheduledStart"`
	ScheduledEnd   time.Time          `json:"scheduledEnd"`
	Status         VirtualClassStatus `gorm:"type:enum('scheduled','in_progress','completed','cancelled');default:'scheduled'" json:"status"`
	MeetingLink    string             `gorm:"size:512" json:"meetingLink"`
}

func (VirtualClass) TableName() string {
	return "virtual_classes"
}

// swagger:model VirtualAttendanceRecord
type VirtualAttendanceRecord struct {
	BaseModel
	StudentID      uint       `gorm:"index;not null" json:"studentId"`
	VirtualClassID uint       `gorm:"index;not null" json:"virtualClassId"`
	JoinTime       time.Time  `json:"joinTime"`
	LeaveTime      *time.Time `json:"leaveTime,omitempty"`
	IsPresent      bool       `gorm:"default:false" json:"isPresent"`

	VirtualClass *VirtualClass `gorm:"foreignKey:VirtualClassID" json:"virtualClass,omitempty"`
}

func (VirtualAttendanceRecord) TableName() string {
	return "virtual_attendance_records"
}
