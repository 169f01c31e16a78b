package model

// Notification 引擎只负责落库，推送由外部通知网关消费
// swagger:model Notification
type Notification struct {
	UUIDBase
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Message     string `gorm:"type:text" json:"message"`
	Type        string `gorm:"size:50" json:"type"`
	RelatedID   string `gorm:"size:36" json:"relatedId"`
	RelatedType string `gorm:"size:50" json:"relatedType"`
	IsRead      bool   `gorm:"default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
