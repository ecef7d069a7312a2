package model

// Notification 站内通知。由批改完成与教师提醒产生，
// 只允许“标记已读”这一种变更。
// swagger:model
type Notification struct {
	BaseModel
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Content string `gorm:"size:500;not null" json:"content"`
	IsRead  bool   `gorm:"default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
