package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// User 平台用户。账号注册与令牌签发由独立的身份服务负责，
// 本服务只消费已认证的身份并维护学习侧字段。
// swagger:model
type User struct {
	BaseModel
	Username   string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Name       string   `gorm:"size:100" json:"name"`
	Role       UserRole `gorm:"size:20;default:'student'" json:"role"`
	LearnTime  int      `gorm:"default:0" json:"learnTime"` // 累计学习时长（分钟）
	IsSilenced bool     `gorm:"default:false" json:"isSilenced"`
}

func (User) TableName() string {
	return "users"
}
