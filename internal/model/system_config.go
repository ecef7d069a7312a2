package model

// SystemConfig 管理端可调的键值配置，如 AI 推荐阈值。
// swagger:model
type SystemConfig struct {
	BaseModel
	Key         string `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value       string `gorm:"size:255" json:"value"`
	Description string `gorm:"size:255" json:"description"`
}

func (SystemConfig) TableName() string {
	return "system_configs"
}
