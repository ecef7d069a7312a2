package repository

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/model"

	"gorm.io/gorm"
)

type SystemConfigRepository struct {
	DB *gorm.DB
}

func NewSystemConfigRepository(db *gorm.DB) *SystemConfigRepository {
	return &SystemConfigRepository{DB: db}
}

// GetValue 读取配置项，缺失时返回默认值
func (r *SystemConfigRepository) GetValue(key, fallback string) (string, error) {
	var conf model.SystemConfig
	err := r.DB.Where("`key` = ?", key).First(&conf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return conf.Value, nil
}

func (r *SystemConfigRepository) SetValue(key, value, description string) error {
	var conf model.SystemConfig
	err := r.DB.Where("`key` = ?", key).First(&conf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(&model.SystemConfig{Key: key, Value: value, Description: description}).Error
	}
	if err != nil {
		return err
	}

	conf.Value = value
	if description != "" {
		conf.Description = description
	}
	return r.DB.Save(&conf).Error
}
