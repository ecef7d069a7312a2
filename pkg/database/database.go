package database

import (
	"fmt"
	"log"

	"github.com/wmz5616/XIAORUI/internal/config"
	"github.com/wmz5616/XIAORUI/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

// Migrate 建表。测试环境用 sqlite 复用同一份迁移。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Homework{},
		&model.Question{},
		&model.StudentAnswer{},
		&model.KnowledgeNode{},
		&model.KnowledgeEdge{},
		&model.MasteryRecord{},
		&model.Notification{},
		&model.DiagnosticAttempt{},
		&model.SystemConfig{},
	)
}

// seedDefaults 初始化管理端默认配置
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.SystemConfig{}).Where("`key` = ?", "ai_threshold").Count(&count)
	if count == 0 {
		db.Create(&model.SystemConfig{
			Key:         "ai_threshold",
			Value:       "0.6",
			Description: "作业判分的及格线（得分率）",
		})
	}
}
