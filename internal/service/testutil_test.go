package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/pkg/database"
	"github.com/wmz5616/XIAORUI/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 每个测试一个独立的内存库，复用生产迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Name: username, Role: model.Student}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, title string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, TeacherID: 1, Status: model.CoursePublished}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedNode(t *testing.T, db *gorm.DB, courseID uint, label string, weight float64) *model.KnowledgeNode {
	t.Helper()
	n := &model.KnowledgeNode{CourseID: courseID, Label: label, Weight: weight}
	require.NoError(t, db.Create(n).Error)
	return n
}

func seedChoiceQuestion(t *testing.T, db *gorm.DB, courseID uint, homeworkID *uint, content, answer string) *model.Question {
	t.Helper()
	options, _ := json.Marshal([]string{"A", "B", "C", "D"})
	q := &model.Question{
		CourseID:      courseID,
		HomeworkID:    homeworkID,
		Content:       content,
		Type:          model.QuestionChoice,
		Options:       options,
		CorrectAnswer: answer,
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func seedTextQuestion(t *testing.T, db *gorm.DB, courseID uint, homeworkID *uint, content string) *model.Question {
	t.Helper()
	q := &model.Question{
		CourseID:   courseID,
		HomeworkID: homeworkID,
		Content:    content,
		Type:       model.QuestionText,
	}
	require.NoError(t, db.Create(q).Error)
	return q
}
