package repository

import (
	"errors"
	"time"

	"github.com/wmz5616/XIAORUI/internal/model"

	"gorm.io/gorm"
)

type MasteryRepository struct {
	DB *gorm.DB
}

func NewMasteryRepository(db *gorm.DB) *MasteryRepository {
	return &MasteryRepository{DB: db}
}

func (r *MasteryRepository) ListAll() ([]model.MasteryRecord, error) {
	var records []model.MasteryRecord
	err := r.DB.Order("id asc").Find(&records).Error
	return records, err
}

func (r *MasteryRepository) ListByStudent(studentID uint) ([]model.MasteryRecord, error) {
	var records []model.MasteryRecord
	err := r.DB.Where("student_id = ?", studentID).Order("id asc").Find(&records).Error
	return records, err
}

func (r *MasteryRepository) FindByStudentAndNode(studentID, nodeID uint) (*model.MasteryRecord, error) {
	var record model.MasteryRecord
	err := r.DB.Where("student_id = ? AND knowledge_node_id = ? AND topic_type = ?",
		studentID, nodeID, model.TopicNode).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpsertNodeMastery (student, node) 维度的掌握度只保留一条权威记录。
func (r *MasteryRepository) UpsertNodeMastery(tx *gorm.DB, studentID, nodeID uint, level float64, status string) error {
	now := time.Now()

	var record model.MasteryRecord
	err := tx.Where("student_id = ? AND knowledge_node_id = ? AND topic_type = ?",
		studentID, nodeID, model.TopicNode).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.MasteryRecord{
			StudentID:       studentID,
			TopicType:       model.TopicNode,
			KnowledgeNodeID: &nodeID,
			MasteryLevel:    level,
			Status:          status,
			LastPracticeAt:  now,
			PracticeDate:    truncateToDay(now),
		}).Error
	}
	if err != nil {
		return err
	}

	record.MasteryLevel = level
	record.Status = status
	record.LastPracticeAt = now
	record.PracticeDate = truncateToDay(now)
	return tx.Save(&record).Error
}

// ExistsTagForDay 判断 (student, normalizedTag, day) 是否已有诊断记录。
// 显式复合键查询，不做 status 文本的子串匹配。
func (r *MasteryRepository) ExistsTagForDay(studentID uint, normalizedTag string, day time.Time) (bool, error) {
	var count int64
	err := r.DB.Model(&model.MasteryRecord{}).
		Where("student_id = ? AND topic_type = ? AND topic_tag = ? AND practice_date = ?",
			studentID, model.TopicTag, normalizedTag, truncateToDay(day)).
		Count(&count).Error
	return count > 0, err
}

// CreateBatch 单事务写入一批新记录
func (r *MasteryRepository) CreateBatch(records []model.MasteryRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
