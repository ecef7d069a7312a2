package repository

import (
	"github.com/wmz5616/XIAORUI/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByHomework(homeworkID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("homework_id = ?", homeworkID).Order("id asc").Find(&qs).Error
	return qs, err
}

// ListByCourse 课程下的全部题目，含未挂作业的散题。
func (r *QuestionRepository) ListByCourse(courseID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("course_id = ?", courseID).Order("id asc").Find(&qs).Error
	return qs, err
}
