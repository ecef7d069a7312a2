package repository

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/util"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) FindByID(id uint) (*model.StudentAnswer, error) {
	var ans model.StudentAnswer
	err := r.DB.First(&ans, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ans, nil
}

func (r *AnswerRepository) FindByStudentAndQuestion(studentID, questionID uint) (*model.StudentAnswer, error) {
	var ans model.StudentAnswer
	err := r.DB.Where("student_id = ? AND question_id = ?", studentID, questionID).First(&ans).Error
	if err != nil {
		return nil, err
	}
	return &ans, nil
}

// UpsertBatch 以 (student_id, question_id) 为键整批写入，单事务提交，
// 避免读者看到半批状态。
func (r *AnswerRepository) UpsertBatch(answers []model.StudentAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			a := &answers[i]

			var existing model.StudentAnswer
			err := tx.Where("student_id = ? AND question_id = ?", a.StudentID, a.QuestionID).
				First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(a).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			existing.AnswerContent = a.AnswerContent
			existing.Score = a.Score
			existing.TeacherComment = a.TeacherComment
			existing.SubmittedAt = a.SubmittedAt
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			a.ID = existing.ID
		}
		return nil
	})
}

func (r *AnswerRepository) Update(ans *model.StudentAnswer) error {
	return r.DB.Save(ans).Error
}

// ListPendingReview 等待教师批改的主观题作答
func (r *AnswerRepository) ListPendingReview() ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.DB.
		Joins("JOIN questions ON questions.id = student_answers.question_id").
		Where("student_answers.score IS NULL AND questions.type = ?", model.QuestionText).
		Order("student_answers.submitted_at asc").
		Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) ListByStudent(studentID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.DB.Where("student_id = ?", studentID).Order("submitted_at desc").Find(&answers).Error
	return answers, err
}
