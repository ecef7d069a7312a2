package service

import (
	"encoding/json"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
)

// CourseService 课程、作业与题库的维护，以及学生侧的取题视图。
type CourseService struct {
	CourseRepo   *repository.CourseRepository
	QuestionRepo *repository.QuestionRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, questionRepo *repository.QuestionRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, QuestionRepo: questionRepo}
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *CourseService) CreateCourse(teacherID uint, req CourseCreateRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   teacherID,
		Status:      model.CoursePublished,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListPublished() ([]model.Course, error) {
	return s.CourseRepo.ListPublished()
}

func (s *CourseService) ListByTeacher(teacherID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByTeacher(teacherID)
}

type HomeworkCreateRequest struct {
	CourseID    uint   `json:"courseId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *CourseService) CreateHomework(req HomeworkCreateRequest) (*model.Homework, error) {
	if _, err := s.CourseRepo.FindByID(req.CourseID); err != nil {
		return nil, err
	}

	hw := &model.Homework{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.CourseRepo.CreateHomework(hw); err != nil {
		return nil, err
	}
	return hw, nil
}

func (s *CourseService) ListHomeworks(courseID uint) ([]model.Homework, error) {
	return s.CourseRepo.ListHomeworks(courseID)
}

func (s *CourseService) FindHomework(homeworkID uint) (*model.Homework, error) {
	return s.CourseRepo.FindHomeworkByID(homeworkID)
}

type QuestionCreateRequest struct {
	CourseID      uint               `json:"courseId" binding:"required"`
	HomeworkID    *uint              `json:"homeworkId"`
	Content       string             `json:"content" binding:"required"`
	Type          model.QuestionType `json:"type" binding:"required"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
}

func (s *CourseService) CreateQuestion(req QuestionCreateRequest) (*model.Question, error) {
	if _, err := s.CourseRepo.FindByID(req.CourseID); err != nil {
		return nil, err
	}
	if req.HomeworkID != nil {
		if _, err := s.CourseRepo.FindHomeworkByID(*req.HomeworkID); err != nil {
			return nil, err
		}
	}

	var options json.RawMessage
	if req.Type == model.QuestionChoice {
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		options = raw
	}

	q := &model.Question{
		CourseID:      req.CourseID,
		HomeworkID:    req.HomeworkID,
		Content:       req.Content,
		Type:          req.Type,
		Options:       options,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

// StudentQuestionView 学生取题视图，不携带正确答案
type StudentQuestionView struct {
	ID       uint               `json:"id"`
	Content  string             `json:"content"`
	Type     model.QuestionType `json:"type"`
	Options  json.RawMessage    `json:"options,omitempty"`
	Homework *uint              `json:"homeworkId,omitempty"`
}

func (s *CourseService) ListHomeworkQuestions(homeworkID uint) ([]StudentQuestionView, error) {
	if _, err := s.CourseRepo.FindHomeworkByID(homeworkID); err != nil {
		return nil, err
	}

	qs, err := s.QuestionRepo.ListByHomework(homeworkID)
	if err != nil {
		return nil, err
	}
	return toStudentViews(qs), nil
}

func (s *CourseService) ListCourseQuestions(courseID uint) ([]StudentQuestionView, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, err
	}

	qs, err := s.QuestionRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	return toStudentViews(qs), nil
}

func toStudentViews(qs []model.Question) []StudentQuestionView {
	views := make([]StudentQuestionView, len(qs))
	for i, q := range qs {
		views[i] = StudentQuestionView{
			ID:       q.ID,
			Content:  q.Content,
			Type:     q.Type,
			Options:  q.Options,
			Homework: q.HomeworkID,
		}
	}
	return views
}
