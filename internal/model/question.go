package model

import (
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionChoice QuestionType = "choice" // 客观题：唯一正确答案，自动判分
	QuestionText   QuestionType = "text"   // 主观题：自由文本，等待教师批改
)

// swagger:model
type Question struct {
	BaseModel
	CourseID      uint            `gorm:"index;not null" json:"courseId"`
	HomeworkID    *uint           `gorm:"index" json:"homeworkId,omitempty"`
	Content       string          `gorm:"type:text;not null" json:"content"`
	Type          QuestionType    `gorm:"size:20;default:'choice'" json:"type"`
	Options       json.RawMessage `gorm:"type:json" json:"options"` // 选项数组 JSON，仅客观题使用
	CorrectAnswer string          `gorm:"type:text" json:"-"`       // 客观题按去除首尾空格后的字符串比对
}

func (Question) TableName() string {
	return "questions"
}

// StudentAnswer 学生对某道题的作答记录，(student_id, question_id) 唯一。
// Score 为空表示尚未判分；重复提交覆盖内容与时间，主观题同时清空分数。
// swagger:model
type StudentAnswer struct {
	BaseModel
	StudentID      uint      `gorm:"uniqueIndex:idx_student_question;not null" json:"studentId"`
	QuestionID     uint      `gorm:"uniqueIndex:idx_student_question;not null" json:"questionId"`
	AnswerContent  string    `gorm:"type:text" json:"answerContent"`
	Score          *int      `json:"score"`
	TeacherComment string    `gorm:"type:text" json:"teacherComment"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
