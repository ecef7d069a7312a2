package model

import "encoding/json"

// 诊断测验的生命周期：requested → questions_ready → answered → analyzed。
type DiagnosticStatus string

const (
	DiagnosticRequested      DiagnosticStatus = "requested"
	DiagnosticQuestionsReady DiagnosticStatus = "questions_ready"
	DiagnosticAnswered       DiagnosticStatus = "answered"
	DiagnosticAnalyzed       DiagnosticStatus = "analyzed"
)

// DiagnosticQuestion AI 生成的诊断题。CorrectIndex 指向 Options 下标。
type DiagnosticQuestion struct {
	Content        string   `json:"content"`
	Options        []string `json:"options"`
	CorrectIndex   int      `json:"correct_index"`
	KnowledgePoint string   `json:"knowledge_point"`
}

// DiagnosticAttempt 一次完整的诊断流程：出题、作答、薄弱点分析。
// swagger:model
type DiagnosticAttempt struct {
	UUIDBase
	StudentID  uint             `gorm:"index;not null" json:"studentId"`
	Grade      int              `json:"grade"`
	Subject    string           `gorm:"size:100" json:"subject"`
	Status     DiagnosticStatus `gorm:"size:20;default:'requested'" json:"status"`
	Questions  json.RawMessage  `gorm:"type:json" json:"questions"`  // []DiagnosticQuestion
	WeakPoints json.RawMessage  `gorm:"type:json" json:"weakPoints"` // []string，分析完成后填充
}

func (DiagnosticAttempt) TableName() string {
	return "diagnostic_attempts"
}
