package model

import "time"

// TopicType 区分掌握度记录指向的是图谱节点还是自由文本标签。
type TopicType string

const (
	TopicNode TopicType = "node" // 绑定某个 KnowledgeNode
	TopicTag  TopicType = "tag"  // 诊断产生的自由标签，无对应节点
)

// 掌握度阈值：>=0.8 视为已掌握，<0.6 视为薄弱，中间区间不做状态承诺。
const (
	MasteryMastered = 0.8
	MasteryWeak     = 0.6
)

// 诊断记录在 status 中的展示前缀，如 "diagnostic: 指针"。
const DiagnosticStatusPrefix = "diagnostic: "

// MasteryRecord 学生在某个主题上的掌握度。
//
// TopicType 是判别字段：node 类记录以 (student_id, knowledge_node_id)
// 为准；tag 类记录以 (student_id, topic_tag, practice_date) 去重，
// topic_tag 存规范化（小写去空格）后的标签，practice_date 截断到日。
// swagger:model
type MasteryRecord struct {
	BaseModel
	StudentID       uint      `gorm:"index;not null" json:"studentId"`
	TopicType       TopicType `gorm:"size:10;not null;default:'node'" json:"topicType"`
	KnowledgeNodeID *uint     `gorm:"index" json:"knowledgeNodeId,omitempty"`
	TopicTag        string    `gorm:"size:255;index" json:"topicTag,omitempty"`
	PracticeDate    time.Time `gorm:"type:date;index" json:"-"`
	MasteryLevel    float64   `gorm:"default:0" json:"masteryLevel"` // [0,1]
	Status          string    `gorm:"size:255" json:"status"`
	LastPracticeAt  time.Time `json:"lastPracticeAt"`
}

func (MasteryRecord) TableName() string {
	return "mastery_records"
}

func (r *MasteryRecord) IsMastered() bool {
	return r.MasteryLevel >= MasteryMastered
}

func (r *MasteryRecord) IsWeak() bool {
	return r.MasteryLevel < MasteryWeak
}
