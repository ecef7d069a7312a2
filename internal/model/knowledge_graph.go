package model

// KnowledgeNode 课程知识图谱中的一个知识点。权重影响展示尺寸。
// swagger:model
type KnowledgeNode struct {
	BaseModel
	CourseID    uint    `gorm:"index;not null" json:"courseId"`
	Label       string  `gorm:"size:255;not null" json:"label"`
	Description string  `gorm:"type:text" json:"description"`
	Weight      float64 `gorm:"default:1.0" json:"weight"`
}

func (KnowledgeNode) TableName() string {
	return "knowledge_nodes"
}

// KnowledgeEdge 知识点之间的有向关系。图不保证无环，
// 消费方需按一般有向图处理。
// swagger:model
type KnowledgeEdge struct {
	BaseModel
	SourceID     uint   `gorm:"index;not null" json:"sourceId"`
	TargetID     uint   `gorm:"index;not null" json:"targetId"`
	RelationType string `gorm:"size:50;default:'prerequisite'" json:"relationType"`
}

func (KnowledgeEdge) TableName() string {
	return "knowledge_edges"
}
