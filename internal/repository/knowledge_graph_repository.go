package repository

import (
	"github.com/wmz5616/XIAORUI/internal/model"

	"gorm.io/gorm"
)

type KnowledgeGraphRepository struct {
	DB *gorm.DB
}

func NewKnowledgeGraphRepository(db *gorm.DB) *KnowledgeGraphRepository {
	return &KnowledgeGraphRepository{DB: db}
}

func (r *KnowledgeGraphRepository) CreateNode(node *model.KnowledgeNode) error {
	return r.DB.Create(node).Error
}

func (r *KnowledgeGraphRepository) CreateEdge(edge *model.KnowledgeEdge) error {
	return r.DB.Create(edge).Error
}

func (r *KnowledgeGraphRepository) ListNodesByCourse(courseID uint) ([]model.KnowledgeNode, error) {
	var nodes []model.KnowledgeNode
	err := r.DB.Where("course_id = ?", courseID).Order("id asc").Find(&nodes).Error
	return nodes, err
}

func (r *KnowledgeGraphRepository) FindNodesByIDs(ids []uint) ([]model.KnowledgeNode, error) {
	var nodes []model.KnowledgeNode
	if len(ids) == 0 {
		return nodes, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&nodes).Error
	return nodes, err
}

// ListEdgesAmong 仅返回两端都落在给定节点集合内的边，
// 跨课程的边在这里被过滤掉。
func (r *KnowledgeGraphRepository) ListEdgesAmong(nodeIDs []uint) ([]model.KnowledgeEdge, error) {
	var edges []model.KnowledgeEdge
	if len(nodeIDs) == 0 {
		return edges, nil
	}
	err := r.DB.Where("source_id IN ? AND target_id IN ?", nodeIDs, nodeIDs).Find(&edges).Error
	return edges, err
}
