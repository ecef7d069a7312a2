package service

import (
	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
)

// 节点展示尺寸：weight 的单调函数
const (
	nodeSizeScale = 20.0
	nodeSizeBase  = 30.0
)

// 渲染分类下标，前端按此着色
const (
	categoryMastered    = 0
	categoryNotMastered = 1
)

// KnowledgeGraphService 课程知识图谱的维护与按学生着色渲染。
type KnowledgeGraphService struct {
	GraphRepo   *repository.KnowledgeGraphRepository
	MasteryRepo *repository.MasteryRepository
	CourseRepo  *repository.CourseRepository
}

func NewKnowledgeGraphService(
	graphRepo *repository.KnowledgeGraphRepository,
	masteryRepo *repository.MasteryRepository,
	courseRepo *repository.CourseRepository,
) *KnowledgeGraphService {
	return &KnowledgeGraphService{
		GraphRepo:   graphRepo,
		MasteryRepo: masteryRepo,
		CourseRepo:  courseRepo,
	}
}

type GraphNodeView struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	SymbolSize float64 `json:"symbolSize"`
	Category   int     `json:"category"`
	Value      float64 `json:"value"`
}

type GraphEdgeView struct {
	Source       uint   `json:"source"`
	Target       uint   `json:"target"`
	RelationType string `json:"relationType"`
}

type GraphCategory struct {
	Name string `json:"name"`
}

type GraphView struct {
	Nodes      []GraphNodeView `json:"nodes"`
	Links      []GraphEdgeView `json:"links"`
	Categories []GraphCategory `json:"categories"`
}

// RenderCourseGraph 渲染某课程的图谱并按学生掌握度着色。
// 边集只保留两端都在本课程节点内的边；没有记录的节点视为未掌握。
func (s *KnowledgeGraphService) RenderCourseGraph(courseID, studentID uint) (*GraphView, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, err
	}

	nodes, err := s.GraphRepo.ListNodesByCourse(courseID)
	if err != nil {
		return nil, err
	}

	nodeIDs := make([]uint, len(nodes))
	for i, n := range nodes {
		nodeIDs[i] = n.ID
	}

	edges, err := s.GraphRepo.ListEdgesAmong(nodeIDs)
	if err != nil {
		return nil, err
	}

	records, err := s.MasteryRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	masteredNodes := make(map[uint]bool, len(records))
	for _, r := range records {
		if r.TopicType == model.TopicNode && r.KnowledgeNodeID != nil && r.IsMastered() {
			masteredNodes[*r.KnowledgeNodeID] = true
		}
	}

	view := &GraphView{
		Nodes: make([]GraphNodeView, 0, len(nodes)),
		Links: make([]GraphEdgeView, 0, len(edges)),
		Categories: []GraphCategory{
			{Name: "已掌握"},
			{Name: "未掌握"},
		},
	}

	for _, n := range nodes {
		category := categoryNotMastered
		if masteredNodes[n.ID] {
			category = categoryMastered
		}
		view.Nodes = append(view.Nodes, GraphNodeView{
			ID:         n.ID,
			Name:       n.Label,
			SymbolSize: n.Weight*nodeSizeScale + nodeSizeBase,
			Category:   category,
			Value:      n.Weight,
		})
	}

	for _, e := range edges {
		view.Links = append(view.Links, GraphEdgeView{
			Source:       e.SourceID,
			Target:       e.TargetID,
			RelationType: e.RelationType,
		})
	}

	return view, nil
}

type NodeCreateRequest struct {
	CourseID    uint    `json:"courseId" binding:"required"`
	Label       string  `json:"label" binding:"required"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

func (s *KnowledgeGraphService) AddNode(req NodeCreateRequest) (*model.KnowledgeNode, error) {
	if _, err := s.CourseRepo.FindByID(req.CourseID); err != nil {
		return nil, err
	}

	weight := req.Weight
	if weight <= 0 {
		weight = 1.0
	}

	node := &model.KnowledgeNode{
		CourseID:    req.CourseID,
		Label:       req.Label,
		Description: req.Description,
		Weight:      weight,
	}
	if err := s.GraphRepo.CreateNode(node); err != nil {
		return nil, err
	}
	return node, nil
}

type EdgeCreateRequest struct {
	SourceID     uint   `json:"sourceId" binding:"required"`
	TargetID     uint   `json:"targetId" binding:"required"`
	RelationType string `json:"relationType"`
}

// AddEdge 建边不做环检测，图按一般有向图对待。
func (s *KnowledgeGraphService) AddEdge(req EdgeCreateRequest) (*model.KnowledgeEdge, error) {
	relation := req.RelationType
	if relation == "" {
		relation = "prerequisite"
	}

	edge := &model.KnowledgeEdge{
		SourceID:     req.SourceID,
		TargetID:     req.TargetID,
		RelationType: relation,
	}
	if err := s.GraphRepo.CreateEdge(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *KnowledgeGraphService) ListCourseNodes(courseID uint) ([]model.KnowledgeNode, error) {
	return s.GraphRepo.ListNodesByCourse(courseID)
}
