package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	classMonitorCacheKey = "analytics:class_monitor"
	classMonitorCacheTTL = 60 * time.Second

	// 风险判定阈值：薄弱点超过 2 个或进度低于 30 即标记 Risk
	riskWeakPointLimit = 2
	riskProgressFloor  = 30

	progressPerMastered = 5
	weakLabelMaxRunes   = 24
)

// AnalyticsService 面向教师/管理端的学情聚合。
type AnalyticsService struct {
	MasteryRepo *repository.MasteryRepository
	UserRepo    *repository.UserRepository
	CourseRepo  *repository.CourseRepository
	GraphRepo   *repository.KnowledgeGraphRepository
	Redis       *redis.Client
}

func NewAnalyticsService(
	masteryRepo *repository.MasteryRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	graphRepo *repository.KnowledgeGraphRepository,
	rdb *redis.Client,
) *AnalyticsService {
	return &AnalyticsService{
		MasteryRepo: masteryRepo,
		UserRepo:    userRepo,
		CourseRepo:  courseRepo,
		GraphRepo:   graphRepo,
		Redis:       rdb,
	}
}

// ClassMonitorRow 班级学情的一行：一个学生的进度、风险与薄弱点
type ClassMonitorRow struct {
	StudentID  uint     `json:"id"`
	Name       string   `json:"name"`
	Progress   int      `json:"progress"`
	Status     string   `json:"status"` // Risk / Normal
	WeakPoints []string `json:"weakPoints"`
}

// ClassMonitor 按花名册聚合全部掌握度记录。
// 没有任何记录的学生也会出现（进度 0、薄弱点为空）。
func (s *AnalyticsService) ClassMonitor() ([]ClassMonitorRow, error) {
	if cached := s.readCache(); cached != nil {
		return cached, nil
	}

	students, err := s.UserRepo.ListStudents()
	if err != nil {
		return nil, err
	}

	records, err := s.MasteryRepo.ListAll()
	if err != nil {
		return nil, err
	}

	nodeLabels, err := s.nodeLabelIndex(records)
	if err != nil {
		return nil, err
	}

	byStudent := lo.GroupBy(records, func(r model.MasteryRecord) uint {
		return r.StudentID
	})

	rows := make([]ClassMonitorRow, 0, len(students))
	for _, student := range students {
		rows = append(rows, s.buildRow(&student, byStudent[student.ID], nodeLabels))
	}

	s.writeCache(rows)
	return rows, nil
}

func (s *AnalyticsService) buildRow(student *model.User, records []model.MasteryRecord, nodeLabels map[uint]string) ClassMonitorRow {
	progress := 0
	weakLabels := make([]string, 0)

	for _, r := range records {
		if r.IsMastered() {
			progress += progressPerMastered
		}
		if r.IsWeak() {
			weakLabels = append(weakLabels, weakPointLabel(&r, nodeLabels))
		}
	}
	if progress > 100 {
		progress = 100
	}

	// 大小写不敏感去重，保留首次出现的写法
	weakLabels = lo.UniqBy(weakLabels, strings.ToLower)

	status := "Normal"
	if len(weakLabels) > riskWeakPointLimit || progress < riskProgressFloor {
		status = "Risk"
	}

	return ClassMonitorRow{
		StudentID:  student.ID,
		Name:       student.Name,
		Progress:   progress,
		Status:     status,
		WeakPoints: weakLabels,
	}
}

// weakPointLabel 推导薄弱点的展示文本：节点记录用节点名
// （节点已删则用占位符），标签记录剥掉诊断前缀。
func weakPointLabel(r *model.MasteryRecord, nodeLabels map[uint]string) string {
	var label string
	switch {
	case r.TopicType == model.TopicNode && r.KnowledgeNodeID != nil:
		if name, ok := nodeLabels[*r.KnowledgeNodeID]; ok {
			label = name
		} else {
			label = fmt.Sprintf("未知节点(%d)", *r.KnowledgeNodeID)
		}
	case strings.HasPrefix(r.Status, model.DiagnosticStatusPrefix):
		label = strings.TrimPrefix(r.Status, model.DiagnosticStatusPrefix)
	default:
		label = r.TopicTag
	}

	runes := []rune(label)
	if len(runes) > weakLabelMaxRunes {
		label = string(runes[:weakLabelMaxRunes])
	}
	return label
}

func (s *AnalyticsService) nodeLabelIndex(records []model.MasteryRecord) (map[uint]string, error) {
	nodeIDs := make([]uint, 0, len(records))
	for _, r := range records {
		if r.TopicType == model.TopicNode && r.KnowledgeNodeID != nil {
			nodeIDs = append(nodeIDs, *r.KnowledgeNodeID)
		}
	}

	nodes, err := s.GraphRepo.FindNodesByIDs(lo.Uniq(nodeIDs))
	if err != nil {
		return nil, err
	}

	index := make(map[uint]string, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n.Label
	}
	return index, nil
}

func (s *AnalyticsService) readCache() []ClassMonitorRow {
	if s.Redis == nil {
		return nil
	}
	raw, err := s.Redis.Get(context.Background(), classMonitorCacheKey).Result()
	if err != nil {
		return nil
	}
	var rows []ClassMonitorRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil
	}
	return rows
}

func (s *AnalyticsService) writeCache(rows []ClassMonitorRow) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), classMonitorCacheKey, raw, classMonitorCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache class monitor", zap.Error(err))
	}
}

// AdminStats 管理端总览
type AdminStats struct {
	UserCount      int64 `json:"userCount"`
	CourseCount    int64 `json:"courseCount"`
	ActiveStudents int64 `json:"activeStudents"`
}

func (s *AnalyticsService) Stats() (*AdminStats, error) {
	userCount, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	courseCount, err := s.CourseRepo.Count()
	if err != nil {
		return nil, err
	}

	records, err := s.MasteryRepo.ListAll()
	if err != nil {
		return nil, err
	}
	active := lo.UniqBy(records, func(r model.MasteryRecord) uint { return r.StudentID })

	return &AdminStats{
		UserCount:      userCount,
		CourseCount:    courseCount,
		ActiveStudents: int64(len(active)),
	}, nil
}
