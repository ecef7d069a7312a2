package service

import (
	"github.com/wmz5616/XIAORUI/pkg/logger"

	"go.uber.org/zap"
)

// PathGenerator 学习路径生成依赖的外部推理能力
type PathGenerator interface {
	GenerateLearningPath(profile StudentProfile, weakPoints []string) LearningPathResult
}

// LearningPathService 个性化学习路径：调外部推理服务生成建议，
// 同时把薄弱科目沉淀为诊断记录，供班级学情聚合。
type LearningPathService struct {
	AI         PathGenerator
	Diagnostic *DiagnosticService
}

func NewLearningPathService(ai PathGenerator, diagnostic *DiagnosticService) *LearningPathService {
	return &LearningPathService{AI: ai, Diagnostic: diagnostic}
}

type LearningPathRequest struct {
	Name         string   `json:"name" binding:"required"`
	Grade        int      `json:"grade" binding:"required"`
	WeakSubjects []string `json:"weakSubjects" binding:"required"`
}

func (s *LearningPathService) GeneratePath(studentID uint, req LearningPathRequest) (*LearningPathResult, error) {
	result := s.AI.GenerateLearningPath(StudentProfile{Name: req.Name, Grade: req.Grade}, req.WeakSubjects)

	// 首要薄弱科目沉淀为低掌握度记录，走与诊断相同的按日去重通道
	if len(req.WeakSubjects) > 0 {
		if _, err := s.Diagnostic.RecordWeakPoints(studentID, req.WeakSubjects[:1]); err != nil {
			logger.Log.Error("failed to record weak subject",
				zap.Uint("studentId", studentID),
				zap.Error(err))
			return nil, err
		}
	}

	return &result, nil
}
