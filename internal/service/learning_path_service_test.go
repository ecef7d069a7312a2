package service

import (
	"testing"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePathGenerator struct {
	result LearningPathResult
}

func (f *fakePathGenerator) GenerateLearningPath(profile StudentProfile, weakPoints []string) LearningPathResult {
	return f.result
}

func TestGeneratePathRecordsFirstWeakSubject(t *testing.T) {
	db := newTestDB(t)
	diagnostic := newDiagnosticService(db, &fakeReasoner{})
	svc := NewLearningPathService(&fakePathGenerator{
		result: LearningPathResult{LogicReasoning: "ok", RecommendedSteps: []string{"step"}},
	}, diagnostic)

	result, err := svc.GeneratePath(1, LearningPathRequest{
		Name:         "张三",
		Grade:        8,
		WeakSubjects: []string{"数学", "物理"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.LogicReasoning)

	// 只沉淀首要薄弱科目
	var records []model.MasteryRecord
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "数学", records[0].TopicTag)
	assert.Equal(t, util.DiagnosticSeedMastery, records[0].MasteryLevel)
}

func TestGeneratePathNoWeakSubjects(t *testing.T) {
	db := newTestDB(t)
	diagnostic := newDiagnosticService(db, &fakeReasoner{})
	svc := NewLearningPathService(&fakePathGenerator{
		result: LearningPathResult{LogicReasoning: "ok"},
	}, diagnostic)

	_, err := svc.GeneratePath(1, LearningPathRequest{Name: "张三", Grade: 8})
	require.NoError(t, err)

	var count int64
	db.Model(&model.MasteryRecord{}).Count(&count)
	assert.Zero(t, count)
}
