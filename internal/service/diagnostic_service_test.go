package service

import (
	"encoding/json"
	"testing"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeReasoner 固定返回预置数据的推理客户端
type fakeReasoner struct {
	quiz []model.DiagnosticQuestion
	weak []string
}

func (f *fakeReasoner) GenerateDiagnosticQuiz(grade int, subject string) []model.DiagnosticQuestion {
	return f.quiz
}

func (f *fakeReasoner) AnalyzeWeakness(wrongAnswers []WrongAnswer) []string {
	return f.weak
}

func twoQuestionQuiz() []model.DiagnosticQuestion {
	return []model.DiagnosticQuestion{
		{Content: "1/2 + 1/3 = ?", Options: []string{"5/6", "2/5", "1/6"}, CorrectIndex: 0, KnowledgePoint: "分式运算"},
		{Content: "x^2 - 1 的因式分解", Options: []string{"(x-1)^2", "(x+1)(x-1)"}, CorrectIndex: 1, KnowledgePoint: "因式分解"},
	}
}

func newDiagnosticService(db *gorm.DB, ai ReasoningClient) *DiagnosticService {
	return NewDiagnosticService(
		repository.NewDiagnosticRepository(db),
		repository.NewMasteryRepository(db),
		ai,
	)
}

func TestStartAttemptGeneratesQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz()})

	attempt, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)

	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, model.DiagnosticQuestionsReady, attempt.Status)

	var questions []model.DiagnosticQuestion
	require.NoError(t, json.Unmarshal(attempt.Questions, &questions))
	assert.Len(t, questions, 2)
}

func TestSubmitAnswersAllCorrect(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz(), weak: []string{"不应被调用"}})

	attempt, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)

	report, err := svc.SubmitAnswers(1, attempt.ID, []int{0, 1})
	require.NoError(t, err)

	assert.Equal(t, 2, report.CorrectCount)
	assert.Equal(t, 2, report.TotalCount)
	// 全对不触发薄弱点分析，也不落库
	assert.Empty(t, report.WeakPoints)

	var count int64
	db.Model(&model.MasteryRecord{}).Count(&count)
	assert.Zero(t, count)

	refreshed, err := svc.Repo.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DiagnosticAnalyzed, refreshed.Status)
}

func TestSubmitAnswersRecordsWeakPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz(), weak: []string{"Fraction Ops"}})

	attempt, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)

	report, err := svc.SubmitAnswers(1, attempt.ID, []int{1, 1})
	require.NoError(t, err)

	assert.Equal(t, 1, report.CorrectCount)
	assert.Equal(t, []string{"Fraction Ops"}, report.WeakPoints)

	var records []model.MasteryRecord
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.TopicTag, records[0].TopicType)
	assert.Equal(t, "fraction ops", records[0].TopicTag) // 规范化后的去重键
	assert.Equal(t, "diagnostic: Fraction Ops", records[0].Status)
	assert.Equal(t, util.DiagnosticSeedMastery, records[0].MasteryLevel)
}

func TestSubmitAnswersDedupPerDay(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz(), weak: []string{"分式运算"}})

	first, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)
	_, err = svc.SubmitAnswers(1, first.ID, []int{1, 0})
	require.NoError(t, err)

	second, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)
	report, err := svc.SubmitAnswers(1, second.ID, []int{1, 0})
	require.NoError(t, err)

	// 当天已有的标签仍出现在报告里，但不再重复入库
	assert.Equal(t, []string{"分式运算"}, report.WeakPoints)

	var count int64
	db.Model(&model.MasteryRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitAnswersMissingAnswerCountsWrong(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz(), weak: []string{"因式分解"}})

	attempt, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)

	report, err := svc.SubmitAnswers(1, attempt.ID, []int{0})
	require.NoError(t, err)

	assert.Equal(t, 1, report.CorrectCount)
	assert.Equal(t, 2, report.TotalCount)
}

func TestSubmitAnswersWrongStudent(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz()})

	attempt, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)

	_, err = svc.SubmitAnswers(2, attempt.ID, []int{0, 1})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSubmitAnswersTwice(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{quiz: twoQuestionQuiz()})

	attempt, err := svc.StartAttempt(1, 8, "数学")
	require.NoError(t, err)

	_, err = svc.SubmitAnswers(1, attempt.ID, []int{0, 1})
	require.NoError(t, err)

	_, err = svc.SubmitAnswers(1, attempt.ID, []int{0, 1})
	assert.ErrorIs(t, err, util.ErrAttemptFinished)
}

func TestSubmitAnswersUnknownAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{})

	_, err := svc.SubmitAnswers(1, "no-such-id", []int{0})
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestRecordWeakPointsNormalizesAndDedupes(t *testing.T) {
	db := newTestDB(t)
	svc := newDiagnosticService(db, &fakeReasoner{})

	created, err := svc.RecordWeakPoints(1, []string{" Fraction  Ops ", "fraction ops", "", "FRACTION OPS"})
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, "fraction ops", created[0].TopicTag)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "fraction ops", NormalizeLabel("  Fraction   OPS "))
	assert.Equal(t, "分式运算", NormalizeLabel("分式运算"))
	assert.Equal(t, "", NormalizeLabel("   "))
}
