package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/util"
	"github.com/wmz5616/XIAORUI/pkg/logger"

	"go.uber.org/zap"
)

// ReasoningClient 诊断流程依赖的外部推理能力。
// 实现方保证降级兜底，调用方不处理错误。
type ReasoningClient interface {
	GenerateDiagnosticQuiz(grade int, subject string) []model.DiagnosticQuestion
	AnalyzeWeakness(wrongAnswers []WrongAnswer) []string
}

// DiagnosticService 一次诊断的状态机：
// requested → questions_ready → answered → analyzed。
type DiagnosticService struct {
	Repo        *repository.DiagnosticRepository
	MasteryRepo *repository.MasteryRepository
	AI          ReasoningClient
}

func NewDiagnosticService(
	repo *repository.DiagnosticRepository,
	masteryRepo *repository.MasteryRepository,
	ai ReasoningClient,
) *DiagnosticService {
	return &DiagnosticService{Repo: repo, MasteryRepo: masteryRepo, AI: ai}
}

// StartAttempt 发起诊断并生成题目。AI 失败时落到兜底题，
// 流程永远推进到 questions_ready。
func (s *DiagnosticService) StartAttempt(studentID uint, grade int, subject string) (*model.DiagnosticAttempt, error) {
	attempt := &model.DiagnosticAttempt{
		StudentID: studentID,
		Grade:     grade,
		Subject:   subject,
		Status:    model.DiagnosticRequested,
	}
	if err := s.Repo.Create(attempt); err != nil {
		return nil, err
	}

	questions := s.AI.GenerateDiagnosticQuiz(grade, subject)
	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	attempt.Questions = raw
	attempt.Status = model.DiagnosticQuestionsReady
	if err := s.Repo.Update(attempt); err != nil {
		return nil, err
	}

	return attempt, nil
}

// DiagnosticReport 诊断作答的分析结果
type DiagnosticReport struct {
	AttemptID    string   `json:"attemptId"`
	CorrectCount int      `json:"correctCount"`
	TotalCount   int      `json:"totalCount"`
	WeakPoints   []string `json:"weakPoints"`
}

// SubmitAnswers 提交诊断作答并完成薄弱点分析。
// answers 按题目顺序给出所选选项下标，缺答视为答错。
// 返回的薄弱点包含当天已存在的标签（只是不再重复入库）。
func (s *DiagnosticService) SubmitAnswers(studentID uint, attemptID string, answers []int) (*DiagnosticReport, error) {
	attempt, err := s.Repo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status == model.DiagnosticAnalyzed {
		return nil, util.ErrAttemptFinished
	}

	var questions []model.DiagnosticQuestion
	if err := json.Unmarshal(attempt.Questions, &questions); err != nil {
		return nil, err
	}

	wrongAnswers := make([]WrongAnswer, 0, len(questions))
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectIndex {
			correct++
			continue
		}

		studentAnswer := ""
		if i < len(answers) && answers[i] >= 0 && answers[i] < len(q.Options) {
			studentAnswer = q.Options[answers[i]]
		}
		wrongAnswers = append(wrongAnswers, WrongAnswer{
			Question:       q.Content,
			StudentAnswer:  studentAnswer,
			CorrectAnswer:  q.Options[q.CorrectIndex],
			KnowledgePoint: q.KnowledgePoint,
		})
	}

	attempt.Status = model.DiagnosticAnswered
	if err := s.Repo.Update(attempt); err != nil {
		return nil, err
	}

	// 没有错题就没有薄弱点，不调用分析
	weakPoints := []string{}
	if len(wrongAnswers) > 0 {
		weakPoints = s.AI.AnalyzeWeakness(wrongAnswers)
		if _, err := s.RecordWeakPoints(studentID, weakPoints); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(weakPoints)
	if err != nil {
		return nil, err
	}
	attempt.WeakPoints = raw
	attempt.Status = model.DiagnosticAnalyzed
	if err := s.Repo.Update(attempt); err != nil {
		return nil, err
	}

	return &DiagnosticReport{
		AttemptID:    attempt.ID,
		CorrectCount: correct,
		TotalCount:   len(questions),
		WeakPoints:   weakPoints,
	}, nil
}

// RecordWeakPoints 把薄弱点标签落为低掌握度记录。
// 同一学生、同一规范化标签、同一自然日只插一条；整批单事务提交。
// 返回本次净新增的记录。
func (s *DiagnosticService) RecordWeakPoints(studentID uint, labels []string) ([]model.MasteryRecord, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	newRecords := make([]model.MasteryRecord, 0, len(labels))
	seen := make(map[string]bool, len(labels))

	for _, label := range labels {
		norm := NormalizeLabel(label)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true

		exists, err := s.MasteryRepo.ExistsTagForDay(studentID, norm, today)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.Log.Debug("weak point already recorded today",
				zap.Uint("studentId", studentID),
				zap.String("label", norm))
			continue
		}

		newRecords = append(newRecords, model.MasteryRecord{
			StudentID:      studentID,
			TopicType:      model.TopicTag,
			TopicTag:       norm,
			PracticeDate:   today,
			MasteryLevel:   util.DiagnosticSeedMastery,
			Status:         model.DiagnosticStatusPrefix + strings.TrimSpace(label),
			LastPracticeAt: now,
		})
	}

	if err := s.MasteryRepo.CreateBatch(newRecords); err != nil {
		return nil, err
	}

	return newRecords, nil
}

// NormalizeLabel 标签规范化：小写、去首尾空白、压缩内部空白。
// 去重键用它，展示文本保留原样。
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}
