package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/util"
	"github.com/wmz5616/XIAORUI/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GradingService 作业判分引擎：客观题即时判分，主观题进入待批改队列，
// 教师批改后补分并通知学生。
type GradingService struct {
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
	MasteryRepo  *repository.MasteryRepository
	GraphRepo    *repository.KnowledgeGraphRepository
	UserRepo     *repository.UserRepository
	ConfigRepo   *repository.SystemConfigRepository
	DB           *gorm.DB
}

func NewGradingService(
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	masteryRepo *repository.MasteryRepository,
	graphRepo *repository.KnowledgeGraphRepository,
	userRepo *repository.UserRepository,
	configRepo *repository.SystemConfigRepository,
	db *gorm.DB,
) *GradingService {
	return &GradingService{
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		MasteryRepo:  masteryRepo,
		GraphRepo:    graphRepo,
		UserRepo:     userRepo,
		ConfigRepo:   configRepo,
		DB:           db,
	}
}

type AnswerSubmission struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

// GradingResult 一次提交的聚合结果。
// 含主观题时 Passed 为空：完整的通过判定要等人工批改。
type GradingResult struct {
	AutoScore        int    `json:"autoScore"`
	MaxPossibleScore int    `json:"maxPossibleScore"`
	RequiresReview   bool   `json:"requiresReview"`
	Passed           *bool  `json:"passed,omitempty"`
	Message          string `json:"message"`
}

// passThreshold 及格线，管理端可通过 system_configs 调整
func (s *GradingService) passThreshold() float64 {
	raw, err := s.ConfigRepo.GetValue("ai_threshold", "")
	if err == nil && raw != "" {
		if v, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil && v > 0 && v <= 1 {
			return v
		}
	}
	return util.DefaultPassThreshold
}

// SubmitHomework 判分入口。
//
// 题目集合：指定了作业则取该作业的题，否则取整个课程的题；
// 空题集在任何写入之前失败。批次里未知的 question_id 静默跳过。
// 所有作答记录整批落库，外部看不到半批状态。
func (s *GradingService) SubmitHomework(studentID, courseID uint, homeworkID *uint, submissions []AnswerSubmission) (*GradingResult, error) {
	var questions []model.Question
	var err error
	if homeworkID != nil {
		questions, err = s.QuestionRepo.ListByHomework(*homeworkID)
	} else {
		questions, err = s.QuestionRepo.ListByCourse(courseID)
	}
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	questionMap := make(map[uint]*model.Question, len(questions))
	requiresReview := false
	for i := range questions {
		questionMap[questions[i].ID] = &questions[i]
		if questions[i].Type == model.QuestionText {
			requiresReview = true
		}
	}

	now := time.Now()
	autoScore := 0
	answers := make([]model.StudentAnswer, 0, len(submissions))

	for _, sub := range submissions {
		q, ok := questionMap[sub.QuestionID]
		if !ok {
			// 批次内的陌生题目 ID 不是错误，跳过即可
			continue
		}

		record := model.StudentAnswer{
			StudentID:     studentID,
			QuestionID:    q.ID,
			AnswerContent: sub.Answer,
			SubmittedAt:   now,
		}

		switch q.Type {
		case model.QuestionChoice:
			score := 0
			if strings.TrimSpace(sub.Answer) == strings.TrimSpace(q.CorrectAnswer) {
				score = util.PointsPerQuestion
			}
			record.Score = &score
			autoScore += score
		case model.QuestionText:
			// 主观题：分数置空等待批改，重复提交清掉旧评语
			record.Score = nil
			record.TeacherComment = ""
		}

		answers = append(answers, record)
	}

	if err := s.AnswerRepo.UpsertBatch(answers); err != nil {
		return nil, err
	}

	result := &GradingResult{
		AutoScore:        autoScore,
		MaxPossibleScore: util.PointsPerQuestion * len(questions),
		RequiresReview:   requiresReview,
	}

	if requiresReview {
		result.Message = "客观题已自动判分，主观题等待教师批改"
		return result, nil
	}

	passed := float64(autoScore)/float64(result.MaxPossibleScore) >= s.passThreshold()
	result.Passed = &passed
	if passed {
		result.Message = "通过！知识点已点亮，学习时长已累积"
		if err := s.applyPassSideEffects(studentID, courseID); err != nil {
			// 判分结果已定，掌握度更新失败只记日志
			logger.Log.Error("failed to apply pass side effects",
				zap.Uint("studentId", studentID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
		}
	} else {
		result.Message = "未通过，请回顾课程内容"
	}

	return result, nil
}

// applyPassSideEffects 整卷通过后点亮课程全部知识点并累积学习时长。
// 单事务提交。
func (s *GradingService) applyPassSideEffects(studentID, courseID uint) error {
	nodes, err := s.GraphRepo.ListNodesByCourse(courseID)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, node := range nodes {
			if err := s.MasteryRepo.UpsertNodeMastery(tx, studentID, node.ID, 1.0, "mastered"); err != nil {
				return err
			}
		}
		return tx.Model(&model.User{}).
			Where("id = ?", studentID).
			UpdateColumn("learn_time", gorm.Expr("learn_time + ?", 30)).Error
	})
}

type ManualGradeRequest struct {
	Score   int    `json:"score" binding:"min=0"`
	Comment string `json:"comment"`
}

// GradeSubmission 教师批改：写分、写评语，并给学生发且只发一条通知。
func (s *GradingService) GradeSubmission(submissionID uint, req ManualGradeRequest) (*model.StudentAnswer, error) {
	ans, err := s.AnswerRepo.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	question, err := s.QuestionRepo.FindByID(ans.QuestionID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ans.Score = &req.Score
		ans.TeacherComment = req.Comment
		if err := tx.Save(ans).Error; err != nil {
			return err
		}

		content := fmt.Sprintf("作业《%s》已批改：%d 分", truncateRunes(question.Content, util.QuestionPreviewRunes), req.Score)
		if req.Comment != "" {
			content += "，评语：" + req.Comment
		}
		return tx.Create(&model.Notification{
			UserID:  ans.StudentID,
			Content: content,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return ans, nil
}

// ListPendingReview 待批改的主观题作答
func (s *GradingService) ListPendingReview() ([]model.StudentAnswer, error) {
	return s.AnswerRepo.ListPendingReview()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
