package controller

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/service"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/gin-gonic/gin"
)

// AIEngineController 智能引擎入口：诊断、学习路径、知识图谱渲染
type AIEngineController struct {
	Diagnostic   *service.DiagnosticService
	LearningPath *service.LearningPathService
	Graph        *service.KnowledgeGraphService
}

func NewAIEngineController(
	diagnostic *service.DiagnosticService,
	learningPath *service.LearningPathService,
	graph *service.KnowledgeGraphService,
) *AIEngineController {
	return &AIEngineController{
		Diagnostic:   diagnostic,
		LearningPath: learningPath,
		Graph:        graph,
	}
}

type startDiagnosticRequest struct {
	Grade   int    `json:"grade" binding:"required"`
	Subject string `json:"subject" binding:"required"`
}

// @Summary 发起一次学情诊断
// @Tags 智能引擎
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startDiagnosticRequest true "年级与科目"
// @Success 201 {object} util.Response
// @Router /api/ai-engine/diagnostic/start [post]
func (c *AIEngineController) StartDiagnostic(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startDiagnosticRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Diagnostic.StartAttempt(user.UserID, req.Grade, req.Subject)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}

type submitDiagnosticRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// @Summary 提交诊断作答并获取薄弱点分析
// @Tags 智能引擎
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "诊断ID"
// @Param body body submitDiagnosticRequest true "所选选项下标，按题目顺序"
// @Success 200 {object} util.Response
// @Router /api/ai-engine/diagnostic/{attemptId}/submit [post]
func (c *AIEngineController) SubmitDiagnostic(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitDiagnosticRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.Diagnostic.SubmitAnswers(user.UserID, ctx.Param("attemptId"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAttemptFinished):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, report)
}

// @Summary 生成个性化学习路径
// @Tags 智能引擎
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LearningPathRequest true "学生画像与薄弱科目"
// @Success 200 {object} util.Response
// @Router /api/ai-engine/learning-path [post]
func (c *AIEngineController) GenerateLearningPath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LearningPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LearningPath.GeneratePath(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取课程知识图谱（按当前学生掌握度着色）
// @Tags 智能引擎
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/ai-engine/knowledge-graph/{courseId} [get]
func (c *AIEngineController) GetKnowledgeGraph(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("courseId"))
	if courseID == 0 {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	view, err := c.Graph.RenderCourseGraph(courseID, user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
