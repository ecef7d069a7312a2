package controller

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/service"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 学生侧的取题与交卷入口
type QuizController struct {
	Courses *service.CourseService
	Grading *service.GradingService
}

func NewQuizController(courses *service.CourseService, grading *service.GradingService) *QuizController {
	return &QuizController{Courses: courses, Grading: grading}
}

// @Summary 获取作业题目列表
// @Tags 作业测验
// @Produce json
// @Security BearerAuth
// @Param homeworkId path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/homeworks/{homeworkId}/questions [get]
func (c *QuizController) GetHomeworkQuestions(ctx *gin.Context) {
	homeworkID := util.MustParseUint(ctx.Param("homeworkId"))
	if homeworkID == 0 {
		util.BadRequest(ctx, "invalid homework id")
		return
	}

	qs, err := c.Courses.ListHomeworkQuestions(homeworkID)
	if err != nil {
		if errors.Is(err, util.ErrHomeworkNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, qs)
}

type submitHomeworkRequest struct {
	Answers []service.AnswerSubmission `json:"answers" binding:"required"`
}

// @Summary 提交作业答案并判分
// @Tags 作业测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param homeworkId path int true "作业ID"
// @Param body body submitHomeworkRequest true "作答列表"
// @Success 200 {object} util.Response
// @Router /api/quiz/homeworks/{homeworkId}/submit [post]
func (c *QuizController) SubmitHomework(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	homeworkID := util.MustParseUint(ctx.Param("homeworkId"))
	if homeworkID == 0 {
		util.BadRequest(ctx, "invalid homework id")
		return
	}

	var req submitHomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	hw, err := c.Courses.FindHomework(homeworkID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	result, err := c.Grading.SubmitHomework(user.UserID, hw.CourseID, &hw.ID, req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrNoQuestions) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取已发布课程列表
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/courses [get]
func (c *QuizController) ListCourses(ctx *gin.Context) {
	courses, err := c.Courses.ListPublished()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}
