package controller

import (
	"errors"

	"github.com/wmz5616/XIAORUI/internal/service"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/gin-gonic/gin"
)

// TeacherController 教师端：学情看板、批改、提醒与内容维护
type TeacherController struct {
	Analytics     *service.AnalyticsService
	Grading       *service.GradingService
	Notifications *service.NotificationService
	Courses       *service.CourseService
	Graph         *service.KnowledgeGraphService
}

func NewTeacherController(
	analytics *service.AnalyticsService,
	grading *service.GradingService,
	notifications *service.NotificationService,
	courses *service.CourseService,
	graph *service.KnowledgeGraphService,
) *TeacherController {
	return &TeacherController{
		Analytics:     analytics,
		Grading:       grading,
		Notifications: notifications,
		Courses:       courses,
		Graph:         graph,
	}
}

// @Summary 班级学情监控
// @Tags 教师端
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/class-monitor [get]
func (c *TeacherController) ClassMonitor(ctx *gin.Context) {
	rows, err := c.Analytics.ClassMonitor()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// @Summary 待批改的主观题列表
// @Tags 教师端
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions/pending [get]
func (c *TeacherController) ListPendingSubmissions(ctx *gin.Context) {
	list, err := c.Grading.ListPendingReview()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}

// @Summary 批改一条主观题提交
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "提交ID"
// @Param body body service.ManualGradeRequest true "分数与评语"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions/{id}/grade [post]
func (c *TeacherController) GradeSubmission(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var req service.ManualGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ans, err := c.Grading.GradeSubmission(id, req)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, ans)
}

type remindRequest struct {
	Content string `json:"content" binding:"required"`
}

// @Summary 提醒学生
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Param body body remindRequest true "提醒内容"
// @Success 201 {object} util.Response
// @Router /api/teacher/students/{id}/remind [post]
func (c *TeacherController) RemindStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	var req remindRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	n, err := c.Notifications.Remind(id, req.Content)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, n)
}

// @Summary 创建课程
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseCreateRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *TeacherController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Courses.CreateCourse(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary 我的课程列表
// @Tags 教师端
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/courses [get]
func (c *TeacherController) ListMyCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.Courses.ListByTeacher(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary 创建知识节点
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.NodeCreateRequest true "节点信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/nodes [post]
func (c *TeacherController) CreateNode(ctx *gin.Context) {
	var req service.NodeCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	node, err := c.Graph.AddNode(req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, node)
}

// @Summary 创建知识点关联边
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EdgeCreateRequest true "边信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/edges [post]
func (c *TeacherController) CreateEdge(ctx *gin.Context) {
	var req service.EdgeCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	edge, err := c.Graph.AddEdge(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, edge)
}

// @Summary 课程的知识节点列表
// @Tags 教师端
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{courseId}/nodes [get]
func (c *TeacherController) ListCourseNodes(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	if courseID == 0 {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	nodes, err := c.Graph.ListCourseNodes(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nodes)
}

// @Summary 创建作业
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.HomeworkCreateRequest true "作业信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/homeworks [post]
func (c *TeacherController) CreateHomework(ctx *gin.Context) {
	var req service.HomeworkCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	hw, err := c.Courses.CreateHomework(req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, hw)
}

// @Summary 创建题目
// @Tags 教师端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionCreateRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/questions [post]
func (c *TeacherController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Courses.CreateQuestion(req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, util.ErrHomeworkNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, q)
}
