package controller

import (
	"strconv"

	"github.com/wmz5616/XIAORUI/internal/repository"
	"github.com/wmz5616/XIAORUI/internal/service"
	"github.com/wmz5616/XIAORUI/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 管理端：总览统计、用户列表、判分阈值配置
type AdminController struct {
	Analytics  *service.AnalyticsService
	UserRepo   *repository.UserRepository
	ConfigRepo *repository.SystemConfigRepository
}

func NewAdminController(
	analytics *service.AnalyticsService,
	userRepo *repository.UserRepository,
	configRepo *repository.SystemConfigRepository,
) *AdminController {
	return &AdminController{
		Analytics:  analytics,
		UserRepo:   userRepo,
		ConfigRepo: configRepo,
	}
}

// @Summary 平台总览统计
// @Tags 管理端
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.Analytics.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 用户列表（分页）
// @Tags 管理端
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，默认 1"
// @Param limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := c.UserRepo.ListPaged(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 获取判分阈值配置
// @Tags 管理端
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/ai-config [get]
func (c *AdminController) GetAIConfig(ctx *gin.Context) {
	threshold, err := c.ConfigRepo.GetValue("ai_threshold", "0.6")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"threshold": threshold})
}

type aiConfigRequest struct {
	Threshold float64 `json:"threshold" binding:"required,gt=0,lte=1"`
}

// @Summary 设置判分阈值配置
// @Tags 管理端
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body aiConfigRequest true "及格线，(0,1]"
// @Success 200 {object} util.Response
// @Router /api/admin/ai-config [post]
func (c *AdminController) SetAIConfig(ctx *gin.Context) {
	var req aiConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	value := strconv.FormatFloat(req.Threshold, 'f', -1, 64)
	if err := c.ConfigRepo.SetValue("ai_threshold", value, "作业判分及格线"); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"threshold": value})
}
