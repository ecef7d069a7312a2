package app

import (
	"github.com/wmz5616/XIAORUI/docs"
	"github.com/wmz5616/XIAORUI/internal/config"
	"github.com/wmz5616/XIAORUI/internal/middleware"
	"github.com/wmz5616/XIAORUI/internal/model"
	"github.com/wmz5616/XIAORUI/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/student/courses", c.quiz.ListCourses)

	quiz := rg.Group("/quiz")
	{
		quiz.GET("/homeworks/:homeworkId/questions", c.quiz.GetHomeworkQuestions)
		quiz.POST("/homeworks/:homeworkId/submit", c.quiz.SubmitHomework)
	}

	aiEngine := rg.Group("/ai-engine")
	{
		aiEngine.POST("/diagnostic/start", c.aiEngine.StartDiagnostic)
		aiEngine.POST("/diagnostic/:attemptId/submit", c.aiEngine.SubmitDiagnostic)
		aiEngine.POST("/learning-path", c.aiEngine.GenerateLearningPath)
		aiEngine.GET("/knowledge-graph/:courseId", c.aiEngine.GetKnowledgeGraph)
	}

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", c.notification.List)
		notifications.GET("/unread-count", c.notification.UnreadCount)
		notifications.PATCH("/:id/read", c.notification.MarkRead)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/class-monitor", c.teacher.ClassMonitor)
		teacher.GET("/submissions/pending", c.teacher.ListPendingSubmissions)
		teacher.POST("/submissions/:id/grade", c.teacher.GradeSubmission)
		teacher.POST("/students/:id/remind", c.teacher.RemindStudent)

		teacher.GET("/courses", c.teacher.ListMyCourses)
		teacher.POST("/courses", c.teacher.CreateCourse)
		teacher.GET("/courses/:courseId/nodes", c.teacher.ListCourseNodes)
		teacher.POST("/nodes", c.teacher.CreateNode)
		teacher.POST("/edges", c.teacher.CreateEdge)
		teacher.POST("/homeworks", c.teacher.CreateHomework)
		teacher.POST("/questions", c.teacher.CreateQuestion)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/stats", c.admin.Stats)
		admin.GET("/users", c.admin.ListUsers)
		admin.GET("/ai-config", c.admin.GetAIConfig)
		admin.POST("/ai-config", c.admin.SetAIConfig)
	}
}
