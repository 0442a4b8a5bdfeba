package app

import (
	"quizzku_backend/internal/config"
	"quizzku_backend/internal/middleware"
	"quizzku_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程列表：允许游客访问，登录用户可看报名状态
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.ListCourses)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 个人资料
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/image", c.user.UploadProfileImage)

		// 课程与报名
		authGroup.GET("/courses/:slug", c.course.GetCourseDetail)
		authGroup.POST("/courses/:slug/enroll", c.course.Enroll)

		// 测验流程：进入 -> 提交 -> 查看成绩
		authGroup.GET("/courses/:slug/lesson", c.quiz.StartQuiz)
		authGroup.POST("/courses/:slug/lesson/submit", c.quiz.Submit)
		authGroup.GET("/courses/:slug/lesson/result", c.quiz.ShowResult)
	}
}
