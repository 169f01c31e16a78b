package app

import (
	"github.com/KumaloWilson/learnsmart-sub000/docs"
	"github.com/KumaloWilson/learnsmart-sub000/internal/config"
	"github.com/KumaloWilson/learnsmart-sub000/internal/middleware"
	"github.com/KumaloWilson/learnsmart-sub000/internal/model"
	"github.com/KumaloWilson/learnsmart-sub000/pkg/monitoring"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		a.registerAnalyticsRoutes(authGroup, c)
		a.registerAcademicRoutes(authGroup, c)
		a.registerRecordRoutes(authGroup, c)

		// 通知：每个登录用户只能操作自己的
		authGroup.GET("/notifications", c.notification.List)
		authGroup.POST("/notifications/:id/read", c.notification.MarkRead)
	}
}

func (a *App) registerAnalyticsRoutes(rg *gin.RouterGroup, c *controllers) {
	lecturerOnly := middleware.RoleMiddleware(model.Lecturer, model.Admin)

	analytics := rg.Group("/analytics")
	{
		// 学生可读自己的综合表现，控制器内再校验归属
		analytics.GET("/performance/:studentId/courses/:courseId/semesters/:semesterId", c.analytics.GetStudentPerformance)

		// 重算与班级级接口仅限讲师/管理员
		analytics.POST("/performance/:studentId/courses/:courseId/semesters/:semesterId", lecturerOnly, c.analytics.ScoreStudent)
		analytics.GET("/classes/:courseId/semesters/:semesterId", lecturerOnly, c.analytics.GetClassAnalysis)
		analytics.GET("/attendance/:studentId/courses/:courseId/semesters/:semesterId", c.analytics.GetStudentAttendance)
		analytics.GET("/attendance/courses/:courseId/semesters/:semesterId", lecturerOnly, c.analytics.GetCourseAttendance)
		analytics.GET("/assignments/:studentId/courses/:courseId/semesters/:semesterId", c.analytics.GetAssignmentPerformance)
		analytics.GET("/quizzes/:studentId/courses/:courseId/semesters/:semesterId", c.analytics.GetQuizPerformance)
	}

	performance := rg.Group("/performance")
	performance.Use(lecturerOnly)
	{
		performance.GET("", c.performance.List)
		performance.GET("/:id", c.performance.Get)
		performance.PUT("/:id", c.performance.Update)
		performance.DELETE("/:id", middleware.RoleMiddleware(model.Admin), c.performance.Delete)
	}

	risk := rg.Group("/risk")
	risk.Use(lecturerOnly)
	{
		risk.POST("/identify/:courseId/semesters/:semesterId", c.risk.Identify)
		risk.GET("", c.risk.List)
		risk.GET("/:id", c.risk.Get)
		risk.POST("/:id/resolve", c.risk.Resolve)
		risk.PUT("/:id", c.risk.Update)
		risk.DELETE("/:id", middleware.RoleMiddleware(model.Admin), c.risk.Delete)
	}
}

func (a *App) registerAcademicRoutes(rg *gin.RouterGroup, c *controllers) {
	adminOnly := middleware.RoleMiddleware(model.Admin)

	courses := rg.Group("/courses")
	{
		courses.GET("", c.academic.ListCourses)
		courses.GET("/:id", c.academic.GetCourse)
		courses.POST("", adminOnly, c.academic.CreateCourse)
		courses.PUT("/:id", adminOnly, c.academic.UpdateCourse)
		courses.DELETE("/:id", adminOnly, c.academic.DeleteCourse)
	}

	semesters := rg.Group("/semesters")
	{
		semesters.GET("", c.academic.ListSemesters)
		semesters.GET("/active", c.academic.GetActiveSemester)
		semesters.POST("", adminOnly, c.academic.CreateSemester)
		semesters.PUT("/:id", adminOnly, c.academic.UpdateSemester)
		semesters.DELETE("/:id", adminOnly, c.academic.DeleteSemester)
	}

	enrollments := rg.Group("/enrollments")
	{
		enrollments.GET("/mine", c.academic.MyEnrollments)
		enrollments.GET("/courses/:courseId/semesters/:semesterId", middleware.RoleMiddleware(model.Lecturer, model.Admin), c.academic.ListEnrollments)
		enrollments.POST("", adminOnly, c.academic.Enroll)
		enrollments.PUT("/:id/status", adminOnly, c.academic.UpdateEnrollmentStatus)
		enrollments.DELETE("/:id", adminOnly, c.academic.DeleteEnrollment)
	}
}

func (a *App) registerRecordRoutes(rg *gin.RouterGroup, c *controllers) {
	lecturerOnly := middleware.RoleMiddleware(model.Lecturer, model.Admin)

	records := rg.Group("/records")
	{
		records.POST("/attendance", lecturerOnly, c.record.RecordAttendance)
		records.GET("/attendance/:studentId/courses/:courseId/semesters/:semesterId", c.record.ListStudentAttendance)

		records.POST("/virtual-classes", lecturerOnly, c.record.ScheduleVirtualClass)
		records.PUT("/virtual-classes/:id/status", lecturerOnly, c.record.UpdateVirtualClassStatus)
		records.POST("/virtual-attendance", lecturerOnly, c.record.RecordVirtualAttendance)

		records.POST("/submissions", c.record.SubmitAssessment)
		records.PUT("/submissions/:id/grade", lecturerOnly, c.record.GradeSubmission)

		records.POST("/quiz-attempts", c.record.StartQuizAttempt)
		records.PUT("/quiz-attempts/:id/complete", lecturerOnly, c.record.CompleteQuizAttempt)
	}
}
