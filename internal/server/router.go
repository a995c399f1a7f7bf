package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/classtrack/classtrack-backend/internal/handlers"
	"github.com/classtrack/classtrack-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowedOrigins   []string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	UserHandler      *handlers.UserHandler
	StudentHandler   *handlers.StudentHandler
	ClassroomHandler *handlers.ClassroomHandler
	SubjectHandler   *handlers.SubjectHandler
	ActivityHandler  *handlers.ActivityHandler
	ProgressHandler  *handlers.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetCurrentUser)
	// Students
	protected.POST("/students", cfg.StudentHandler.Create)
	protected.GET("/students", cfg.StudentHandler.List)
	protected.GET("/students/:id", cfg.StudentHandler.Get)
	protected.PUT("/students/:id", cfg.StudentHandler.Update)
	protected.DELETE("/students/:id", cfg.StudentHandler.Deactivate)
	// Activity
	protected.POST("/students/:id/activity", cfg.ActivityHandler.RecordDay)
	protected.GET("/students/:id/activity", cfg.ActivityHandler.ListByStudent)
	// Progress
	protected.GET("/students/:id/progress", cfg.ProgressHandler.GetSnapshot)
	protected.POST("/students/:id/progress/recompute", cfg.ProgressHandler.Recompute)
	protected.GET("/progress/at-risk", cfg.ProgressHandler.ListAtRisk)
	// Classrooms
	protected.POST("/classrooms", cfg.ClassroomHandler.Create)
	protected.GET("/classrooms", cfg.ClassroomHandler.List)
	protected.GET("/classrooms/:id", cfg.ClassroomHandler.Get)
	protected.POST("/classrooms/:id/enrollments", cfg.ClassroomHandler.Enroll)
	protected.GET("/classrooms/:id/enrollments", cfg.ClassroomHandler.ListEnrollments)
	protected.PUT("/enrollments/:enrollmentId", cfg.ClassroomHandler.UpdateEnrollmentStatus)
	protected.POST("/classrooms/:id/progress/recompute", cfg.ProgressHandler.BulkRecompute)
	// Subjects
	protected.POST("/subjects", cfg.SubjectHandler.Create)
	protected.GET("/subjects", cfg.SubjectHandler.List)

	return router
}
