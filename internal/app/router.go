package app

import (
	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:      cfg.ServiceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthHandler:      handlers.Auth,
		AuthMiddleware:   middleware.Auth,
		UserHandler:      handlers.User,
		StudentHandler:   handlers.Student,
		ClassroomHandler: handlers.Classroom,
		SubjectHandler:   handlers.Subject,
		ActivityHandler:  handlers.Activity,
		ProgressHandler:  handlers.Progress,
	})
}
