package app

import (
	"github.com/classtrack/classtrack-backend/internal/handlers"
	"github.com/classtrack/classtrack-backend/internal/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Student   *handlers.StudentHandler
	Classroom *handlers.ClassroomHandler
	Subject   *handlers.SubjectHandler
	Activity  *handlers.ActivityHandler
	Progress  *handlers.ProgressHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(s.Auth),
		User:      handlers.NewUserHandler(s.User),
		Student:   handlers.NewStudentHandler(s.Student),
		Classroom: handlers.NewClassroomHandler(s.Classroom),
		Subject:   handlers.NewSubjectHandler(s.Subject),
		Activity:  handlers.NewActivityHandler(s.Activity),
		Progress:  handlers.NewProgressHandler(s.Progress, s.Notifier),
	}
}
