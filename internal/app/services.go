package app

import (
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/clients/redis"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Student   services.StudentService
	Classroom services.ClassroomService
	Subject   services.SubjectService
	Activity  services.ActivityService
	Progress  services.ProgressService
	Notifier  services.RiskNotifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, cache redis.SnapshotCache) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(
			db, log,
			r.User, r.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		User:      services.NewUserService(db, log, r.User),
		Student:   services.NewStudentService(db, log, r.Student, r.ProgressSnapshot, cache),
		Classroom: services.NewClassroomService(db, log, r.Classroom, r.Enrollment, r.Student),
		Subject:   services.NewSubjectService(db, log, r.Subject),
		Activity:  services.NewActivityService(db, log, r.ActivityRecord, r.Student, cache),
		Progress: services.NewProgressService(
			db, log,
			r.ActivityRecord, r.ProgressSnapshot, r.Enrollment, r.Subject,
			cache, cfg.BulkConcurrency,
		),
		Notifier: services.NewLogRiskNotifier(log),
	}
}
