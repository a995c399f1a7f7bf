package app

import (
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Student          repos.StudentRepo
	Classroom        repos.ClassroomRepo
	Enrollment       repos.EnrollmentRepo
	Subject          repos.SubjectRepo
	ActivityRecord   repos.ActivityRecordRepo
	ProgressSnapshot repos.ProgressSnapshotRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Student:          repos.NewStudentRepo(db, log),
		Classroom:        repos.NewClassroomRepo(db, log),
		Enrollment:       repos.NewEnrollmentRepo(db, log),
		Subject:          repos.NewSubjectRepo(db, log),
		ActivityRecord:   repos.NewActivityRecordRepo(db, log),
		ProgressSnapshot: repos.NewProgressSnapshotRepo(db, log),
	}
}
