package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type SubjectService interface {
	CreateSubject(ctx context.Context, subject *types.Subject) (*types.Subject, error)
	ListSubjects(ctx context.Context) ([]*types.Subject, error)
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
}

func NewSubjectService(db *gorm.DB, baseLog *logger.Logger, subjectRepo repos.SubjectRepo) SubjectService {
	return &subjectService{
		db:          db,
		log:         baseLog.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
	}
}

func (s *subjectService) CreateSubject(ctx context.Context, subject *types.Subject) (*types.Subject, error) {
	if subject == nil {
		return nil, fmt.Errorf("subject is required")
	}
	subject.Name = strings.TrimSpace(subject.Name)
	subject.Code = strings.ToUpper(strings.TrimSpace(subject.Code))
	if subject.Name == "" || subject.Code == "" {
		return nil, fmt.Errorf("subject name and code are required")
	}
	created, err := s.subjectRepo.Create(ctx, nil, []*types.Subject{subject})
	if err != nil {
		s.log.Error("failed to create subject", "code", subject.Code, "error", err)
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return created[0], nil
}

func (s *subjectService) ListSubjects(ctx context.Context) ([]*types.Subject, error) {
	return s.subjectRepo.List(ctx, nil)
}
