package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive      EnrollmentStatus = "active"
	EnrollmentWithdrawn   EnrollmentStatus = "withdrawn"
	EnrollmentTransferred EnrollmentStatus = "transferred"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentWithdrawn, EnrollmentTransferred:
		return true
	default:
		return false
	}
}

type Enrollment struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_student_classroom,unique" json:"student_id"`
	Student     *Student         `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ClassroomID uuid.UUID        `gorm:"type:uuid;not null;index:idx_student_classroom,unique" json:"classroom_id"`
	Classroom   *Classroom       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassroomID;references:ID" json:"classroom,omitempty"`
	Status      EnrollmentStatus `gorm:"column:status;not null;default:'active'" json:"status"`
	EnrolledAt  time.Time        `gorm:"column:enrolled_at;not null;default:now()" json:"enrolled_at"`
	LeftAt      *time.Time       `gorm:"column:left_at" json:"left_at,omitempty"`
	CreatedAt   time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }
