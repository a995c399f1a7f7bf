package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName       string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName        string         `gorm:"column:last_name;not null" json:"last_name"`
	AdmissionNumber string         `gorm:"column:admission_number;not null;uniqueIndex" json:"admission_number"`
	DateOfBirth     *time.Time     `gorm:"column:date_of_birth;type:date" json:"date_of_birth,omitempty"`
	GuardianEmail   string         `gorm:"column:guardian_email" json:"guardian_email,omitempty"`
	Active          bool           `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "students" }
