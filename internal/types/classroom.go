package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Classroom struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	GradeLevel   int            `gorm:"column:grade_level;not null" json:"grade_level"`
	AcademicYear string         `gorm:"column:academic_year;not null" json:"academic_year"`
	HomeroomID   *uuid.UUID     `gorm:"type:uuid;column:homeroom_id" json:"homeroom_id,omitempty"`
	Homeroom     *User          `gorm:"foreignKey:HomeroomID;references:ID" json:"homeroom,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Classroom) TableName() string { return "classrooms" }
