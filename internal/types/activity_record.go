package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay, AttendanceExcused:
		return true
	default:
		return false
	}
}

// CountsPresent reports whether the status counts toward the attendance rate.
// Late arrivals still count as attended days.
func (s AttendanceStatus) CountsPresent() bool {
	return s == AttendancePresent || s == AttendanceLate
}

type HomeworkStatus string

const (
	HomeworkComplete HomeworkStatus = "complete"
	HomeworkPartial  HomeworkStatus = "partial"
	HomeworkNotDone  HomeworkStatus = "not_done"
)

func (s HomeworkStatus) Valid() bool {
	switch s {
	case HomeworkComplete, HomeworkPartial, HomeworkNotDone:
		return true
	default:
		return false
	}
}

// Recognized skill keys for the per-day skills snapshot.
const (
	SkillReading          = "reading"
	SkillWriting          = "writing"
	SkillListening        = "listening"
	SkillSpeaking         = "speaking"
	SkillCriticalThinking = "critical_thinking"
)

var RecognizedSkills = []string{
	SkillReading,
	SkillWriting,
	SkillListening,
	SkillSpeaking,
	SkillCriticalThinking,
}

type SubjectStudy struct {
	SubjectID          uuid.UUID `json:"subject_id"`
	UnderstandingLevel int       `json:"understanding_level"`
}

type HomeworkItem struct {
	SubjectID        uuid.UUID      `json:"subject_id"`
	DueDate          *time.Time     `json:"due_date,omitempty"`
	CompletionStatus HomeworkStatus `json:"completion_status"`
	Quality          *int           `json:"quality,omitempty"`
}

type AssessmentResult struct {
	SubjectID     uuid.UUID `json:"subject_id"`
	MarksObtained float64   `json:"marks_obtained"`
	TotalMarks    float64   `json:"total_marks"`
}

// ActivityRecord is one calendar day of observed activity for a student.
// At most one row exists per student per date.
type ActivityRecord struct {
	ID                 uuid.UUID                             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID          uuid.UUID                             `gorm:"type:uuid;not null;index:idx_student_date,unique" json:"student_id"`
	Student            *Student                              `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Date               time.Time                             `gorm:"column:date;type:date;not null;index:idx_student_date,unique" json:"date"`
	AttendanceStatus   AttendanceStatus                      `gorm:"column:attendance_status;not null" json:"attendance_status"`
	TotalHoursSpent    float64                               `gorm:"column:total_hours_spent;not null;default:0" json:"total_hours_spent"`
	SubjectsStudied    datatypes.JSONSlice[SubjectStudy]     `gorm:"type:jsonb;column:subjects_studied" json:"subjects_studied,omitempty"`
	HomeworkAssigned   datatypes.JSONSlice[HomeworkItem]     `gorm:"type:jsonb;column:homework_assigned" json:"homework_assigned,omitempty"`
	HomeworkCompleted  datatypes.JSONSlice[HomeworkItem]     `gorm:"type:jsonb;column:homework_completed" json:"homework_completed,omitempty"`
	AssessmentsTaken   datatypes.JSONSlice[AssessmentResult] `gorm:"type:jsonb;column:assessments_taken" json:"assessments_taken,omitempty"`
	BehaviorRating     int                                   `gorm:"column:behavior_rating;not null;default:0" json:"behavior_rating"`
	ParticipationLevel int                                   `gorm:"column:participation_level;not null;default:0" json:"participation_level"`
	DisciplineScore    int                                   `gorm:"column:discipline_score;not null;default:0" json:"discipline_score"`
	Punctuality        bool                                  `gorm:"column:punctuality;not null;default:false" json:"punctuality"`
	SkillsSnapshot     datatypes.JSONType[map[string]int]    `gorm:"type:jsonb;column:skills_snapshot" json:"skills_snapshot,omitempty"`
	CreatedAt          time.Time                             `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time                             `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt                        `gorm:"index" json:"deleted_at,omitempty"`
}

func (ActivityRecord) TableName() string { return "activity_records" }
