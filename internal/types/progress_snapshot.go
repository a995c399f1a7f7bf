package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// Severity orders risk levels for at-risk queries; higher is worse.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

type SubjectPerformance struct {
	SubjectID  uuid.UUID `json:"subject_id"`
	Name       string    `json:"name"`
	Percentage float64   `json:"percentage"`
	Trend      string    `json:"trend"`
}

// ProgressSnapshot is the single current derived-metrics row for one student,
// replaced wholesale on each recomputation.
type ProgressSnapshot struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`

	LastActivityDate *time.Time `gorm:"column:last_activity_date;type:date" json:"last_activity_date,omitempty"`

	CurrentAttendanceStreak int `gorm:"column:current_attendance_streak;not null;default:0" json:"current_attendance_streak"`
	LongestAttendanceStreak int `gorm:"column:longest_attendance_streak;not null;default:0" json:"longest_attendance_streak"`
	CurrentHomeworkStreak   int `gorm:"column:current_homework_streak;not null;default:0" json:"current_homework_streak"`

	DaysPresent           int     `gorm:"column:days_present;not null;default:0" json:"days_present"`
	DaysAbsent            int     `gorm:"column:days_absent;not null;default:0" json:"days_absent"`
	TotalHoursStudied     float64 `gorm:"column:total_hours_studied;not null;default:0" json:"total_hours_studied"`
	OverallAttendanceRate float64 `gorm:"column:overall_attendance_rate;not null;default:0" json:"overall_attendance_rate"`

	HomeworkCompletionRate float64 `gorm:"column:homework_completion_rate;not null;default:0" json:"homework_completion_rate"`
	AverageHomeworkQuality float64 `gorm:"column:average_homework_quality;not null;default:0" json:"average_homework_quality"`
	PendingHomeworkCount   int     `gorm:"column:pending_homework_count;not null;default:0" json:"pending_homework_count"`
	OverdueHomeworkCount   int     `gorm:"column:overdue_homework_count;not null;default:0" json:"overdue_homework_count"`

	AvgBehaviorRating     float64 `gorm:"column:avg_behavior_rating;not null;default:0" json:"avg_behavior_rating"`
	AvgParticipationLevel float64 `gorm:"column:avg_participation_level;not null;default:0" json:"avg_participation_level"`
	AvgDisciplineScore    float64 `gorm:"column:avg_discipline_score;not null;default:0" json:"avg_discipline_score"`
	PunctualityRate       float64 `gorm:"column:punctuality_rate;not null;default:0" json:"punctuality_rate"`

	ReadingLevel          float64 `gorm:"column:reading_level;not null;default:0" json:"reading_level"`
	WritingLevel          float64 `gorm:"column:writing_level;not null;default:0" json:"writing_level"`
	ListeningLevel        float64 `gorm:"column:listening_level;not null;default:0" json:"listening_level"`
	SpeakingLevel         float64 `gorm:"column:speaking_level;not null;default:0" json:"speaking_level"`
	CriticalThinkingLevel float64 `gorm:"column:critical_thinking_level;not null;default:0" json:"critical_thinking_level"`

	SubjectPerformance datatypes.JSONSlice[SubjectPerformance] `gorm:"type:jsonb;column:subject_performance" json:"subject_performance,omitempty"`
	StrongestSubjects  datatypes.JSONSlice[uuid.UUID]          `gorm:"type:jsonb;column:strongest_subjects" json:"strongest_subjects,omitempty"`
	WeakestSubjects    datatypes.JSONSlice[uuid.UUID]          `gorm:"type:jsonb;column:weakest_subjects" json:"weakest_subjects,omitempty"`

	RiskLevel            RiskLevel                    `gorm:"column:risk_level;not null;default:'low'" json:"risk_level"`
	NeedsAttention       bool                         `gorm:"column:needs_attention;not null;default:false" json:"needs_attention"`
	AttentionReasons     datatypes.JSONSlice[string]  `gorm:"type:jsonb;column:attention_reasons" json:"attention_reasons,omitempty"`
	InterventionRequired bool                         `gorm:"column:intervention_required;not null;default:false" json:"intervention_required"`

	LastCalculatedAt time.Time `gorm:"column:last_calculated_at;not null" json:"last_calculated_at"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProgressSnapshot) TableName() string { return "progress_snapshots" }
