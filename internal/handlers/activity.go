package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/services"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (ah *ActivityHandler) RecordDay(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Date               time.Time                `json:"date"`
		AttendanceStatus   types.AttendanceStatus   `json:"attendance_status"`
		TotalHoursSpent    float64                  `json:"total_hours_spent"`
		SubjectsStudied    []types.SubjectStudy     `json:"subjects_studied"`
		HomeworkAssigned   []types.HomeworkItem     `json:"homework_assigned"`
		HomeworkCompleted  []types.HomeworkItem     `json:"homework_completed"`
		AssessmentsTaken   []types.AssessmentResult `json:"assessments_taken"`
		BehaviorRating     int                      `json:"behavior_rating"`
		ParticipationLevel int                      `json:"participation_level"`
		DisciplineScore    int                      `json:"discipline_score"`
		Punctuality        bool                     `json:"punctuality"`
		SkillsSnapshot     map[string]int           `json:"skills_snapshot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	record := types.ActivityRecord{
		StudentID:          studentID,
		Date:               req.Date,
		AttendanceStatus:   req.AttendanceStatus,
		TotalHoursSpent:    req.TotalHoursSpent,
		SubjectsStudied:    datatypes.NewJSONSlice(req.SubjectsStudied),
		HomeworkAssigned:   datatypes.NewJSONSlice(req.HomeworkAssigned),
		HomeworkCompleted:  datatypes.NewJSONSlice(req.HomeworkCompleted),
		AssessmentsTaken:   datatypes.NewJSONSlice(req.AssessmentsTaken),
		BehaviorRating:     req.BehaviorRating,
		ParticipationLevel: req.ParticipationLevel,
		DisciplineScore:    req.DisciplineScore,
		Punctuality:        req.Punctuality,
		SkillsSnapshot:     datatypes.NewJSONType(req.SkillsSnapshot),
	}
	overwrite := c.Query("overwrite") == "true"
	created, err := ah.activityService.RecordDay(c.Request.Context(), &record, overwrite)
	if err != nil {
		if errors.Is(err, repos.ErrDuplicateActivityDate) {
			RespondError(c, http.StatusConflict, "duplicate_date", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "record_failed", err)
		return
	}
	RespondOK(c, created)
}

func (ah *ActivityHandler) ListByStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	records, err := ah.activityService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, records)
}
