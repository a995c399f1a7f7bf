package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classtrack/classtrack-backend/internal/services"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ClassroomHandler struct {
	classroomService services.ClassroomService
}

func NewClassroomHandler(classroomService services.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

func (ch *ClassroomHandler) Create(c *gin.Context) {
	var req struct {
		Name         string     `json:"name"`
		GradeLevel   int        `json:"grade_level"`
		AcademicYear string     `json:"academic_year"`
		HomeroomID   *uuid.UUID `json:"homeroom_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	classroom := types.Classroom{
		Name:         req.Name,
		GradeLevel:   req.GradeLevel,
		AcademicYear: req.AcademicYear,
		HomeroomID:   req.HomeroomID,
	}
	created, err := ch.classroomService.CreateClassroom(c.Request.Context(), &classroom)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondOK(c, created)
}

func (ch *ClassroomHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	classroom, err := ch.classroomService.GetClassroom(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "classroom_not_found", err)
		return
	}
	RespondOK(c, classroom)
}

func (ch *ClassroomHandler) List(c *gin.Context) {
	classrooms, err := ch.classroomService.ListClassrooms(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, classrooms)
}

func (ch *ClassroomHandler) Enroll(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		StudentID uuid.UUID `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	enrollment, err := ch.classroomService.EnrollStudent(c.Request.Context(), classroomID, req.StudentID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "enroll_failed", err)
		return
	}
	RespondOK(c, enrollment)
}

func (ch *ClassroomHandler) ListEnrollments(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	enrollments, err := ch.classroomService.ListEnrollments(c.Request.Context(), classroomID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, enrollments)
}

func (ch *ClassroomHandler) UpdateEnrollmentStatus(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollmentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Status types.EnrollmentStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := ch.classroomService.UpdateEnrollmentStatus(c.Request.Context(), enrollmentID, req.Status); err != nil {
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
