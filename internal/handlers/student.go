package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classtrack/classtrack-backend/internal/services"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type StudentHandler struct {
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (sh *StudentHandler) Create(c *gin.Context) {
	var req struct {
		FirstName       string     `json:"first_name"`
		LastName        string     `json:"last_name"`
		AdmissionNumber string     `json:"admission_number"`
		DateOfBirth     *time.Time `json:"date_of_birth"`
		GuardianEmail   string     `json:"guardian_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	student := types.Student{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		AdmissionNumber: req.AdmissionNumber,
		DateOfBirth:     req.DateOfBirth,
		GuardianEmail:   req.GuardianEmail,
	}
	created, err := sh.studentService.CreateStudent(c.Request.Context(), &student)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondOK(c, created)
}

func (sh *StudentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	student, err := sh.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "student_not_found", err)
		return
	}
	RespondOK(c, student)
}

func (sh *StudentHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	students, err := sh.studentService.ListStudents(c.Request.Context(), activeOnly)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, students)
}

func (sh *StudentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var student types.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	student.ID = id
	if err := sh.studentService.UpdateStudent(c.Request.Context(), &student); err != nil {
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (sh *StudentHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.studentService.DeactivateStudent(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusBadRequest, "deactivate_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
