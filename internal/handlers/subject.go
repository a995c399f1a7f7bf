package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack-backend/internal/services"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type SubjectHandler struct {
	subjectService services.SubjectService
}

func NewSubjectHandler(subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

func (sh *SubjectHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := sh.subjectService.CreateSubject(c.Request.Context(), &types.Subject{Name: req.Name, Code: req.Code})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondOK(c, created)
}

func (sh *SubjectHandler) List(c *gin.Context) {
	subjects, err := sh.subjectService.ListSubjects(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, subjects)
}
