package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetCurrentUser(c *gin.Context) {
	user, err := uh.userService.GetCurrentUser(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "user_not_found", err)
		return
	}
	RespondOK(c, user)
}
