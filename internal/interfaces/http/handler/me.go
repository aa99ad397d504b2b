package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/retailops/backend/internal/application/identity"
)

// MeHandler returns the caller's dashboard profile
type MeHandler struct {
	BaseHandler
}

// NewMeHandler creates a new MeHandler
func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// Get godoc
// @ID           getMe
// @Summary      Current user and role
// @Tags         identity
// @Security     BearerAuth
// @Produce      json
// @Router       /me [get]
func (h *MeHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	h.Success(c, identityapp.ToUserDTO(user))
}
