package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	integrationapp "github.com/retailops/backend/internal/application/integration"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// AdminExecutor runs admin commands
type AdminExecutor interface {
	Execute(ctx context.Context, cmd integrationapp.AdminCommand) (any, error)
}

// AdminHandler handles the admin action endpoint
type AdminHandler struct {
	BaseHandler
	admin AdminExecutor
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin AdminExecutor) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Action godoc
// @ID           postAdminAction
// @Summary      Run an integration admin action
// @Description  Actions: status, refresh, sync, update_credentials, test_connection
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body dto.AdminActionRequest true "Action and parameters"
// @Router       /admin/actions [post]
func (h *AdminHandler) Action(c *gin.Context) {
	var req dto.AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cmd, err := integrationapp.ParseAdminCommand(req.Action, integrationapp.AdminParams{
		Target:   req.Target,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.admin.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
