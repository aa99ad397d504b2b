package handler

import (
	"net/http"
	"strings"
	"testing"

	integrationapp "github.com/retailops/backend/internal/application/integration"
	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminHandler_Action(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantCmd integrationapp.AdminCommand
	}{
		{"status", `{"action":"status"}`, integrationapp.StatusCommand{}},
		{"refresh", `{"action":"refresh"}`, integrationapp.RefreshCommand{}},
		{"sync defaults to all", `{"action":"sync"}`, integrationapp.SyncCommand{Target: integrationapp.SyncTargetAll}},
		{"sync orders", `{"action":"sync","target":"orders"}`, integrationapp.SyncCommand{Target: integrationapp.SyncTargetOrders}},
		{"update credentials", `{"action":"update_credentials","username":"ops","password":"pw"}`,
			integrationapp.UpdateCredentialsCommand{Username: "ops", Password: "pw"}},
		{"test connection", `{"action":"test_connection"}`, integrationapp.TestConnectionCommand{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := new(MockAdminExecutor)
			admin.On("Execute", mock.Anything, tt.wantCmd).Return(map[string]string{"ok": "yes"}, nil)

			r := newTestRouter(testUser(identity.RoleAdmin))
			r.POST("/admin", NewAdminHandler(admin).Action)

			w := doRequest(r, http.MethodPost, "/admin", strings.NewReader(tt.body), nil)

			assert.Equal(t, http.StatusOK, w.Code)
			admin.AssertExpectations(t)
		})
	}
}

func TestAdminHandler_Action_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown action", `{"action":"reboot"}`},
		{"missing action", `{}`},
		{"bad target", `{"action":"sync","target":"customers"}`},
		{"credentials without password", `{"action":"update_credentials","username":"ops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := new(MockAdminExecutor)
			r := newTestRouter(testUser(identity.RoleAdmin))
			r.POST("/admin", NewAdminHandler(admin).Action)

			w := doRequest(r, http.MethodPost, "/admin", strings.NewReader(tt.body), nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
			admin.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestAdminHandler_Action_CredentialUnavailable(t *testing.T) {
	admin := new(MockAdminExecutor)
	admin.On("Execute", mock.Anything, integrationapp.SyncCommand{Target: integrationapp.SyncTargetOrders}).
		Return(nil, shared.ErrCredentialUnavailable.WithMessage("Order system token is missing or expired, run refresh first"))

	r := newTestRouter(testUser(identity.RoleAdmin))
	r.POST("/admin", NewAdminHandler(admin).Action)

	w := doRequest(r, http.MethodPost, "/admin", strings.NewReader(`{"action":"sync","target":"orders"}`), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeCredentialUnavailable, errorCode(t, w))
}
