package handler

import (
	"net/http"
	"testing"

	"github.com/retailops/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeHandler_Get(t *testing.T) {
	user := testUser(identity.RoleWarehouse)
	r := newTestRouter(user)
	r.GET("/me", NewMeHandler().Get)

	w := doRequest(r, http.MethodGet, "/me", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, user.ID.String(), data["id"])
	assert.Equal(t, "warehouse", data["role"])
}

func TestMeHandler_Get_Unauthenticated(t *testing.T) {
	r := newTestRouter(nil)
	r.GET("/me", NewMeHandler().Get)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/me", nil, nil).Code)
}
