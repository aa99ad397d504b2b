package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"sales", RoleSales, false},
		{"Warehouse", RoleWarehouse, false},
		{" admin ", RoleAdmin, false},
		{"owner", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUser(t *testing.T) {
	id := uuid.New()
	u, err := NewUser(id, " ops@example.com ")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "ops@example.com", u.Email)
	assert.Equal(t, RoleSales, u.Role)

	_, err = NewUser(uuid.Nil, "x@example.com")
	assert.Error(t, err)
}

func TestUser_HasAnyRole(t *testing.T) {
	u := &User{Role: RoleWarehouse}
	assert.True(t, u.HasAnyRole(RoleWarehouse, RoleAdmin))
	assert.False(t, u.HasAnyRole(RoleSales, RoleAdmin))
	assert.False(t, u.HasAnyRole())
}
