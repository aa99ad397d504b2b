package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// Role is the single dashboard role a user holds
type Role string

const (
	RoleSales     Role = "sales"
	RoleWarehouse Role = "warehouse"
	RoleAdmin     Role = "admin"
)

// DefaultRole is assigned to users provisioned on their first authentication.
// Promotion to another role is a manual operator task.
const DefaultRole = RoleSales

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSales, RoleWarehouse, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name, case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be one of sales, warehouse, admin")
	}
	return r, nil
}

// User is a dashboard user. The ID is the auth platform's subject.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user for a first-time authenticated subject
func NewUser(id uuid.UUID, email string) (*User, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	now := time.Now()
	return &User{
		ID:        id,
		Email:     strings.TrimSpace(email),
		Role:      DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasAnyRole reports whether the user's role is among roles
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// UserRepository defines persistence for users
type UserRepository interface {
	// FindByID returns shared.ErrNotFound when the user does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// Create inserts the user, leaving an existing row with the same ID untouched
	Create(ctx context.Context, user *User) error
}
