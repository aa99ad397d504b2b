package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by the auth chain
const (
	IdentityKey    = "auth_identity"
	CurrentUserKey = "auth_user"
)

const (
	authHeader       = "Authorization"
	bearerPrefix     = "Bearer "
	accessTokenQuery = "access_token"
)

// TokenVerifier validates session tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// UserProvisioner loads the user behind a verified identity, creating it on first sight
type UserProvisioner interface {
	EnsureUser(ctx context.Context, id uuid.UUID, email string) (*identity.User, error)
}

// JWTAuth requires a valid session token. The Authorization header is
// preferred; the access_token query parameter is accepted for WebSocket
// upgrades, where browsers cannot set headers.
func JWTAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing session token")
			return
		}

		id, err := verifier.Verify(token)
		if err != nil {
			code, message := dto.ErrCodeTokenInvalid, "Invalid session token"
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				code, message = dto.ErrCodeTokenExpired, "Session token has expired"
			case errors.Is(err, auth.ErrNotConfigured):
				code, message = dto.ErrCodeUnauthorized, "Authentication is not configured"
			}
			if log != nil {
				log.Debug("Session token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			}
			abortWithError(c, http.StatusUnauthorized, code, message)
			return
		}

		c.Set(IdentityKey, id)
		c.Set(logger.GinUserIDKey, id.UserID.String())
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), id.UserID.String()))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader(authHeader); h != "" {
		if !strings.HasPrefix(h, bearerPrefix) {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}
	return c.Query(accessTokenQuery)
}

// CurrentUser resolves the authenticated identity to a dashboard user,
// provisioning new users with the default role
func CurrentUser(users UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		user, err := users.EnsureUser(c.Request.Context(), id.UserID, id.Email)
		if err != nil {
			logger.L(c.Request.Context()).Error("Failed to load current user", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Failed to load user")
			return
		}
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole allows only users holding one of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetCurrentUser(c)
		if user == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !user.HasAnyRole(roles...) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Your role does not allow this action")
			return
		}
		c.Next()
	}
}

// GetIdentity returns the verified token identity, or nil
func GetIdentity(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(*auth.Identity); ok {
			return id
		}
	}
	return nil
}

// GetCurrentUser returns the user loaded by CurrentUser, or nil
func GetCurrentUser(c *gin.Context) *identity.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(*identity.User); ok {
			return u
		}
	}
	return nil
}
