package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	"github.com/xxxsen/sportmate/internal/pkg/jwt"
	"github.com/xxxsen/sportmate/internal/pkg/response"
)

const (
	ContextUserIDKey  = "user_id"
	ContextAdminIDKey = "admin_id"
	ContextRoleKey    = "role"
)

type AdminResolver interface {
	Get(ctx context.Context, adminID string) (*model.Admin, error)
}

// JWTAuth accepts user tokens only. Admin tokens are turned away so an
// admin session never shows up as a teammate.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, secret)
		if !ok {
			return
		}
		if claims.IsAdmin() {
			response.Error(c, errcode.ErrForbidden, "user route")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, jwt.RoleUser)
		if claims.Email != "" {
			c.Set("user_email", claims.Email)
		}
		c.Next()
	}
}

// AdminAuth accepts admin tokens whose subject still exists.
func AdminAuth(secret []byte, admins AdminResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, secret)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			response.Error(c, errcode.ErrForbidden, "admin only")
			c.Abort()
			return
		}
		if _, err := admins.Get(c.Request.Context(), claims.UserID); err != nil {
			response.Error(c, errcode.ErrUnauthorized, "admin not found")
			c.Abort()
			return
		}
		c.Set(ContextAdminIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

func parseBearer(c *gin.Context, secret []byte) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.Error(c, errcode.ErrUnauthorized, "missing authorization")
		c.Abort()
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		response.Error(c, errcode.ErrUnauthorized, "invalid authorization")
		c.Abort()
		return nil, false
	}
	claims, err := jwt.ParseToken(strings.TrimSpace(parts[1]), secret)
	if err != nil || claims.UserID == "" {
		response.Error(c, errcode.ErrUnauthorized, "invalid token")
		c.Abort()
		return nil, false
	}
	return claims, true
}
