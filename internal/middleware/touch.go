package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/pkg/response"
)

type Toucher interface {
	Touch(ctx context.Context, userID string) error
}

// Touch records activity for the authenticated user. It must run after JWTAuth.
func Touch(presence Toucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserIDKey)
		if userID == "" {
			c.Next()
			return
		}
		if err := presence.Touch(c.Request.Context(), userID); err != nil {
			if errors.Is(err, appErr.ErrUnauthorized) {
				response.Error(c, errcode.ErrUnauthorized, "user not found")
				c.Abort()
				return
			}
			logutil.GetLogger(c.Request.Context()).Warn("touch user failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
		c.Next()
	}
}
