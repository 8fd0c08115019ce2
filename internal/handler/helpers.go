package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/middleware"
	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserIDKey)
}

type errorMapping struct {
	err  error
	code int
	msg  string
}

var errorMappings = []errorMapping{
	{appErr.ErrUnauthorized, errcode.ErrUnauthorized, "unauthorized"},
	{appErr.ErrForbidden, errcode.ErrForbidden, "forbidden"},
	{appErr.ErrNotFound, errcode.ErrNotFound, "not found"},
	{appErr.ErrInvalid, errcode.ErrInvalid, "invalid request"},
	{appErr.ErrConflict, errcode.ErrConflict, "user already exists, please login instead"},
	{appErr.ErrTooMany, errcode.ErrTooMany, "too many requests"},
	{appErr.ErrNotVerified, errcode.ErrNotVerified, "please verify your email first"},
	{appErr.ErrOTPNotFound, errcode.ErrOTPNotFound, "otp not found or expired, please request a new one"},
	{appErr.ErrOTPExpired, errcode.ErrOTPExpired, "otp has expired, please request a new one"},
	{appErr.ErrOTPTooManyAttempts, errcode.ErrOTPTooManyAttempts, "too many failed attempts, please request a new otp"},
	{appErr.ErrOTPInvalidCode, errcode.ErrOTPInvalidCode, "invalid otp, please try again"},
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			logutil.GetLogger(c.Request.Context()).Debug("request rejected",
				zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
				zap.String("path", c.Request.URL.Path),
				zap.String("user_id", getUserID(c)),
				zap.Error(err),
			)
			response.Error(c, m.code, m.msg)
			return
		}
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	response.Error(c, errcode.ErrInternal, "internal error")
}
