package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sportmate/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Admin     *AdminHandler
	Presence  middleware.Toucher
	Admins    middleware.AdminResolver
	Limiter   middleware.Limiter
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	limited := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		limited = append(limited, middleware.RateLimit(deps.Limiter))
	}
	public := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, limited...), h)
	}

	api.POST("/auth/signup/send-otp", public(deps.Auth.SendSignupOTP)...)
	api.POST("/auth/signup/verify-otp", deps.Auth.VerifySignupOTP)
	api.POST("/auth/login", public(deps.Auth.Login)...)
	api.POST("/auth/login/send-otp", public(deps.Auth.SendLoginOTP)...)
	api.POST("/auth/login/verify-otp", deps.Auth.VerifyLoginOTP)
	api.GET("/users/sports", deps.Users.Sports)
	api.POST("/admin/login", public(deps.Admin.Login)...)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	if deps.Presence != nil {
		authGroup.Use(middleware.Touch(deps.Presence))
	}
	authGroup.GET("/auth/me", deps.Auth.Me)
	authGroup.PUT("/auth/profile", deps.Auth.UpdateProfile)
	authGroup.POST("/auth/logout", deps.Auth.Logout)
	authGroup.GET("/users/discover", deps.Users.Discover)
	authGroup.GET("/users/nearby", deps.Users.Nearby)
	authGroup.GET("/users/active", deps.Users.Active)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuth(deps.JWTSecret, deps.Admins))
	adminGroup.GET("/stats", deps.Admin.Stats)
	adminGroup.GET("/users", deps.Admin.ListUsers)
	adminGroup.GET("/cities", deps.Admin.Cities)
	adminGroup.GET("/areas", deps.Admin.Areas)
	adminGroup.DELETE("/users/:id", deps.Admin.DeleteUser)
}
