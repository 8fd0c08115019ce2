package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	"github.com/xxxsen/sportmate/internal/pkg/response"
	"github.com/xxxsen/sportmate/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	presence *service.PresenceService
}

func NewAuthHandler(auth *service.AuthService, presence *service.PresenceService) *AuthHandler {
	return &AuthHandler{auth: auth, presence: presence}
}

type signupRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Sport     string   `json:"sport"`
	City      string   `json:"city"`
	Area      string   `json:"area"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type profileRequest struct {
	Name          *string  `json:"name"`
	Sport         *string  `json:"sport"`
	City          *string  `json:"city"`
	Area          *string  `json:"area"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ClearLocation bool     `json:"clear_location"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) SendSignupOTP(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	err := h.auth.SendSignupCode(c.Request.Context(), service.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Sport:     req.Sport,
		City:      req.City,
		Area:      req.Area,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "otp sent successfully to your email"})
}

func (h *AuthHandler) VerifySignupOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	user, token, err := h.auth.VerifySignupCode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, authResponse{Token: token, User: user})
}

func (h *AuthHandler) SendLoginOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.auth.SendLoginCode(c.Request.Context(), req.Email); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "otp sent successfully to your email"})
}

func (h *AuthHandler) VerifyLoginOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	user, token, err := h.auth.VerifyLoginCode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), getUserID(c), service.ProfileInput{
		Name:          req.Name,
		Sport:         req.Sport,
		City:          req.City,
		Area:          req.Area,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ClearLocation: req.ClearLocation,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := getUserID(c)
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}
	if h.presence != nil {
		h.presence.Forget(userID)
	}
	response.Success(c, gin.H{"ok": true})
}
