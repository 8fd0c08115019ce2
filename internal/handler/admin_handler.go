package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	"github.com/xxxsen/sportmate/internal/pkg/response"
	"github.com/xxxsen/sportmate/internal/service"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type adminLoginResponse struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	admin, token, err := h.admin.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, adminLoginResponse{Token: token, Admin: admin})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	result, err := h.admin.ListUsers(c.Request.Context(), service.UserListInput{
		Sport: c.Query("sport"),
		City:  c.Query("city"),
		Area:  c.Query("area"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *AdminHandler) Cities(c *gin.Context) {
	cities, err := h.admin.Cities(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cities)
}

func (h *AdminHandler) Areas(c *gin.Context) {
	areas, err := h.admin.Areas(c.Request.Context(), c.Query("city"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, areas)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
