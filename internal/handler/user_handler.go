package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	"github.com/xxxsen/sportmate/internal/pkg/response"
	"github.com/xxxsen/sportmate/internal/proximity"
	"github.com/xxxsen/sportmate/internal/service"
)

type UserHandler struct {
	discovery *service.DiscoveryService
}

func NewUserHandler(discovery *service.DiscoveryService) *UserHandler {
	return &UserHandler{discovery: discovery}
}

type listResponse struct {
	Count int                   `json:"count"`
	Items []proximity.Candidate `json:"items"`
}

func (h *UserHandler) Sports(c *gin.Context) {
	response.Success(c, h.discovery.Sports())
}

func (h *UserHandler) Discover(c *gin.Context) {
	maxDistance, ok := parseMaxDistance(c)
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid max_distance")
		return
	}
	items, err := h.discovery.Discover(c.Request.Context(), getUserID(c), service.DiscoverQuery{
		Sport:         c.Query("sport"),
		City:          c.Query("city"),
		Area:          c.Query("area"),
		Name:          c.Query("name"),
		ActiveOnly:    parseBool(c.Query("active_only")),
		MaxDistanceKm: maxDistance,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, listResponse{Count: len(items), Items: items})
}

func (h *UserHandler) Nearby(c *gin.Context) {
	maxDistance, ok := parseMaxDistance(c)
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid max_distance")
		return
	}
	result, err := h.discovery.Nearby(c.Request.Context(), getUserID(c), service.NearbyQuery{
		Sport:          c.Query("sport"),
		MaxDistanceKm:  maxDistance,
		SortByDistance: strings.EqualFold(strings.TrimSpace(c.Query("sort")), "distance"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *UserHandler) Active(c *gin.Context) {
	items, err := h.discovery.Active(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, listResponse{Count: len(items), Items: items})
}

// parseMaxDistance reads max_distance in km. Absent means no cap.
func parseMaxDistance(c *gin.Context) (float64, bool) {
	raw := strings.TrimSpace(c.Query("max_distance"))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
