package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"printwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List alerts
// @Description  Newest first. With after_id the result is ascending from that id, for polling.
// @Tags         alerts
// @Produce      json
// @Param        unresolved  query  bool    false  "Only unresolved alerts"
// @Param        category    query  string  false  "Category"  Enums(HEATBED,POWER,AXIS,FAN,EXTRUDER_AND_TOOLHEAD,LEVELING)
// @Param        code        query  string  false  "Anomaly code"  example(CB2565)
// @Param        after_id    query  int     false  "Only alerts with a greater id"
// @Param        limit       query  int     false  "Max rows (default 100, max 1000)"
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/alerts [get]
// @Security     BearerAuth
func (h *Handler) getAlerts(c *gin.Context) {
	f := service.AlertFilter{
		Category: c.Query("category"),
		Code:     strings.TrimSpace(c.Query("code")),
	}

	if qs := c.Query("unresolved"); qs != "" {
		v, err := strconv.ParseBool(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'unresolved'; use true or false"})
			return
		}
		f.Unresolved = v
	}
	if qs := c.Query("after_id"); qs != "" {
		v, err := strconv.ParseInt(qs, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'after_id'"})
			return
		}
		f.AfterID = v
	}
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit'; must be a positive integer"})
			return
		}
		f.Limit = v
	}

	alerts, err := h.services.Alerts.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "alerts_bad_filter", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load alerts", "alerts_list_failed", err,
			"category", f.Category, "code", f.Code)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// @Summary      Anomaly code catalogue
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, codes"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/alerts/codes [get]
// @Security     BearerAuth
func (h *Handler) getAlertCodes(c *gin.Context) {
	codes := h.services.Alerts.Codes()
	c.JSON(http.StatusOK, gin.H{
		"count": len(codes),
		"codes": codes,
	})
}
