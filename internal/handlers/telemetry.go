package handlers

import (
	"errors"
	"net/http"

	"printwatch/internal/models"
	"printwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Publish a telemetry snapshot
// @Description  Replaces the current snapshot seen by the rule engine. Missing captured_at defaults to now.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        snapshot  body  models.TelemetrySnapshot  true  "Snapshot"
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/telemetry [post]
// @Security     BearerAuth
func (h *Handler) postTelemetry(c *gin.Context) {
	var snap models.TelemetrySnapshot
	if ok := h.bindJSONOrBadRequest(c, &snap); !ok {
		return
	}

	if err := h.services.Telemetry.Publish(c.Request.Context(), snap, service.OriginAPI); err != nil {
		if errors.Is(err, service.ErrInvalidSnapshot) {
			h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "telemetry_rejected", err)
			return
		}
		if errors.Is(err, service.ErrSimulatorActive) {
			h.logAndJSONError(c, http.StatusConflict, err.Error(), "telemetry_rejected", err)
			return
		}
		// the snapshot is live even if persisting failed
		h.logAndJSONError(c, http.StatusInternalServerError, "snapshot accepted but not persisted", "telemetry_persist_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// @Summary      Latest telemetry snapshot
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  models.TelemetrySnapshot
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/telemetry/latest [get]
// @Security     BearerAuth
func (h *Handler) getLatestTelemetry(c *gin.Context) {
	snap, err := h.services.Telemetry.Latest(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load telemetry", "telemetry_latest_failed", err)
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no telemetry received yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
