package handlers

import (
	"errors"
	"net/http"

	"printwatch/internal/alerting"

	"github.com/gin-gonic/gin"
)

// @Summary      Check bed leveling
// @Description  Evaluates z-tilt and bed mesh flatness on the current snapshot. A finding is recorded as an alert attributed to the caller.
// @Tags         leveling
// @Produce      json
// @Success      200  {object}  alerting.LevelingReport
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/leveling/check [post]
// @Security     BearerAuth
func (h *Handler) checkLeveling(c *gin.Context) {
	actorID := c.GetInt("userId")

	report, err := h.services.Leveling.Check(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, alerting.ErrNoTelemetry) {
			h.logAndJSONError(c, http.StatusConflict, err.Error(), "leveling_no_telemetry", err, "actor", actorID)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to check leveling", "leveling_check_failed", err, "actor", actorID)
		return
	}
	c.JSON(http.StatusOK, report)
}
