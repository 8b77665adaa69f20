package handlers

import (
	"errors"
	"net/http"

	"printwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// SetFaultRequest is the payload for injecting a simulator fault.
type SetFaultRequest struct {
	// Fault name; empty clears it.
	Fault string `json:"fault" example:"fan_stall"`
}

// @Summary      Current simulator fault
// @Tags         simulator
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/simulator/fault [get]
// @Security     BearerAuth
func (h *Handler) getFault(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fault": h.services.Simulator.Fault()})
}

// @Summary      Inject a simulator fault
// @Tags         simulator
// @Accept       json
// @Produce      json
// @Param        body  body  SetFaultRequest  true  "Fault"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/simulator/fault [put]
// @Security     BearerAuth
func (h *Handler) setFault(c *gin.Context) {
	var req SetFaultRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Simulator.SetFault(req.Fault); err != nil {
		if errors.Is(err, service.ErrUnknownFault) {
			h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "simulator_bad_fault", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to set fault", "simulator_set_fault_failed", err)
		return
	}
	if h.log != nil {
		h.log.Infow("simulator_fault_set", "fault", req.Fault, "actor", c.GetInt("userId"))
	}
	c.JSON(http.StatusOK, gin.H{"fault": req.Fault})
}
