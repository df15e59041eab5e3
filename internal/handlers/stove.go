package handlers

import (
	"context"
	"errors"
	"net/http"

	"fourheat/internal/protocol"
	"fourheat/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusAccepted = "accepted"

	errNoData        = "no stove data available"
	errUpdateFailed  = "stove update failed"
	errLoadReadings  = "failed to load readings"
	errInvalidBodyPf = "invalid body: "
)

// logAndJSONError logs err under logKey and writes userMsg with httpCode.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// SetValueRequest is the payload of POST /api/v1/stove/value.
type SetValueRequest struct {
	// Data point identifier, copied verbatim into the frame
	PointID string `json:"point_id" binding:"required" example:"01000"`
	// Value, 0..999999999999
	Value *int64 `json:"value" binding:"required" example:"7"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Cached stove snapshot
// @Description  Returns the last successful reading without contacting the stove.
// @Tags         stove
// @Produce      json
// @Success      200  {object}  map[string]models.Reading
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/stove/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	snap, err := h.services.Monitoring.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoData})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Refresh stove data
// @Description  Polls the stove now. Returns cached data when another update is in flight or the stove timed out.
// @Tags         stove
// @Produce      json
// @Success      200  {object}  map[string]models.Reading
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/stove/refresh [post]
// @Security     BearerAuth
func (h *Handler) refresh(c *gin.Context) {
	snap, err := h.services.Monitoring.Refresh(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, snap)
	case errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoData})
	default:
		h.logAndJSONError(c, http.StatusBadGateway, errUpdateFailed, "stove_refresh_request_failed", err)
	}
}

// @Summary      Persisted readings
// @Description  Latest stored value of every data point ever reported.
// @Tags         stove
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/stove/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	readings, err := h.services.Monitoring.Stored(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadReadings, "stove_readings_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Turn the stove on
// @Tags         stove
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/stove/on [post]
// @Security     BearerAuth
func (h *Handler) turnOn(c *gin.Context) {
	h.services.Stove.TurnOn(commandContext(c))
	h.accepted(c, service.CommandOn)
}

// @Summary      Turn the stove off
// @Tags         stove
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/stove/off [post]
// @Security     BearerAuth
func (h *Handler) turnOff(c *gin.Context) {
	h.services.Stove.TurnOff(commandContext(c))
	h.accepted(c, service.CommandOff)
}

// @Summary      Clear a stove block
// @Tags         stove
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/stove/unblock [post]
// @Security     BearerAuth
func (h *Handler) unblock(c *gin.Context) {
	h.services.Stove.Unblock(commandContext(c))
	h.accepted(c, service.CommandUnblock)
}

// @Summary      Write a data point
// @Description  Commands are fire-and-forget: 202 means the frame was sent, not that the stove applied it.
// @Tags         stove
// @Accept       json
// @Produce      json
// @Param        body  body   SetValueRequest  true  "Data point and value"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/stove/value [post]
// @Security     BearerAuth
func (h *Handler) setValue(c *gin.Context) {
	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPf + err.Error()})
		return
	}
	err := h.services.Stove.SetValue(commandContext(c), service.SetValueParams{
		PointID: req.PointID,
		Value:   *req.Value,
	})
	if err != nil {
		if errors.Is(err, protocol.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to set value", "stove_set_value_failed", err,
			"point_id", req.PointID)
		return
	}
	h.accepted(c, service.CommandSetValue)
}

// commandContext detaches a command from the request so a client that hangs
// up does not abort a frame already on its way to the stove. The transport
// timeout still bounds the exchange.
func commandContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (h *Handler) accepted(c *gin.Context, command string) {
	c.JSON(http.StatusAccepted, gin.H{"status": statusAccepted, "command": command})
}
