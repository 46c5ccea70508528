package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/singingbell/pkg/api/types"
	"github.com/urmzd/singingbell/pkg/controller"
	"github.com/urmzd/singingbell/pkg/device"
	"github.com/urmzd/singingbell/pkg/service"
)

// Submitter hands a request to the request loop and waits for the reply.
type Submitter interface {
	Submit(ctx context.Context, req controller.Request) (controller.Reply, error)
}

// DeviceHandler handles the bell endpoints
type DeviceHandler struct {
	submitter Submitter
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(submitter Submitter) *DeviceHandler {
	return &DeviceHandler{submitter: submitter}
}

// Status handles GET /api/status
// @Summary      Get bell status
// @Description  Returns the current chime type, last action and status
// @Tags         bell
// @Produce      json
// @Success      200  {object}  types.StateResponse
// @Failure      503  {object}  types.ErrorResponse  "Request loop busy or stopped"
// @Router       /api/status [get]
func (h *DeviceHandler) Status(c *gin.Context) {
	reply, ok := h.submit(c, controller.KindStatus)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewStateResponse(reply.State))
}

// Calibrate handles PUT /api/calibrate
// @Summary      Calibrate mallet position
// @Description  Holds the mallet at angle, or sweeps it to the calibration angle, for 10 seconds so the bowl can be aligned.
// @Description  An angle that is not an integer in [0, 180] closes the connection without a response.
// @Tags         bell
// @Produce      json
// @Param        angle  query     int  false  "Servo angle to hold"  minimum(0)  maximum(180)
// @Success      200    {object}  types.StateResponse  "Always calibrate/stop/idle"
// @Failure      503    {object}  types.ErrorResponse  "Request loop busy or stopped"
// @Router       /api/calibrate [put]
func (h *DeviceHandler) Calibrate(c *gin.Context) {
	reply, ok := h.submit(c, controller.KindCalibrate)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewStateResponse(reply.State))
}

// Chime handles PUT /api/chime
// @Summary      Start or stop a chime
// @Description  Commits the chime type and action. Invalid parameters close the connection without a response.
// @Tags         bell
// @Produce      json
// @Param        type    query     string  true  "Chime pattern"  Enums(alarm, meditate, doorbell)
// @Param        action  query     string  true  "Action"         Enums(start, stop)
// @Success      200     {object}  types.StateResponse
// @Failure      503     {object}  types.ErrorResponse  "Request loop busy or stopped"
// @Router       /api/chime [put]
func (h *DeviceHandler) Chime(c *gin.Context) {
	reply, ok := h.submit(c, controller.KindChime)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewStateResponse(reply.State))
}

// History handles GET /api/history
// @Summary      Chime history
// @Description  Returns recorded state transitions, newest first
// @Tags         bell
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of events"  default(20)  maximum(200)
// @Success      200    {object}  types.HistoryResponse
// @Failure      400    {object}  types.ErrorResponse  "Invalid limit"
// @Failure      404    {object}  types.ErrorResponse  "History not recorded"
// @Failure      500    {object}  types.ErrorResponse  "Storage error"
// @Failure      503    {object}  types.ErrorResponse  "Request loop busy or stopped"
// @Router       /api/history [get]
func (h *DeviceHandler) History(c *gin.Context) {
	reply, ok := h.submit(c, controller.KindHistory)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewHistoryResponse(reply.Events))
}

// submit queues the request and writes the error response if it failed.
func (h *DeviceHandler) submit(c *gin.Context, kind controller.Kind) (controller.Reply, bool) {
	ctx := c.Request.Context()

	reply, err := h.submitter.Submit(ctx, controller.Request{
		Kind:   kind,
		Params: c.Request.URL.Query(),
		Source: device.SourceAPI,
	})
	if err == nil {
		return reply, true
	}

	switch {
	case errors.Is(err, controller.ErrRejected):
		drop(c, err)
	case ctx.Err() != nil:
		// Client went away; nobody is listening for the answer.
		c.Abort()
	case errors.Is(err, service.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "busy",
			Message: "Too many requests waiting for the bell",
		})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "unavailable",
			Message: "The bell is shutting down",
		})
	case errors.Is(err, controller.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, controller.ErrNoHistory):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_available",
			Message: "History is not recorded on this device",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "device_error",
			Message: err.Error(),
		})
	}
	return controller.Reply{}, false
}
