package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStatus godoc
// @Summary Pause switch state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=GateResponse}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context())
	if err != nil {
		api.HandleError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Platform status retrieved successfully", resp)
}

// Pause godoc
// @Summary Pause the platform
// @Description Every mutating market operation fails with PLATFORM_PAUSED until resumed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=GateResponse}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/pause [post]
func (h *Handler) Pause(c *gin.Context) {
	operator, _ := api.CallerFrom(c)
	resp, err := h.service.Pause(c.Request.Context(), operator)
	if err != nil {
		api.HandleError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Platform paused", resp)
}

// Resume godoc
// @Summary Resume the platform
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=GateResponse}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/resume [post]
func (h *Handler) Resume(c *gin.Context) {
	operator, _ := api.CallerFrom(c)
	resp, err := h.service.Resume(c.Request.Context(), operator)
	if err != nil {
		api.HandleError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Platform resumed", resp)
}
