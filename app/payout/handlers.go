package payout

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

// ClaimWinnings godoc
// @Summary Claim winnings
// @Description Pay the caller's share of the payout pool of a resolved market. A position can be claimed once.
// @Tags payouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=ClaimResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/claim [post]
func (h *Handler) ClaimWinnings(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ClaimWinnings(c.Request.Context(), id, caller)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Winnings claimed successfully", resp)
}

// ClaimRefund godoc
// @Summary Claim refund
// @Description Return the caller's full stake from a cancelled market
// @Tags payouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=ClaimResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/refund [post]
func (h *Handler) ClaimRefund(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ClaimRefund(c.Request.Context(), id, caller)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Refund claimed successfully", resp)
}
