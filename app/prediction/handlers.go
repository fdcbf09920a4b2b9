package prediction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/internal/validator"
)

// Handler handles HTTP requests for bets and positions
type Handler struct {
	service Service
}

// NewHandler creates a new betting handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// PlaceBet godoc
// @Summary Place a bet
// @Description Stake on outcome A or B of an active market. A position stays bound to the outcome of its first bet.
// @Tags bets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body PlaceBetRequest true "Bet details"
// @Success 201 {object} api.Response{data=BetResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Failure 503 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/bets [post]
func (h *Handler) PlaceBet(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	marketID, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req PlaceBetRequest
	if !api.BindJSON(c, &req) {
		return
	}

	v := validator.New()
	v.Struct(&req)
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	bet, err := h.service.PlaceBet(c.Request.Context(), marketID, caller, &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.CreatedResponse(c, "Bet placed successfully", bet)
}

// GetMyPosition godoc
// @Summary Get caller position
// @Description Get the caller's position, with the potential payout once the market is resolved
// @Tags bets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=PositionResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/position [get]
func (h *Handler) GetMyPosition(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	marketID, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	position, err := h.service.GetPosition(c.Request.Context(), marketID, caller)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Position retrieved successfully", position)
}

// ListPositions godoc
// @Summary List market positions
// @Tags bets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=[]PositionResponse}
// @Router /api/v1/markets/{id}/positions [get]
func (h *Handler) ListPositions(c *gin.Context) {
	marketID, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	positions, err := h.service.ListPositions(c.Request.Context(), marketID)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.ListResponse(c, "Positions retrieved successfully", positions, api.ListMeta{Count: len(positions)})
}
