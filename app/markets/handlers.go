package markets

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/internal/security"
	"github.com/joefazee/settle/internal/validator"
)

// Handler handles HTTP requests for markets
type Handler struct {
	service Service
}

// NewHandler creates a new market handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateMarket godoc
// @Summary Create a prediction market
// @Description Create a binary market. The caller becomes its authority.
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMarketRequest true "Market details"
// @Success 201 {object} api.Response{data=MarketResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets [post]
func (h *Handler) CreateMarket(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	var req CreateMarketRequest
	if !api.BindJSON(c, &req) {
		return
	}

	v := validator.New()
	v.Struct(&req)
	v.Check(validator.NotBlank(req.Title), "title", "must not be blank")
	v.Check(validator.Distinct(req.OutcomeA, req.OutcomeB), "outcome_b", "must differ from outcome_a")
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	market, err := h.service.CreateMarket(c.Request.Context(), caller, &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.CreatedResponse(c, "Market created successfully", market)
}

// GetMarket godoc
// @Summary Get market
// @Description Get a market with implied odds and vault balances
// @Tags markets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=MarketDetailResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id} [get]
func (h *Handler) GetMarket(c *gin.Context) {
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	market, err := h.service.GetMarket(c.Request.Context(), id)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Market retrieved successfully", market)
}

// CancelMarket godoc
// @Summary Cancel market
// @Description Cancel an active or disputed market. Allowed for the market authority or an admin.
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body StatusChangeRequest true "Reason"
// @Success 200 {object} api.Response{data=MarketResponse}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/cancel [post]
func (h *Handler) CancelMarket(c *gin.Context) {
	h.changeStatus(c, h.service.CancelMarket, "Market cancelled successfully")
}

// DisputeMarket godoc
// @Summary Dispute market
// @Description Flag an active market as disputed. Allowed for the market authority, its oracle or an admin.
// @Tags markets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body StatusChangeRequest true "Reason"
// @Success 200 {object} api.Response{data=MarketResponse}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/dispute [post]
func (h *Handler) DisputeMarket(c *gin.Context) {
	h.changeStatus(c, h.service.DisputeMarket, "Market disputed successfully")
}

type statusChange func(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error)

func (h *Handler) changeStatus(c *gin.Context, call statusChange, message string) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req StatusChangeRequest
	if !api.BindJSON(c, &req) {
		return
	}

	v := validator.New()
	v.Struct(&req)
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	market, err := call(c.Request.Context(), id, caller, api.HasRole(c, security.RoleAdmin), &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, message, market)
}
