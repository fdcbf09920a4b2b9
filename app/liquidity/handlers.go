package liquidity

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/internal/validator"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// AddLiquidity godoc
// @Summary Add liquidity
// @Description Deposit into the market pool and receive pool shares
// @Tags liquidity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body AddLiquidityRequest true "Deposit"
// @Success 201 {object} api.Response{data=DepositResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/liquidity [post]
func (h *Handler) AddLiquidity(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AddLiquidityRequest
	if !api.BindJSON(c, &req) {
		return
	}
	v := validator.New()
	v.Struct(&req)
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	resp, err := h.service.AddLiquidity(c.Request.Context(), id, caller, &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}
	api.CreatedResponse(c, "Liquidity added successfully", resp)
}

// RemoveLiquidity godoc
// @Summary Remove liquidity
// @Description Burn pool shares of an active market. The withdrawal fee stays in the pool.
// @Tags liquidity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body WithdrawLiquidityRequest true "Shares to burn"
// @Success 200 {object} api.Response{data=WithdrawalResponse}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/liquidity/remove [post]
func (h *Handler) RemoveLiquidity(c *gin.Context) {
	h.withdraw(c, h.service.RemoveLiquidity, "Liquidity removed successfully")
}

// RedeemLiquidity godoc
// @Summary Redeem liquidity
// @Description Burn pool shares of a resolved or cancelled market without a fee
// @Tags liquidity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body WithdrawLiquidityRequest true "Shares to burn"
// @Success 200 {object} api.Response{data=WithdrawalResponse}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/liquidity/redeem [post]
func (h *Handler) RedeemLiquidity(c *gin.Context) {
	h.withdraw(c, h.service.RedeemLiquidity, "Liquidity redeemed successfully")
}

// GetMyLiquidity godoc
// @Summary Get caller pool position
// @Tags liquidity
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=PositionResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/liquidity [get]
func (h *Handler) GetMyLiquidity(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetLiquidityPosition(c.Request.Context(), id, caller)
	if err != nil {
		api.HandleError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Liquidity position retrieved successfully", resp)
}

type withdrawFunc func(ctx context.Context, marketID uuid.UUID, provider string, req *WithdrawLiquidityRequest) (*WithdrawalResponse, error)

func (h *Handler) withdraw(c *gin.Context, call withdrawFunc, message string) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req WithdrawLiquidityRequest
	if !api.BindJSON(c, &req) {
		return
	}
	v := validator.New()
	v.Struct(&req)
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	resp, err := call(c.Request.Context(), id, caller, &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, message, resp)
}
