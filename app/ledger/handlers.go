package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/internal/validator"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMyAccount godoc
// @Summary Get caller account
// @Description Get the balance of the authenticated identity
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=AccountResponse}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/accounts/me [get]
func (h *Handler) GetMyAccount(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), caller)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Account retrieved successfully", account)
}

// GetMyTransfers godoc
// @Summary List caller transfers
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} api.Response{data=[]TransferResponse}
// @Router /api/v1/accounts/me/transfers [get]
func (h *Handler) GetMyTransfers(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transfers, err := h.service.History(c.Request.Context(), caller, limit, offset)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.ListResponse(c, "Transfers retrieved successfully", transfers, api.ListMeta{
		Count:  len(transfers),
		Limit:  limit,
		Offset: offset,
	})
}

// Credit godoc
// @Summary Credit account
// @Description Mint funds into an account (admin only)
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreditRequest true "Credit request"
// @Success 201 {object} api.Response{data=TransferResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/accounts/credit [post]
func (h *Handler) Credit(c *gin.Context) {
	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	v.Struct(&req)
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	transfer, err := h.service.Credit(c.Request.Context(), &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.CreatedResponse(c, "Account credited successfully", transfer)
}
