package resolution

import (
	"net/http"

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

// Resolve godoc
// @Summary Resolve a market
// @Description The market oracle settles an expired market. Oracle and platform fees are paid from the stake vault.
// @Tags resolution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Market ID"
// @Param request body ResolveRequest true "Verdict"
// @Success 200 {object} api.Response{data=ResolutionResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 403 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/resolve [post]
func (h *Handler) Resolve(c *gin.Context) {
	caller, ok := api.CallerFrom(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}
	id, ok := api.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if !api.BindJSON(c, &req) {
		return
	}
	v := validator.New()
	v.Struct(&req)
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), id, caller, &req)
	if err != nil {
		api.HandleError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Market resolved successfully", resp)
}
