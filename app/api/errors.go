package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/models"
)

var statusByKind = map[models.ErrorKind]int{
	models.KindValidation:    http.StatusBadRequest,
	models.KindAuthorization: http.StatusForbidden,
	models.KindNotFound:      http.StatusNotFound,
	models.KindState:         http.StatusConflict,
	models.KindConflict:      http.StatusConflict,
	models.KindArithmetic:    http.StatusUnprocessableEntity,
	models.KindEconomic:      http.StatusUnprocessableEntity,
	models.KindUnavailable:   http.StatusServiceUnavailable,
}

// StatusOf maps an engine error to its HTTP status.
func StatusOf(err error) int {
	if status, ok := statusByKind[models.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError writes err using its stable code. Internal failures are
// attached to the gin context and reported without detail.
func HandleError(c *gin.Context, err error) {
	status := StatusOf(err)
	info := ErrorInfo{Code: models.CodeOf(err), Kind: models.KindOf(err), Message: err.Error()}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		info.Message = "Internal server error"
	}
	fail(c, status, info)
}
