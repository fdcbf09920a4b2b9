package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/models"
)

// Response is the envelope every endpoint writes
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries the stable error code. Kind is set for engine errors so
// clients can decide whether a retry makes sense.
type ErrorInfo struct {
	Code    string           `json:"code"`
	Kind    models.ErrorKind `json:"kind,omitempty"`
	Message string           `json:"message"`
	Details interface{}      `json:"details,omitempty"`
}

// ListMeta describes one page of a list
type ListMeta struct {
	Count  int `json:"count"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Message: message, Data: data})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	SuccessResponse(c, http.StatusCreated, message, data)
}

func ListResponse(c *gin.Context, message string, data interface{}, meta ListMeta) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data, Meta: meta})
}

// ErrorResponse writes a failure envelope
func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	fail(c, statusCode, ErrorInfo{Code: code, Message: message, Details: details})
}

func fail(c *gin.Context, statusCode int, info ErrorInfo) {
	c.JSON(statusCode, Response{Success: false, Error: &info})
}

// ValidationErrorResponse reports struct validation failures field by field
func ValidationErrorResponse(c *gin.Context, details interface{}) {
	fail(c, http.StatusBadRequest, ErrorInfo{
		Code:    "VALIDATION_ERROR",
		Kind:    models.KindValidation,
		Message: "Invalid request data",
		Details: details,
	})
}

func BadRequestResponse(c *gin.Context, details interface{}) {
	fail(c, http.StatusBadRequest, ErrorInfo{
		Code:    "BAD_REQUEST",
		Kind:    models.KindValidation,
		Message: "Invalid request data",
		Details: details,
	})
}

func UnauthorizedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized access", nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, ErrorInfo{Code: "FORBIDDEN", Kind: models.KindAuthorization, Message: message})
}

func TooManyRequestsResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
}
