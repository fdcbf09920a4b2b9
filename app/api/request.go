package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParseUUIDParam extracts and validates a UUID path parameter. On failure the
// bad request response has already been written.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		BadRequestResponse(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// BindJSON binds the request body into req.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		BadRequestResponse(c, err.Error())
		return false
	}
	return true
}
