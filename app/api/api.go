package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	corsHeaders = strings.Join([]string{
		"Content-Type", "Content-Length", "Accept-Encoding", "Authorization",
		"Accept", "Origin", "Cache-Control", "X-Requested-With",
	}, ", ")
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
)

func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", corsHeaders)
		h.Set("Access-Control-Allow-Methods", corsMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Probe reports the state of one dependency. A non-nil error marks the
// service unhealthy; detail is echoed in the report either way.
type Probe struct {
	Name  string
	Check func(ctx context.Context) (detail string, err error)
}

const probeTimeout = 2 * time.Second

// HealthCheck godoc
// @Summary Health Check
// @Description Report the status of the API and its dependencies
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/healthz [get]
func HealthCheck(env string, probes ...Probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		status, code := "healthy", http.StatusOK
		checks := make(map[string]string, len(probes))
		for _, p := range probes {
			detail, err := p.Check(ctx)
			if err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
				detail = err.Error()
			}
			checks[p.Name] = detail
		}

		c.JSON(code, gin.H{
			"status":      status,
			"environment": env,
			"checks":      checks,
		})
	}
}
