package api

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/joefazee/settle/internal/security"
)

const (
	identityKey = "identity"
	rolesKey    = "roles"
)

// Authenticate verifies the bearer token and stores the caller identity and
// roles on the context.
func Authenticate(maker security.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		fields := strings.Fields(header)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := maker.VerifyToken(fields[1])
		if err != nil {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(identityKey, payload.Subject)
		c.Set(rolesKey, payload.Roles)
		c.Next()
	}
}

// CallerFrom returns the authenticated identity.
func CallerFrom(c *gin.Context) (string, bool) {
	identity := c.GetString(identityKey)
	return identity, identity != ""
}

// HasRole reports whether the authenticated caller holds role.
func HasRole(c *gin.Context, role string) bool {
	for _, r := range c.GetStringSlice(rolesKey) {
		if r == role {
			return true
		}
	}
	return false
}

// Can rejects callers without role.
func Can(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(rolesKey); !exists {
			ForbiddenResponse(c, "Access Denied: Roles not found in context")
			c.Abort()
			return
		}

		if HasRole(c, role) {
			c.Next()
			return
		}

		ForbiddenResponse(c, "Access Denied: You do not have the required role")
		c.Abort()
	}
}

// RateLimit throttles each caller, or each client IP before authentication,
// to rps requests per second with the given burst.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = l
		}
		return l
	}

	return func(c *gin.Context) {
		key, ok := CallerFrom(c)
		if !ok {
			key = c.ClientIP()
		}

		if !limiterFor(key).Allow() {
			TooManyRequestsResponse(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
