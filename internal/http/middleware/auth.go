package middleware

import (
	"net/http"
	"strings"

	"swiftlink/internal/auth"
	"swiftlink/internal/domain"

	"github.com/gin-gonic/gin"
)

const requestContextKey = "request_context"

// Verifier checks a bearer token.
type Verifier interface {
	Verify(raw string) (auth.Claims, error)
}

// Authenticate requires a valid bearer token and stores the caller in the
// gin context. It trusts the token claims and does not reload the user.
func Authenticate(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := v.Verify(strings.TrimSpace(raw))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		c.Set(requestContextKey, domain.RequestContext{
			UserID:    claims.UserID,
			Role:      claims.Role,
			RequestID: GetRequestID(c),
		})
		c.Next()
	}
}

// RequireCapability must run after Authenticate.
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if !auth.Can(rc.Role, capability) {
			abort(c, http.StatusForbidden, "forbidden", "role "+string(rc.Role)+" may not "+string(capability))
			return
		}
		c.Next()
	}
}

// GetRequestContext returns the authenticated caller.
func GetRequestContext(c *gin.Context) (domain.RequestContext, bool) {
	if c == nil {
		return domain.RequestContext{}, false
	}
	v, ok := c.Get(requestContextKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": GetRequestID(c),
		"message":    message,
	})
}
