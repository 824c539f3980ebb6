package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/vendalytics/vendalytics/internal/types"
)

// RequestContext seeds the request-scoped context with a request id and the
// default tenant/user identities. Authentication is handled by the
// surrounding product; this backend only needs stable identities for audit
// columns and log correlation.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		requestID := c.GetHeader("x-request-id")
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
		}

		ctx = types.SetRequestID(ctx, requestID)
		ctx = types.SetTenantID(ctx, types.DefaultTenantID)
		ctx = types.SetUserID(ctx, types.DefaultUserID)

		c.Header("x-request-id", requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
