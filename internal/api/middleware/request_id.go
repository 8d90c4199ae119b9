package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// requestIDMaxLen caps externally supplied IDs so they cannot pollute logs.
const requestIDMaxLen = 64

// RequestID reads X-Request-ID from the request, generating a UUID when the
// header is absent or oversized, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(RequestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
