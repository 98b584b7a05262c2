package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier so a submission can be
// correlated with its polling requests in the logs. A caller-supplied
// X-Request-ID is honored; otherwise a UUIDv7 is minted.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			id, _ := uuid.NewV7()
			requestID = id.String()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
