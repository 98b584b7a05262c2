package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimit caps the request body at maxBytes, sized for the media
// upload ceiling plus multipart overhead. Oversized declared lengths are
// rejected up front with 413; bodies without a declared length are cut off
// by the reader once they cross the cap.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Uploaded file too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
