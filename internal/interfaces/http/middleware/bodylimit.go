package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects bodies larger than maxBytes with 413. Bodies without a
// declared length are capped while being read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
