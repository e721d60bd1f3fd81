package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/interfaces/http/dto"
)

const requestTooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit rejects declared oversize bodies up front and caps streamed
// ones; reads past maxBytes then fail with *http.MaxBytesError, which
// BindingError turns into REQUEST_TOO_LARGE.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, requestTooLargeMessage)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
