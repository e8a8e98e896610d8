package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// jsonBodyLimit caps the small JSON bodies of session create/patch.
const jsonBodyLimit = 64 << 10

// limitBody rejects bodies larger than n. A declared Content-Length is
// checked up front; chunked bodies fail on read with *http.MaxBytesError.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// uploadLimit allows a base64 data URL of MaxBytes plus multipart or JSON framing.
func (h *Handler) uploadLimit() int64 {
	return h.Loader.MaxBytes*4/3 + 1<<20
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// bindError reports a failed request decode, 413 when the body hit its cap.
func bindError(c *gin.Context, err error) {
	if isTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
