package middleware

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

var upstreamIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequestID tags each request with an id, echoes it in the response header
// and attaches it to the request context so every log line carries it. A
// well-formed X-Request-ID from upstream is reused only when trustUpstream
// is set.
func RequestID(trustUpstream bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if trustUpstream {
			if v := c.GetHeader(RequestIDHeader); upstreamIDPattern.MatchString(v) {
				id = v
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String(requestIDKey, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
