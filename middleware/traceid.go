package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceIDKey    = "trace_id"
	TraceIDHeader = "X-Trace-ID"
	// RequestIDHeader is read when a proxy in front sets it instead.
	RequestIDHeader = "X-Request-ID"
)

// TraceID tags every request with a UUID. A UUID sent by the client (or the
// proxy) is kept so a client retry and its audit rows share one ID; anything
// else is replaced.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := incomingTraceID(c)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

func incomingTraceID(c *gin.Context) string {
	for _, h := range []string{TraceIDHeader, RequestIDHeader} {
		if v := c.GetHeader(h); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				return id.String()
			}
		}
	}
	return ""
}

// GetTraceID retrieves the trace ID from the Gin context.
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
