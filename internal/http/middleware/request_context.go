package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/Hi-chem22/AFRAN-2025/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxRequestIDLen = 128
)

// RequestContext stores the request id (inbound X-Request-Id or a fresh uuid)
// and the active otel trace id, if any, on the request context so service
// logs can carry them. Both are echoed as response headers.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		td := &ctxutil.TraceData{RequestID: reqID}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
			c.Header(HeaderTraceID, td.TraceID)
		}
		c.Header(HeaderRequestID, reqID)
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Next()
	}
}
