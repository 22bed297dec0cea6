package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	attrRequestID  = attribute.Key("request_id")
	attrUserID     = attribute.Key("user_id")
	attrUserType   = attribute.Key("user_type")
	attrTenantID   = attribute.Key("tenant_id")
	attrHTTPStatus = attribute.Key("http.status_code")
)

// Tracing starts a server span per request, named after the route pattern
// (e.g. "GET /api/v1/leads/:id"), using the global tracer provider.
func Tracing(serviceName string) gin.HandlerFunc {
	if serviceName == "" {
		serviceName = "crm-backend"
	}
	return otelgin.Middleware(serviceName)
}

// SpanAttributes must run after Tracing and RequestID. The actor is only
// known once authentication ran, so it is read after c.Next.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attrRequestID.String(id))
		}

		c.Next()

		if actor, ok := GetActor(c); ok {
			span.SetAttributes(attrUserID.String(actor.UserID.String()), attrUserType.String(string(actor.UserType)))
			if actor.HasTenant() {
				span.SetAttributes(attrTenantID.String(actor.TenantID.String()))
			}
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attrHTTPStatus.Int(status))
		}
	}
}
