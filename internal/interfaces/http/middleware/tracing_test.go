package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, otelgin.Option) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return sr, otelgin.WithTracerProvider(tp)
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanPerRoute(t *testing.T) {
	sr, opt := setupTestTracer(t)

	router := gin.New()
	router.Use(RequestID(), Tracing("ramenshop", opt), TracingAttributeInjector())
	router.GET("/api/v1/products/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/tonkotsu", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/products/:slug", spans[0].Name())
	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-42", v.AsString())
	_, ok = spanAttr(spans[0], "user_id")
	assert.False(t, ok, "anonymous requests carry no user")
}

func TestTracing_UserAttributes(t *testing.T) {
	sr, opt := setupTestTracer(t)
	svc := newTestJWTService()
	pair, userID := newTestToken(t, svc, shared.RoleEmployee)

	router := gin.New()
	router.Use(Tracing("ramenshop", opt))
	router.GET("/api/v1/shifts/mine", JWTAuthMiddleware(svc, nil, nil), TracingAttributeInjector(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shifts/mine", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "user_id")
	require.True(t, ok)
	assert.Equal(t, userID.String(), v.AsString())
	v, _ = spanAttr(spans[0], "user_role")
	assert.Equal(t, string(shared.RoleEmployee), v.AsString())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status  int
		isError bool
		message string
	}{
		{http.StatusOK, false, ""},
		{http.StatusNotFound, true, "Not Found"},
		{http.StatusConflict, true, "Conflict"},
		{http.StatusBadGateway, true, ""},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr, opt := setupTestTracer(t)
			router := gin.New()
			router.Use(Tracing("ramenshop", opt), SpanErrorMarker())
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			if !tt.isError {
				assert.NotEqual(t, codes.Error, spans[0].Status().Code)
				return
			}
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, spans[0].Status().Description)
			}
		})
	}
}
