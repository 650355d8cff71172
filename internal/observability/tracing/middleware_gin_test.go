package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/estate/internal/observability/context"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedEngine(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := obscontext.WithRequestID(c.Request.Context(), "req-1")
		ctx = obscontext.WithActorID(ctx, c.GetHeader("X-Actor-ID"))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(GinMiddleware())
	r.GET("/api/bills/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/api/payments", func(c *gin.Context) {
		_ = c.Error(apperr.Storage("insert payment", errors.New("dial tcp 10.0.0.1:5432: refused")))
		c.AbortWithStatus(http.StatusInternalServerError)
	})
	return r, recorder
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestGinMiddlewareNamesSpanByRoute(t *testing.T) {
	r, recorder := newTracedEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bills/42", nil)
	req.Header.Set("X-Actor-ID", "7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "HTTP GET /api/bills/:id", span.Name())
	attrs := spanAttrs(span)
	assert.Equal(t, "7", attrs["enduser.id"].AsString())
	assert.Equal(t, "req-1", attrs["request_id"].AsString())
	assert.Equal(t, int64(http.StatusOK), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, "/api/bills/:id", attrs["http.route"].AsString())
	assert.Equal(t, codes.Unset, span.Status().Code)
}

func TestGinMiddlewareRecordsServerErrorsWithoutDetail(t *testing.T) {
	r, recorder := newTracedEngine(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/payments", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "storage_error", spanAttrs(span)["error.code"].AsString())

	require.NotEmpty(t, span.Events())
	for _, event := range span.Events() {
		for _, kv := range event.Attributes {
			assert.NotContains(t, kv.Value.Emit(), "10.0.0.1")
		}
	}
}
