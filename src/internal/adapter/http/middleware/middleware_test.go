package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vkdrn/bank-rest-api/src/internal/logger"
	"github.com/vkdrn/bank-rest-api/src/internal/telemetry"
)

func newRouter(handler http.HandlerFunc, mw ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/accounts/{id}", handler).Methods(http.MethodGet)
	r.Use(mw...)
	return r
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	r := newRouter(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}, RequestID(logger.NewNop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	r := newRouter(func(http.ResponseWriter, *http.Request) {}, RequestID(logger.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Empty(t, RequestIDFrom(context.Background()))
}

func TestTracingNamesSpanByRouteTemplate(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	r := newRouter(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, Tracing)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/42", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/accounts/{id}", spans[0].Name())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
}

func TestMetricsCountsByRouteTemplate(t *testing.T) {
	counter := telemetry.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/accounts/{id}", "200")
	before := testutil.ToFloat64(counter)

	r := newRouter(func(http.ResponseWriter, *http.Request) {}, Metrics)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/8", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
