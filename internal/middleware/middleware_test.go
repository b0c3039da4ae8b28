package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"lively/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// captureLogs points Logger at a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(&ctxHandler{slog.NewTextHandler(&buf, nil)})
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func TestCtxHandler_AddsContextValues(t *testing.T) {
	buf := captureLogs(t)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(42))
	ctx = context.WithValue(ctx, TraceIDKey, "trace-1")
	Logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=42")
	assert.Contains(t, out, "trace_id=trace-1")
}

func TestStructuredLogger(t *testing.T) {
	buf := captureLogs(t)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, `msg="request processed"`)
	assert.Contains(t, out, "path=/ok")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "request_id=")

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Contains(t, buf.String(), `msg="request failed"`)
}

func TestTracingMiddleware(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		observability.Tracer = prev
		_ = tp.Shutdown(context.Background())
	})

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/traced", func(c *fiber.Ctx) error {
		_, ok := c.Locals("traceID").(string)
		assert.True(t, ok)
		return c.SendStatus(fiber.StatusInternalServerError)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/traced", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /traced", spans[0].Name())
	assert.Equal(t, resp.Header.Get("X-Trace-ID"), spans[0].SpanContext().TraceID().String())
}

func TestMetricsMiddleware_SkipsScrapePath(t *testing.T) {
	p := InitMetrics("lively-test")
	assert.Same(t, p, InitMetrics("another-name"))

	app := fiber.New()
	app.Use(MetricsMiddleware(p))
	p.RegisterAt(app, "/metrics")
	app.Get("/hello", func(c *fiber.Ctx) error { return c.SendString("hi") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/hello", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
