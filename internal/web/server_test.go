package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/materials-assistant/internal/ai"
	"github.com/CodexForgeBR/materials-assistant/internal/assistant"
	"github.com/CodexForgeBR/materials-assistant/internal/completion"
	"github.com/CodexForgeBR/materials-assistant/internal/logging"
	"github.com/CodexForgeBR/materials-assistant/internal/metrics"
	"github.com/CodexForgeBR/materials-assistant/internal/prompt"
)

// fakeCompleter returns a canned result or error and counts calls.
type fakeCompleter struct {
	calls  int
	result completion.Result
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, req completion.Request) (completion.Result, error) {
	f.calls++
	return f.result, f.err
}

// panicAsker simulates a handler bug.
type panicAsker struct{}

func (panicAsker) GetCompletion(ctx context.Context, materialName string) (completion.Result, error) {
	panic("boom")
}

func silenceLogs(t *testing.T) {
	t.Helper()
	var sink strings.Builder
	prev := logging.SetOutput(&sink)
	t.Cleanup(func() { logging.SetOutput(prev) })
}

func newTestRouter(t *testing.T, fc *fakeCompleter) http.Handler {
	t.Helper()
	silenceLogs(t)
	return NewRouter(Config{Assistant: assistant.New(fc, prompt.Settings{Model: "m"})})
}

func postMaterial(t *testing.T, router http.Handler, material string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"material": {material}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIndex_RendersEmptyForm(t *testing.T) {
	router := newTestRouter(t, &fakeCompleter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="title">Materials Engineering Assistant</div>`)
	assert.Contains(t, body, "Enter a material name to get expert analysis")
	assert.Contains(t, body, `name="material"`)
	assert.NotContains(t, body, `class="response-box"`)
	assert.NotContains(t, body, `class="warning"`)
	assert.NotContains(t, body, `class="error"`)
}

func TestAsk_Success(t *testing.T) {
	fc := &fakeCompleter{result: completion.Result{Text: "Titanium is **light** and strong.", Attempts: 3}}
	router := newTestRouter(t, fc)

	rec := postMaterial(t, router, "titanium")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "✅ Info Retrieved (3 attempts,")
	assert.Contains(t, body, "📘 Titanium Details:")
	assert.Contains(t, body, `<div class="response-box"><p>Titanium is <strong>light</strong> and strong.</p>`)
	assert.Contains(t, body, `value="titanium"`)
	assert.Equal(t, 1, fc.calls)
}

func TestAsk_SingleAttemptLabel(t *testing.T) {
	router := newTestRouter(t, &fakeCompleter{result: completion.Result{Text: "ok", Attempts: 1}})

	rec := postMaterial(t, router, "Zinc")

	assert.Contains(t, rec.Body.String(), "(1 attempt,")
}

func TestAsk_EmptyMaterialWarnsWithoutCalling(t *testing.T) {
	fc := &fakeCompleter{}
	router := newTestRouter(t, fc)

	rec := postMaterial(t, router, "   ")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "⚠️ Please enter a valid material name.")
	assert.Zero(t, fc.calls)
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		contains   []string
	}{
		{
			name:       "retries exhausted",
			err:        &ai.RetriesExhaustedError{Attempts: 5, Last: errors.New("status 503")},
			wantStatus: http.StatusServiceUnavailable,
			contains:   []string{"❌ Error: retries exhausted after 5 attempts: status 503", "Try again later."},
		},
		{
			name:       "fatal request verbatim",
			err:        &ai.FatalRequestError{Err: errors.New("chat completion: status 401: API key not valid")},
			wantStatus: http.StatusBadGateway,
			contains:   []string{"❌ Error: chat completion: status 401: API key not valid"},
		},
		{
			name:       "canceled",
			err:        &ai.FatalRequestError{Err: context.Canceled},
			wantStatus: http.StatusGatewayTimeout,
			contains:   []string{"context canceled"},
		},
		{
			name:       "configuration",
			err:        &ai.ConfigurationError{Field: "GEMINI_API_KEY", Reason: "is not set"},
			wantStatus: http.StatusInternalServerError,
			contains:   []string{"GEMINI_API_KEY is not set", "Set GEMINI_API_KEY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeCompleter{result: completion.Result{Text: "partial"}, err: tt.err})

			rec := postMaterial(t, router, "Titanium")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := rec.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			assert.NotContains(t, body, `class="response-box"`)
			assert.NotContains(t, body, "partial")
		})
	}
}

func TestAsk_EscapesInputAndSkipsRawHTML(t *testing.T) {
	router := newTestRouter(t, &fakeCompleter{result: completion.Result{
		Text:     "Safe <script>alert(1)</script> text",
		Attempts: 1,
	}})

	rec := postMaterial(t, router, `<b>steel</b>`)

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<b>steel</b>")
	assert.Contains(t, body, "&lt;b&gt;steel&lt;/b&gt;")
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeCompleter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	silenceLogs(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewCompletionMetrics(reg)
	svc := assistant.New(&fakeCompleter{result: completion.Result{Text: "ok", Attempts: 1}}, prompt.Settings{})
	svc.Metrics = m
	svc.Source = "web"

	router := NewRouter(Config{
		Assistant:      svc,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	postMaterial(t, router, "Copper")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `materials_assistant_completion_requests_total{outcome="success",source="web"} 1`)
}

func TestMetricsEndpoint_AbsentWithoutHandler(t *testing.T) {
	router := newTestRouter(t, &fakeCompleter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, &fakeCompleter{})

	t.Run("generated when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		id := rec.Header().Get(middleware.RequestIDHeader)
		assert.Len(t, id, 36)
	})

	t.Run("caller id preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestRequestLoggerWritesLine(t *testing.T) {
	var sink strings.Builder
	prev := logging.SetOutput(&sink)
	t.Cleanup(func() { logging.SetOutput(prev) })

	router := NewRouter(Config{Assistant: assistant.New(&fakeCompleter{}, prompt.Settings{})})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := sink.String()
	assert.Contains(t, line, "request completed")
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/healthz")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "request_id=req-1")
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	silenceLogs(t)
	router := NewRouter(Config{Assistant: panicAsker{}})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("material=iron"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { router.ServeHTTP(rec, req) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
