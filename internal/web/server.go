// Package web serves the materials-assistant form page, a health check and
// Prometheus metrics.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CodexForgeBR/materials-assistant/internal/ai"
	"github.com/CodexForgeBR/materials-assistant/internal/assistant"
	"github.com/CodexForgeBR/materials-assistant/internal/banner"
	"github.com/CodexForgeBR/materials-assistant/internal/completion"
	"github.com/CodexForgeBR/materials-assistant/internal/logging"
)

// maxFormBytes bounds the POST body; a material name is a few words.
const maxFormBytes = 4 << 10

// Asker answers a material query. *assistant.Service implements it.
type Asker interface {
	GetCompletion(ctx context.Context, materialName string) (completion.Result, error)
}

// Config holds router dependencies.
type Config struct {
	Assistant Asker
	// MetricsHandler is mounted on /metrics when non-nil.
	MetricsHandler http.Handler
}

// NewRouter creates a chi router with every route configured.
func NewRouter(cfg Config) http.Handler {
	h := &handler{assistant: cfg.Assistant}

	r := chi.NewRouter()
	r.Use(ensureRequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/", h.ask)
	r.Get("/healthz", h.health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	return r
}

type handler struct {
	assistant Asker
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, pageData{})
}

func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		render(w, http.StatusBadRequest, pageData{Warning: "could not read the form"})
		return
	}
	material := r.PostFormValue("material")
	data := pageData{Material: material}

	start := time.Now()
	res, err := h.assistant.GetCompletion(r.Context(), material)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMaterial) {
			data.Warning = assistant.Capitalize(err.Error()) + "."
			render(w, http.StatusBadRequest, data)
			return
		}
		logging.Error("query failed", "material", material, "error", err.Error())
		data.Error = err.Error()
		data.Hint = banner.Hint(err)
		render(w, statusFor(err), data)
		return
	}

	data.Heading = assistant.Heading(material)
	data.Answer = renderMarkdown(res.Text)
	data.Attempts = res.Attempts
	data.Elapsed = logging.FormatDuration(time.Since(start))
	render(w, http.StatusOK, data)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// render executes the page into a buffer first so a template failure becomes
// a clean 500 instead of a half-written page.
func render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.Error("render page", "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusFor maps a query failure to the HTTP status of the rendered page.
func statusFor(err error) int {
	var (
		exhausted *ai.RetriesExhaustedError
		cfgErr    *ai.ConfigurationError
	)
	switch {
	case errors.As(err, &exhausted):
		return http.StatusServiceUnavailable
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
