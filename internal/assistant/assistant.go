// Package assistant is the caller-facing entry point: it turns a material
// name into a completion using the Materials Engineering prompt.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/CodexForgeBR/materials-assistant/internal/ai"
	"github.com/CodexForgeBR/materials-assistant/internal/completion"
	"github.com/CodexForgeBR/materials-assistant/internal/config"
	"github.com/CodexForgeBR/materials-assistant/internal/logging"
	"github.com/CodexForgeBR/materials-assistant/internal/metrics"
	"github.com/CodexForgeBR/materials-assistant/internal/prompt"
)

// ErrEmptyMaterial is returned for blank input; no remote call is made.
var ErrEmptyMaterial = errors.New("please enter a valid material name")

// Service answers material queries.
type Service struct {
	client   ai.Completer
	settings prompt.Settings

	// Metrics is optional; Source labels its observations ("cli" or "web").
	Metrics *metrics.CompletionMetrics
	Source  string
}

// New returns a Service that sends requests through client.
func New(client ai.Completer, settings prompt.Settings) *Service {
	return &Service{client: client, settings: settings}
}

// NewFromConfig validates cfg and wires the HTTP client, the retry policy,
// retry logging and metrics into a Service.
func NewFromConfig(cfg *config.Config, m *metrics.CompletionMetrics, source string) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inner := completion.NewClient(completion.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
	})
	maxAttempts := cfg.MaxAttempts
	retrying := &ai.RetryingClient{
		Inner: inner,
		RetryCfg: ai.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   cfg.BaseDelay(),
			OnRetry: func(attempt int, delay time.Duration) {
				logging.Warn("model overloaded, backing off",
					"attempt", attempt+1,
					"max_attempts", maxAttempts,
					"delay", logging.FormatDuration(delay))
				m.ObserveRetry()
			},
		},
	}

	svc := New(retrying, prompt.Settings{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	svc.Metrics = m
	svc.Source = source
	return svc, nil
}

// GetCompletion asks the model about materialName. Exactly one of the result
// or the error is meaningful; partial results are never returned.
func (s *Service) GetCompletion(ctx context.Context, materialName string) (completion.Result, error) {
	start := time.Now()

	name := strings.TrimSpace(materialName)
	if name == "" {
		s.observe(ErrEmptyMaterial, start, 0)
		return completion.Result{}, ErrEmptyMaterial
	}

	logging.Debug("requesting completion", "material", name, "model", s.settings.Model)
	req := prompt.Build(prompt.ForMaterial(name), s.settings)

	res, err := s.client.Complete(ctx, req)
	s.observe(err, start, res.Attempts)
	if err != nil {
		return completion.Result{}, err
	}
	logging.Debug("completion received", "material", name, "attempts", res.Attempts,
		"elapsed", logging.FormatDuration(time.Since(start)))
	return res, nil
}

func (s *Service) observe(err error, start time.Time, attempts int) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.ObserveRequest(s.Source, Outcome(err), time.Since(start).Seconds())
	if err == nil {
		s.Metrics.ObserveAttempts(attempts)
	}
}

// Outcome classifies err into a metrics outcome label.
func Outcome(err error) string {
	var (
		cfgErr       *ai.ConfigurationError
		exhaustedErr *ai.RetriesExhaustedError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrEmptyMaterial):
		return metrics.OutcomeInvalid
	case errors.As(err, &cfgErr):
		return metrics.OutcomeConfig
	case errors.As(err, &exhaustedErr):
		return metrics.OutcomeExhausted
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFatal
	}
}

// Heading returns the "<Material> Details" title shown above an answer.
func Heading(materialName string) string {
	return Capitalize(strings.TrimSpace(materialName)) + " Details"
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
