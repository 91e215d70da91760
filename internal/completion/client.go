package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// ErrNoChoices is returned when a 2xx response carries no choices.
var ErrNoChoices = errors.New("chat completion: response contained no choices")

// StatusError is returned for any non-2xx response. Err is the underlying
// *openai.APIError or *openai.RequestError.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("chat completion: status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat completion: status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// chatAPI is the subset of *openai.Client used here.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures a Client.
type Options struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client performs one chat-completion call per Complete invocation. It never
// retries; see ai.RetryingClient for that.
type Client struct {
	baseURL string
	timeout time.Duration
	api     chatAPI
}

// NewClient builds a Client, filling in defaults for empty options.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		api:     openai.NewClientWithConfig(cfg),
	}
}

// Endpoint returns the chat-completions URL derived from the base URL.
func (c *Client) Endpoint() string {
	return strings.TrimRight(c.baseURL, "/") + "/chat/completions"
}

// Complete sends req and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, toOpenAI(req))
	if err != nil {
		if statusErr := asStatusError(err); statusErr != nil {
			return Result{}, statusErr
		}
		return Result{}, fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrNoChoices
	}
	return Result{Text: resp.Choices[0].Message.Content, Attempts: 1}, nil
}

// toOpenAI maps a Request onto the go-openai wire type. A zero temperature
// is dropped by go-openai's omitempty tag, leaving the provider default.
func toOpenAI(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
}

// asStatusError converts go-openai's HTTP failures into a *StatusError, or
// returns nil for transport and decoding errors.
func asStatusError(err error) *StatusError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &StatusError{
			StatusCode: apiErr.HTTPStatusCode,
			Status:     apiErr.HTTPStatus,
			Body:       apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{
			StatusCode: reqErr.HTTPStatusCode,
			Status:     reqErr.HTTPStatus,
			Body:       errorDetail(reqErr.Body),
			Err:        err,
		}
	}
	return nil
}

// errorDetail extracts the provider's message from a body go-openai could
// not decode as a single error object: Gemini's one-element error list, or
// otherwise a trimmed excerpt of the raw body.
func errorDetail(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var list []errorEnvelope
	if err := json.Unmarshal(trimmed, &list); err == nil && len(list) > 0 && list[0].Error.Message != "" {
		return joinDetail(list[0].Error.Status, list[0].Error.Message)
	}

	s := string(trimmed)
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}

func joinDetail(status, msg string) string {
	if status == "" {
		return msg
	}
	return status + ": " + msg
}
