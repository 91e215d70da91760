package ai

import (
	"context"

	"github.com/CodexForgeBR/materials-assistant/internal/completion"
)

// Completer performs a single chat completion.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (completion.Result, error)
}

var (
	_ Completer = (*completion.Client)(nil)
	_ Completer = (*RetryingClient)(nil)
)
