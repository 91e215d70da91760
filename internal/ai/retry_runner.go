package ai

import (
	"context"

	"github.com/CodexForgeBR/materials-assistant/internal/completion"
)

// RetryingClient wraps any Completer with RetryWithBackoff retry logic.
type RetryingClient struct {
	Inner    Completer
	RetryCfg RetryConfig
}

// Complete delegates to the inner completer, retrying transient overloads.
// On success Result.Attempts holds the number of calls consumed.
func (r *RetryingClient) Complete(ctx context.Context, req completion.Request) (completion.Result, error) {
	var res completion.Result
	attempts, err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var callErr error
		res, callErr = r.Inner.Complete(ctx, req)
		return callErr
	})
	if err != nil {
		return completion.Result{}, err
	}
	res.Attempts = attempts
	return res, nil
}
