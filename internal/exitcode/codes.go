// Package exitcode defines named exit codes for the materials-assistant CLI.
//
// Each code maps a terminal error class to a numeric value recognized by
// shell scripts and CI pipelines.
package exitcode

import (
	"context"
	"errors"

	"github.com/CodexForgeBR/materials-assistant/internal/ai"
)

const (
	Success          = 0   // Answer retrieved
	Error            = 1   // Invalid arguments or unclassified failure
	Config           = 2   // Missing credential or invalid setting
	FatalRequest     = 3   // Remote rejected the request (auth, payload, timeout)
	RetriesExhausted = 4   // Remote stayed overloaded for every attempt
	Interrupted      = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Config:
		return "Config"
	case FatalRequest:
		return "FatalRequest"
	case RetriesExhausted:
		return "RetriesExhausted"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// ForError maps err to its exit code. A nil error is Success.
func ForError(err error) int {
	var (
		cfgErr       *ai.ConfigurationError
		exhaustedErr *ai.RetriesExhaustedError
		fatalErr     *ai.FatalRequestError
	)
	switch {
	case err == nil:
		return Success
	case errors.Is(err, context.Canceled):
		return Interrupted
	case errors.As(err, &cfgErr):
		return Config
	case errors.As(err, &exhaustedErr):
		return RetriesExhausted
	case errors.As(err, &fatalErr):
		return FatalRequest
	default:
		return Error
	}
}
