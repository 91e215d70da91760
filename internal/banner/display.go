// Package banner renders materials-assistant results and failures for the
// terminal with color-coded headers and separators.
package banner

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/materials-assistant/internal/ai"
	"github.com/CodexForgeBR/materials-assistant/internal/assistant"
	"github.com/CodexForgeBR/materials-assistant/internal/completion"
	"github.com/CodexForgeBR/materials-assistant/internal/logging"
	"github.com/CodexForgeBR/materials-assistant/internal/prompt"
)

const rule = "═══════════════════════════════════════════════════"

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// PrintStartupBanner shows which model and endpoint a query will use.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  🧪 Materials Engineering Assistant
//	═══════════════════════════════════════════════════
//	  Agent:    Materials Engineering Agent
//	  Model:    gemini-2.0-flash
//	  Endpoint: https://generativelanguage.googleapis.com/...
//	═══════════════════════════════════════════════════
func PrintStartupBanner(w io.Writer, model, endpoint string) {
	sep := headerColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  🧪 Materials Engineering Assistant"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Agent:    %s\n", prompt.AgentName)
	fmt.Fprintf(w, "  Model:    %s\n", model)
	fmt.Fprintf(w, "  Endpoint: %s\n", endpoint)
	fmt.Fprintln(w, sep)
}

// PrintResultBanner displays a retrieved answer under its material heading.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Info Retrieved (3 attempts, 4.2s)
//	  📘 Titanium Details:
//	═══════════════════════════════════════════════════
//	Ti details
//	═══════════════════════════════════════════════════
func PrintResultBanner(w io.Writer, materialName string, res completion.Result, elapsed time.Duration) {
	sep := successColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, successColor(fmt.Sprintf("  ✓ Info Retrieved (%s, %s)", attemptsLabel(res.Attempts), logging.FormatDuration(elapsed))))
	fmt.Fprintln(w, headerColor(fmt.Sprintf("  📘 %s:", assistant.Heading(materialName))))
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, strings.TrimRight(res.Text, "\n"))
	fmt.Fprintln(w, sep)
}

// PrintErrorBanner displays a terminal failure with a hint matching its class.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ Error: retries exhausted after 5 attempts: ...
//	  The model is overloaded right now. Try again later.
//	═══════════════════════════════════════════════════
func PrintErrorBanner(w io.Writer, err error) {
	sep := errorColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, errorColor("  ✗ Error: ")+err.Error())
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(w, "  %s\n", hint)
	}
	fmt.Fprintln(w, sep)
}

// PrintWarningBanner displays a non-fatal input problem.
func PrintWarningBanner(w io.Writer, msg string) {
	sep := warnColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor("  ⚠ "+msg))
	fmt.Fprintln(w, sep)
}

// Hint returns user-facing advice for err, or "" when there is none.
func Hint(err error) string {
	var (
		exhausted *ai.RetriesExhaustedError
		cfgErr    *ai.ConfigurationError
	)
	switch {
	case errors.As(err, &exhausted):
		return "The model is overloaded right now. Try again later."
	case errors.As(err, &cfgErr) && cfgErr.Field == "GEMINI_API_KEY":
		return "Set GEMINI_API_KEY in the environment or in a .env file."
	case errors.As(err, &cfgErr):
		return "Check the configuration file and command-line flags."
	default:
		return ""
	}
}

func attemptsLabel(n int) string {
	if n == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", n)
}
