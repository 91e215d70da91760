package logging_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/materials-assistant/internal/logging"
)

func init() {
	// Disable color output in tests so assertions match plain text.
	color.NoColor = true
}

// capture redirects log output into a buffer for the duration of fn.
func capture(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	prev := logging.SetOutput(&buf)
	defer logging.SetOutput(prev)

	fn()
	return buf.String()
}

// ---------------------------------------------------------------------------
// FormatDuration tests
// ---------------------------------------------------------------------------

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "1.5s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m 30s"},
		{3661 * time.Second, "1h 1m 1s"},
		{7200 * time.Second, "2h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.FormatDuration(tt.d))
		})
	}
}

// ---------------------------------------------------------------------------
// Log output tests
// ---------------------------------------------------------------------------

func TestLevelsWritePrefixAndMessage(t *testing.T) {
	tests := []struct {
		prefix string
		fn     func(string, ...any)
	}{
		{"[INFO]", logging.Info},
		{"[SUCCESS]", logging.Success},
		{"[WARN]", logging.Warn},
		{"[ERROR]", logging.Error},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			out := capture(t, func() { tt.fn("hello") })
			assert.Equal(t, tt.prefix+" hello\n", out)
		})
	}
}

func TestKeyValuePairs(t *testing.T) {
	out := capture(t, func() {
		logging.Info("retrying", "attempt", 2, "delay", "1.5s", "reason", "model overloaded")
	})
	assert.Equal(t, "[INFO] retrying attempt=2 delay=1.5s reason=\"model overloaded\"\n", out)
}

func TestOddKeyValuePairs(t *testing.T) {
	out := capture(t, func() {
		logging.Warn("odd", "orphan")
	})
	assert.Equal(t, "[WARN] odd orphan=<missing>\n", out)
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	logging.SetVerbose(false)
	out := capture(t, func() {
		logging.Debug("hidden")
	})
	assert.Empty(t, out)
}

func TestDebugShownWhenVerbose(t *testing.T) {
	logging.SetVerbose(true)
	defer logging.SetVerbose(false)

	out := capture(t, func() {
		logging.Debug("visible", "k", "v")
	})
	assert.Equal(t, "[DEBUG] visible k=v\n", out)
}
