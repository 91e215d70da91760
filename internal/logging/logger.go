// Package logging provides colored, leveled log output for materials-assistant.
//
// Every line is written to stderr (so stdout carries only the answer) with a
// color-coded level prefix and optional key=value pairs. Debug output is
// suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	debugPrefix   = color.New(color.FgMagenta).SprintFunc()
	keyColor      = color.New(color.Faint).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// Info logs an informational message in blue.
func Info(msg string, kv ...any) {
	write(infoPrefix("[INFO]"), msg, kv)
}

// Success logs a success message in green.
func Success(msg string, kv ...any) {
	write(successPrefix("[SUCCESS]"), msg, kv)
}

// Warn logs a warning in yellow.
func Warn(msg string, kv ...any) {
	write(warnPrefix("[WARN]"), msg, kv)
}

// Error logs an error in red.
func Error(msg string, kv ...any) {
	write(errorPrefix("[ERROR]"), msg, kv)
}

// Debug logs only when verbose mode is enabled.
func Debug(msg string, kv ...any) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	write(debugPrefix("[DEBUG]"), msg, kv)
}

func write(prefix, msg string, kv []any) {
	line := prefix + " " + msg + formatPairs(kv)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, line)
}

// formatPairs renders alternating keys and values as " key=value ...".
// A trailing key without a value is rendered as key=<missing>.
func formatPairs(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		val := "<missing>"
		if i+1 < len(kv) {
			val = fmt.Sprint(kv[i+1])
		}
		if strings.ContainsAny(val, " \t\n\"") {
			val = fmt.Sprintf("%q", val)
		}
		b.WriteString(" ")
		b.WriteString(keyColor(key + "="))
		b.WriteString(val)
	}
	return b.String()
}

// FormatDuration converts a duration to a short human-readable string.
//
// Examples:
//
//	FormatDuration(0)                      => "0s"
//	FormatDuration(1500 * time.Millisecond) => "1.5s"
//	FormatDuration(90 * time.Second)       => "1m 30s"
//	FormatDuration(3661 * time.Second)     => "1h 1m 1s"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		s := fmt.Sprintf("%.1f", d.Seconds())
		s = strings.TrimSuffix(s, ".0")
		return s + "s"
	}
	seconds := int(d / time.Second)
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
