// Package cli provides help text and usage formatting for the materials-assistant CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `materials-assistant - Materials engineering Q&A backed by a chat-completion model

USAGE
  materials-assistant ask <material...> [flags]
  materials-assistant serve [flags]

COMMANDS
  ask                                    Print properties, uses and safety notes for a material
  serve                                  Run the web form on --listen

FLAGS
  Provider:
    --model <id>                         Model identifier (default: gemini-2.0-flash)
    --base-url <url>                     OpenAI-compatible base URL (default: Gemini endpoint)
    --temperature <float>                Sampling temperature, 0-2 (default: 0.7)
    --max-tokens <int>                   Answer length cap, 0 = provider default (default: 1024)

  Retry Policy:
    --max-attempts <int>                 Total calls before giving up on an overloaded model (default: 5)
    --base-delay-ms <int>                First backoff delay; doubles each retry (default: 1000)
    --request-timeout <int>              Per-attempt timeout in seconds (default: 15)

  Configuration:
    --config <path>                      KEY=VALUE file applied over the environment
    --env-file <path>                    Dotenv file read before the environment (default: .env)
    -v, --verbose                        Enable debug logging

  Web UI:
    -l, --listen <addr>                  Listen address for serve (default: :8501)

  Help & Version:
    -h, --help                           Show this help text
    --version                            Show version, commit, build date

ENVIRONMENT
  GEMINI_API_KEY (required), BASE_URL, MODEL, TEMPERATURE, MAX_TOKENS,
  MAX_ATTEMPTS, BASE_DELAY_MS, REQUEST_TIMEOUT, LISTEN_ADDR, VERBOSE

EXIT CODES
  0   Success              Answer retrieved
  1   Error                Invalid arguments or unexpected failure
  2   Config               Missing API key or invalid configuration
  3   FatalRequest         Provider rejected the request (auth, bad request, network)
  4   RetriesExhausted     Model stayed overloaded for every attempt
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Ask about a material
  materials-assistant ask titanium

  # Multi-word names are joined
  materials-assistant ask stainless steel 316L

  # Be more patient with an overloaded model
  materials-assistant ask copper --max-attempts 8 --base-delay-ms 2000

  # Serve the web form on another port
  materials-assistant serve --listen 127.0.0.1:8080

For more information, see: https://github.com/CodexForgeBR/materials-assistant
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
