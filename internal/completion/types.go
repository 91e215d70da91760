// Package completion talks to an OpenAI-compatible chat-completion endpoint.
package completion

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is sent verbatim to the chat-completion endpoint.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Result is the text of the first choice of a completion response.
//
// Attempts is diagnostic only: the number of underlying calls consumed to
// produce the result. A plain Client always reports 1.
type Result struct {
	Text     string
	Attempts int
}

// errorEnvelope is one entry of the list-shaped error body Gemini returns.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
