// Package prompt holds the assistant's instructions and turns a user query
// into a chat-completion request.
package prompt

import (
	_ "embed"
	"strings"
)

// AgentName is shown in the UI header and logs.
const AgentName = "Materials Engineering Agent"

//go:embed templates/materials-engineer.txt
var materialsEngineerTemplate string

// MaterialsEngineerInstructions is the system prompt sent with every query.
var MaterialsEngineerInstructions = strings.TrimSpace(materialsEngineerTemplate)
