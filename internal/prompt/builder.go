package prompt

import "github.com/CodexForgeBR/materials-assistant/internal/completion"

// Prompt pairs the system instructions with the user's text.
type Prompt struct {
	SystemInstructions string
	UserText           string
}

// Settings are the model and sampling parameters applied to every request.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ForMaterial builds the prompt for a material-name query.
func ForMaterial(materialName string) Prompt {
	return Prompt{
		SystemInstructions: MaterialsEngineerInstructions,
		UserText:           materialName,
	}
}

// Build converts p into a two-message request: system, then user.
func Build(p Prompt, s Settings) completion.Request {
	return completion.Request{
		Model: s.Model,
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: p.SystemInstructions},
			{Role: completion.RoleUser, Content: p.UserText},
		},
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}
