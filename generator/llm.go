package generator

import "context"

// LLMClient abstracts the generative-text capability so every stage can be
// exercised against a mock without network access.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Settings carries provider configuration for concrete clients.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// Prompt is the message set sent to the model for one completion.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message carries optional prior turns.
type Message struct {
	Role    string
	Content string
}
