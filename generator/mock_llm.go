package generator

import (
	"context"
	"strings"
	"sync"
)

// MockLLM is an offline stand-in. With a Script it replays responses in
// order; otherwise it echoes the user prompt as a small markdown document.
type MockLLM struct {
	Script []string

	mu   sync.Mutex
	next int
}

func (m *MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next < len(m.Script) {
		out := m.Script[m.next]
		m.next++
		return out, nil
	}

	var sb strings.Builder
	sb.WriteString("# Generated Draft\n\n")
	sb.WriteString("A short summary paragraph for the requested content.\n\n")
	sb.WriteString("## Body\n\n")
	sb.WriteString("Content produced from the prompt below:\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}

// Calls reports how many scripted responses have been consumed.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}
