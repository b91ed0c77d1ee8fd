package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StyleGuide is the tone/length contract the writer and editor work against.
type StyleGuide struct {
	Tone      string   `yaml:"tone" json:"tone"`
	Audience  string   `yaml:"audience" json:"audience"`
	MinWords  int      `yaml:"min_words" json:"min_words"`
	MaxWords  int      `yaml:"max_words" json:"max_words"`
	Structure []string `yaml:"structure,omitempty" json:"structure,omitempty"`
	Notes     string   `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// DefaultStyleGuide mirrors the stock guidelines shipped with the tool.
func DefaultStyleGuide() StyleGuide {
	return StyleGuide{
		Tone:     "professional yet conversational",
		Audience: "tech-savvy professionals and content creators",
		MinWords: 1200,
		MaxWords: 1800,
		Structure: []string{
			"introduction",
			"3-5 main sections with H2/H3 headers",
			"bullet points for key takeaways",
			"conclusion",
		},
		Notes: "cite sources when mentioning statistics or research",
	}
}

// LoadStyleGuide reads a style guide from disk. YAML files are parsed into
// the structured form; any other file is treated as free-text notes on top
// of the defaults, for parity with plain-text style files.
func LoadStyleGuide(path string) (StyleGuide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StyleGuide{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		sg := DefaultStyleGuide()
		if err := yaml.Unmarshal(data, &sg); err != nil {
			return StyleGuide{}, fmt.Errorf("parse style guide %s: %w", path, err)
		}
		if sg.MinWords > 0 && sg.MaxWords > 0 && sg.MinWords > sg.MaxWords {
			return StyleGuide{}, fmt.Errorf("style guide %s: min_words > max_words", path)
		}
		return sg, nil
	}

	sg := DefaultStyleGuide()
	sg.Notes = strings.TrimSpace(string(data))
	return sg, nil
}

// Render formats the guide as a prompt block.
func (s StyleGuide) Render() string {
	var sb strings.Builder
	sb.WriteString("Writing style guidelines:\n")
	if s.Tone != "" {
		fmt.Fprintf(&sb, "- Tone: %s\n", s.Tone)
	}
	if s.Audience != "" {
		fmt.Fprintf(&sb, "- Target audience: %s\n", s.Audience)
	}
	if s.MinWords > 0 && s.MaxWords > 0 {
		fmt.Fprintf(&sb, "- Length: %d-%d words\n", s.MinWords, s.MaxWords)
	}
	for _, item := range s.Structure {
		fmt.Fprintf(&sb, "- Structure: %s\n", item)
	}
	if s.Notes != "" {
		fmt.Fprintf(&sb, "- %s\n", s.Notes)
	}
	return sb.String()
}
