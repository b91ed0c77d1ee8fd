// Package publisher turns a finished pipeline run into the on-disk artifact:
// one Markdown file per run with a front-matter block, the article body, and
// a generation footer. It also renders HTML previews for the serve mode.
package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"blogflow/pipeline"
)

var unsafeFilenameRe = regexp.MustCompile(`[^a-z0-9]+`)

// Publisher writes articles into a single output directory.
type Publisher struct {
	outputDir string
	logger    *log.Logger
}

func New(outputDir string, logger *log.Logger) (*Publisher, error) {
	if outputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{outputDir: outputDir, logger: logger}, nil
}

// Publish assembles the artifact and writes it as <sanitized-title>.md,
// returning the path.
func (p *Publisher) Publish(article pipeline.Article) (string, error) {
	if strings.TrimSpace(article.Body) == "" {
		return "", errors.New("article body is empty")
	}
	name := SanitizeFilename(article.Title)
	if name == "" {
		name = "article"
	}
	path := filepath.Join(p.outputDir, name+".md")

	content := Assemble(article)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	p.logger.Printf("[publisher] wrote %s (%d bytes)", path, len(content))
	return path, nil
}

// Assemble renders front matter, body, and the generation footer.
func Assemble(article pipeline.Article) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %q\n", article.Title)
	if article.Author != "" {
		fmt.Fprintf(&sb, "author: %q\n", article.Author)
	}
	fmt.Fprintf(&sb, "date: %s\n", article.Date.Format("2006-01-02"))
	if len(article.Keywords) > 0 {
		fmt.Fprintf(&sb, "keywords: [%s]\n", strings.Join(article.Keywords, ", "))
	}
	if article.Description != "" {
		fmt.Fprintf(&sb, "description: %q\n", article.Description)
	}
	fmt.Fprintf(&sb, "sources: %d\n", article.SourceCount)
	sb.WriteString("---\n\n")

	sb.WriteString(strings.TrimSpace(article.Body))
	sb.WriteString("\n\n---\n")

	footer := "*Generated by blogflow"
	if article.Model != "" {
		footer += fmt.Sprintf(" (%s)", article.Model)
	}
	footer += fmt.Sprintf(", editorial score %.1f/10.*", article.Score)
	sb.WriteString(footer)
	sb.WriteString("\n")
	return sb.String()
}

// SanitizeFilename lowercases the title and collapses everything that is
// not alphanumeric into single dashes.
func SanitizeFilename(title string) string {
	name := unsafeFilenameRe.ReplaceAllString(strings.ToLower(title), "-")
	name = strings.Trim(name, "-")
	const maxLen = 80
	if len(name) > maxLen {
		name = strings.Trim(name[:maxLen], "-")
	}
	return name
}

// RenderHTML converts markdown to HTML for the preview endpoint.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
