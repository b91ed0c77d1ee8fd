package agents

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"blogflow/generator"
	"blogflow/pipeline"
)

const maxKeywords = 10

// SEO rewrites a draft for search placement without touching its revision
// number: the optimized draft supersedes the writer's at the same revision.
type SEO struct {
	llm    generator.LLMClient
	logger *log.Logger
}

func NewSEO(llm generator.LLMClient, logger *log.Logger) (*SEO, error) {
	if llm == nil {
		return nil, errors.New("seo: llm client is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SEO{llm: llm, logger: logger}, nil
}

func (s *SEO) Optimize(ctx context.Context, rc *pipeline.RunContext) (pipeline.Draft, error) {
	draft, ok := rc.LatestDraft()
	if !ok {
		return pipeline.Draft{}, errors.New("seo: no draft to optimize")
	}

	keywords := rc.Keywords()
	if len(keywords) == 0 {
		keywords = s.identifyKeywords(ctx, rc.Topic, draft.Body)
		rc.SetKeywords(keywords)
	}
	s.logger.Printf("[seo] optimizing revision %d, keywords=%v", draft.Revision, head(keywords, 5))

	raw, err := s.llm.Complete(ctx, buildOptimizePrompt(draft.Body, keywords))
	if err != nil {
		return pipeline.Draft{}, fmt.Errorf("optimize draft: %w", err)
	}
	body, err := cleanMarkdown(raw)
	if err != nil {
		return pipeline.Draft{}, err
	}
	return pipeline.Draft{
		Body:      body,
		Revision:  draft.Revision,
		Stage:     pipeline.StageSEO,
		CreatedAt: time.Now(),
	}, nil
}

func (s *SEO) MetaTags(ctx context.Context, rc *pipeline.RunContext) (pipeline.MetaTags, error) {
	draft, ok := rc.LatestDraft()
	if !ok {
		return pipeline.MetaTags{}, errors.New("seo: no draft for meta tags")
	}

	raw, err := s.llm.Complete(ctx, buildMetaPrompt(rc.Topic, rc.Keywords(), draft.Body))
	if err != nil {
		return pipeline.MetaTags{}, fmt.Errorf("meta tags: %w", err)
	}
	meta := parseMetaTags(raw)
	if meta.Title == "" {
		meta.Title = rc.Topic
	}
	return meta, nil
}

// identifyKeywords is best-effort: a failure falls back to topic-derived
// keywords rather than blocking the pipeline.
func (s *SEO) identifyKeywords(ctx context.Context, topic, body string) []string {
	raw, err := s.llm.Complete(ctx, buildKeywordPrompt(topic, body))
	if err != nil {
		s.logger.Printf("[seo] keyword identification failed, deriving from topic: %v", err)
		return []string{strings.ToLower(topic)}
	}
	keywords := parseKeywordList(raw, maxKeywords)
	if len(keywords) == 0 {
		return []string{strings.ToLower(topic)}
	}
	return keywords
}

func buildKeywordPrompt(topic, body string) generator.Prompt {
	var user strings.Builder
	fmt.Fprintf(&user, "Topic: %s\n\nDraft opening:\n%s\n", topic, truncate(body, 500))
	user.WriteString("\nIdentify the primary keyword, then secondary and long-tail keywords.\n")
	user.WriteString("Return ONLY a comma-separated list, primary keyword first.")
	return generator.Prompt{
		System: "You are an SEO expert selecting target keywords for an article.",
		User:   user.String(),
	}
}

func buildOptimizePrompt(body string, keywords []string) generator.Prompt {
	var sb strings.Builder
	sb.WriteString("You are an SEO strategist. Optimize the article below for the target keywords while preserving readability. Output only the optimized Markdown.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Primary keyword in the first paragraph, at least one H2, and the conclusion.\n")
	sb.WriteString("- Make headers descriptive for search intent.\n")
	sb.WriteString("- No keyword stuffing; the text must read naturally.\n")
	sb.WriteString("- Keep the original tone and facts.\n")

	var user strings.Builder
	user.WriteString("TARGET KEYWORDS (priority order):\n")
	for i, kw := range keywords {
		fmt.Fprintf(&user, "%d. %s\n", i+1, kw)
	}
	user.WriteString("\nARTICLE:\n")
	user.WriteString(body)

	return generator.Prompt{System: sb.String(), User: user.String()}
}

func buildMetaPrompt(topic string, keywords []string, body string) generator.Prompt {
	primary := topic
	if len(keywords) > 0 {
		primary = keywords[0]
	}
	var user strings.Builder
	fmt.Fprintf(&user, "Topic: %s\nPrimary keyword: %s\n\nArticle opening:\n%s\n", topic, primary, truncate(body, 300))
	user.WriteString("\nGenerate:\nTITLE: <50-60 chars, include the primary keyword>\nDESCRIPTION: <150-160 chars, compelling, include the primary keyword>")
	return generator.Prompt{
		System: "You generate SEO meta tags. Reply with exactly the TITLE: and DESCRIPTION: lines.",
		User:   user.String(),
	}
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
