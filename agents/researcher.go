// Package agents implements the four pipeline stages. Each stage owns its
// prompts and the parsing of the model's structured replies; the pipeline
// package only sees the typed results.
package agents

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"blogflow/generator"
	"blogflow/pipeline"
	"blogflow/search"
)

const fallbackSource = "model knowledge (no live search)"

// Researcher turns a topic into a bounded, citation-backed research brief.
type Researcher struct {
	llm        generator.LLMClient
	search     search.Client
	fetcher    *search.PageFetcher
	maxResults int
	maxNuggets int
	logger     *log.Logger
}

// NewResearcher builds the stage. A nil search client skips live search and
// relies on model knowledge only; a nil fetcher skips page excerpts.
func NewResearcher(llm generator.LLMClient, sc search.Client, fetcher *search.PageFetcher, maxResults, maxNuggets int, logger *log.Logger) (*Researcher, error) {
	if llm == nil {
		return nil, fmt.Errorf("researcher: llm client is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxNuggets <= 0 {
		maxNuggets = 7
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Researcher{
		llm:        llm,
		search:     sc,
		fetcher:    fetcher,
		maxResults: maxResults,
		maxNuggets: maxNuggets,
		logger:     logger,
	}, nil
}

func (r *Researcher) Research(ctx context.Context, topic string) (pipeline.ResearchBrief, error) {
	r.logger.Printf("[researcher] researching %q", topic)

	results := r.liveSearch(ctx, topic)
	if len(results) == 0 {
		return r.fallbackBrief(ctx, topic)
	}

	prompt := buildResearchPrompt(topic, results, r.maxNuggets)
	raw, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return pipeline.ResearchBrief{}, fmt.Errorf("compact research: %w", err)
	}

	overview, nuggets := parseBriefResponse(raw)
	if len(nuggets) == 0 {
		// The model ignored the format; salvage nuggets from raw snippets
		// so the writer still gets cited material.
		nuggets = nuggetsFromResults(results)
	}
	if len(nuggets) > r.maxNuggets {
		nuggets = nuggets[:r.maxNuggets]
	}

	brief := pipeline.ResearchBrief{
		Topic:     topic,
		Overview:  overview,
		Nuggets:   nuggets,
		Sources:   uniqueSources(nuggets),
		CreatedAt: time.Now(),
	}
	r.logger.Printf("[researcher] brief ready: %d nuggets, %d sources", len(brief.Nuggets), len(brief.Sources))
	return brief, nil
}

// liveSearch gathers evidence. All failures here are soft.
func (r *Researcher) liveSearch(ctx context.Context, topic string) []evidence {
	if r.search == nil {
		return nil
	}
	hits, err := r.search.Search(ctx, topic, r.maxResults)
	if err != nil {
		r.logger.Printf("[researcher] search unavailable, falling back to model knowledge: %v", err)
		return nil
	}

	out := make([]evidence, 0, len(hits))
	for i, h := range hits {
		ev := evidence{Result: h}
		if r.fetcher != nil && i < 3 {
			if excerpt, err := r.fetcher.Excerpt(ctx, h.Link); err == nil {
				ev.Excerpt = excerpt
			}
		}
		out = append(out, ev)
	}
	return out
}

// fallbackBrief asks the model for a brief from its own knowledge, marking
// the provenance so the editor and the artifact footer can surface it.
func (r *Researcher) fallbackBrief(ctx context.Context, topic string) (pipeline.ResearchBrief, error) {
	prompt := buildFallbackResearchPrompt(topic, r.maxNuggets)
	raw, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return pipeline.ResearchBrief{}, fmt.Errorf("fallback research: %w", err)
	}

	overview, nuggets := parseBriefResponse(raw)
	for i := range nuggets {
		if nuggets[i].Source == "" {
			nuggets[i].Source = fallbackSource
		}
	}
	if len(nuggets) > r.maxNuggets {
		nuggets = nuggets[:r.maxNuggets]
	}
	return pipeline.ResearchBrief{
		Topic:     topic,
		Overview:  overview,
		Nuggets:   nuggets,
		Sources:   []string{fallbackSource},
		CreatedAt: time.Now(),
	}, nil
}

type evidence struct {
	search.Result
	Excerpt string
}

func buildResearchPrompt(topic string, results []evidence, maxNuggets int) generator.Prompt {
	var sb strings.Builder
	sb.WriteString("You are a research specialist compiling a brief for a blog article.\n")
	sb.WriteString("Work only from the evidence below. Compact it into at most ")
	fmt.Fprintf(&sb, "%d nuggets.\n", maxNuggets)
	sb.WriteString("Reply in exactly this line format, nothing else:\n")
	sb.WriteString("OVERVIEW: <two sentences framing the topic>\n")
	sb.WriteString("NUGGET: <claim> | SOURCE: <url> | RECENCY: <date or 'undated'>\n")

	var user strings.Builder
	fmt.Fprintf(&user, "Topic: %s\n\nEvidence:\n", topic)
	for i, ev := range results {
		fmt.Fprintf(&user, "%d. %s (%s)\n   %s\n", i+1, ev.Title, ev.Link, ev.Snippet)
		if ev.Excerpt != "" {
			fmt.Fprintf(&user, "   Excerpt: %s\n", ev.Excerpt)
		}
	}

	return generator.Prompt{System: sb.String(), User: user.String()}
}

func buildFallbackResearchPrompt(topic string, maxNuggets int) generator.Prompt {
	var sb strings.Builder
	sb.WriteString("You are a research specialist. Live search is unavailable, so answer from your training knowledge and say so in the overview.\n")
	fmt.Fprintf(&sb, "Produce at most %d nuggets.\n", maxNuggets)
	sb.WriteString("Reply in exactly this line format, nothing else:\n")
	sb.WriteString("OVERVIEW: <two sentences framing the topic>\n")
	sb.WriteString("NUGGET: <claim> | SOURCE: <where this is commonly documented> | RECENCY: <'undated'>\n")

	return generator.Prompt{
		System: sb.String(),
		User:   fmt.Sprintf("Topic: %s", topic),
	}
}

func nuggetsFromResults(results []evidence) []pipeline.Nugget {
	var out []pipeline.Nugget
	for _, ev := range results {
		if strings.TrimSpace(ev.Snippet) == "" {
			continue
		}
		out = append(out, pipeline.Nugget{
			Claim:   strings.TrimSpace(ev.Snippet),
			Source:  ev.Link,
			Recency: ev.Published,
		})
	}
	return out
}

func uniqueSources(nuggets []pipeline.Nugget) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range nuggets {
		if n.Source == "" || seen[n.Source] {
			continue
		}
		seen[n.Source] = true
		out = append(out, n.Source)
	}
	return out
}
