package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"blogflow/generator"
	"blogflow/search"
)

func TestResearchBoundsNuggets(t *testing.T) {
	var reply strings.Builder
	reply.WriteString("OVERVIEW: A crowded topic.\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&reply, "NUGGET: claim %d | SOURCE: https://example.com/%d | RECENCY: undated\n", i, i%3)
	}

	llm := &generator.MockLLM{Script: []string{reply.String()}}
	sc := &search.MockClient{Results: []search.Result{
		{Title: "a", Link: "https://example.com/0", Snippet: "snippet"},
	}}
	r, err := NewResearcher(llm, sc, nil, 10, 5, nil)
	if err != nil {
		t.Fatalf("NewResearcher: %v", err)
	}

	brief, err := r.Research(context.Background(), "crowded topic")
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if len(brief.Nuggets) != 5 {
		t.Fatalf("nuggets=%d, want capped at 5", len(brief.Nuggets))
	}
	if len(brief.Sources) != 3 {
		t.Fatalf("sources=%v, want 3 unique", brief.Sources)
	}
	if brief.Topic != "crowded topic" {
		t.Fatalf("topic=%q", brief.Topic)
	}
}

func TestResearchSalvagesUnparseableReply(t *testing.T) {
	llm := &generator.MockLLM{Script: []string{"the model rambled instead of following the format"}}
	sc := &search.MockClient{Results: []search.Result{
		{Title: "a", Link: "https://example.com/a", Snippet: "fact from snippet a"},
		{Title: "b", Link: "https://example.com/b", Snippet: "fact from snippet b"},
	}}
	r, err := NewResearcher(llm, sc, nil, 10, 7, nil)
	if err != nil {
		t.Fatalf("NewResearcher: %v", err)
	}

	brief, err := r.Research(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if len(brief.Nuggets) != 2 {
		t.Fatalf("nuggets=%d, want snippets salvaged", len(brief.Nuggets))
	}
	if brief.Nuggets[0].Claim != "fact from snippet a" {
		t.Fatalf("claim=%q", brief.Nuggets[0].Claim)
	}
}

func TestResearchFallsBackWithoutSearch(t *testing.T) {
	llm := &generator.MockLLM{Script: []string{
		"OVERVIEW: From training knowledge.\nNUGGET: a known fact | SOURCE: standard library docs | RECENCY: undated",
	}}
	sc := &search.MockClient{Err: errors.New("search quota exceeded")}
	r, err := NewResearcher(llm, sc, nil, 10, 7, nil)
	if err != nil {
		t.Fatalf("NewResearcher: %v", err)
	}

	brief, err := r.Research(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if len(brief.Sources) != 1 || brief.Sources[0] != fallbackSource {
		t.Fatalf("sources=%v, want fallback marker", brief.Sources)
	}
	for _, n := range brief.Nuggets {
		if n.Source == "" {
			t.Fatalf("fallback nugget left without source marker")
		}
	}
}

func TestResearchTerminalOnModelFailure(t *testing.T) {
	sc := &search.MockClient{Results: []search.Result{{Title: "a", Link: "https://e.com", Snippet: "s"}}}
	r, _ := NewResearcher(failingLLM{}, sc, nil, 10, 7, nil)
	if _, err := r.Research(context.Background(), "topic"); err == nil {
		t.Fatalf("expected terminal error when the model is unreachable")
	}
}
