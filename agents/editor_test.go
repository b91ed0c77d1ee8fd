package agents

import (
	"context"
	"strings"
	"testing"

	"blogflow/generator"
	"blogflow/pipeline"
)

func goodDraftBody() string {
	return "# Title\n\nHook with a source (https://example.com).\n\n" +
		"## One\n\ntext\n\n## Two\n\ntext\n\n## Three\n\n- takeaway\n\n" +
		strings.Repeat("word ", 150)
}

func newReviewContext(t *testing.T, revision int) *pipeline.RunContext {
	t.Helper()
	rc := pipeline.NewRunContext("test topic", pipeline.StyleGuide{MinWords: 100, MaxWords: 400})
	rc.AddDraft(pipeline.Draft{Body: goodDraftBody(), Revision: revision, Stage: pipeline.StageWrite})
	return rc
}

func TestReviewApprovesAtThreshold(t *testing.T) {
	// Structural score is 10 for this draft; model says 6 -> final 8.
	llm := &generator.MockLLM{Script: []string{"SCORE: 6\nSTRENGTHS:\n- solid structure"}}
	ed, err := NewEditor(llm, 7.0, 3, nil)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}

	verdict, err := ed.Review(context.Background(), newReviewContext(t, 0))
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if verdict.Score != 8 {
		t.Fatalf("score=%v, want 8", verdict.Score)
	}
	if verdict.Decision != pipeline.DecisionApprove {
		t.Fatalf("decision=%s, want approve", verdict.Decision)
	}
	if verdict.Forced {
		t.Fatalf("approve at threshold must not be forced")
	}
}

func TestReviewRevisesBelowThreshold(t *testing.T) {
	// Model score 2 -> final 6, below the 7.0 threshold, budget remains.
	llm := &generator.MockLLM{Script: []string{"SCORE: 2\nISSUES:\n- thin content"}}
	ed, err := NewEditor(llm, 7.0, 3, nil)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}

	verdict, err := ed.Review(context.Background(), newReviewContext(t, 0))
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if verdict.Decision != pipeline.DecisionRevise {
		t.Fatalf("decision=%s, want revise", verdict.Decision)
	}
	if len(verdict.Issues) != 1 {
		t.Fatalf("issues=%v", verdict.Issues)
	}
}

func TestReviewForcesStopWhenBudgetSpent(t *testing.T) {
	llm := &generator.MockLLM{Script: []string{"SCORE: 2\nISSUES:\n- still thin"}}
	ed, err := NewEditor(llm, 7.0, 3, nil)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}

	// Draft already at revision 3 = the configured maximum.
	verdict, err := ed.Review(context.Background(), newReviewContext(t, 3))
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if verdict.Decision != pipeline.DecisionApprove {
		t.Fatalf("decision=%s, want forced approve", verdict.Decision)
	}
	if !verdict.Forced {
		t.Fatalf("verdict must be marked forced")
	}
}

func TestReviewSurvivesModelFailure(t *testing.T) {
	ed, err := NewEditor(failingLLM{}, 7.0, 3, nil)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}

	verdict, err := ed.Review(context.Background(), newReviewContext(t, 0))
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	// Structural score alone: 10 for this draft.
	if verdict.Score != 10 {
		t.Fatalf("score=%v, want structural 10", verdict.Score)
	}
	if len(verdict.Issues) == 0 {
		t.Fatalf("expected a degraded-review issue entry")
	}
}
