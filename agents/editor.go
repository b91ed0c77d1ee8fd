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

// Editor scores drafts on a 0-10 scale and routes them. The score is the
// average of a local structural heuristic and the model's review; the
// decision contract is fixed: score >= threshold approves, otherwise revise
// while the writer still has revision budget, then a forced approve.
type Editor struct {
	llm       generator.LLMClient
	threshold float64
	maxRevs   int
	logger    *log.Logger
}

func NewEditor(llm generator.LLMClient, threshold float64, maxRevs int, logger *log.Logger) (*Editor, error) {
	if llm == nil {
		return nil, errors.New("editor: llm client is required")
	}
	if threshold <= 0 || threshold > 10 {
		return nil, fmt.Errorf("editor: threshold %.1f out of range (0-10]", threshold)
	}
	if maxRevs < 0 {
		return nil, errors.New("editor: max revisions must be >= 0")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Editor{llm: llm, threshold: threshold, maxRevs: maxRevs, logger: logger}, nil
}

func (e *Editor) Review(ctx context.Context, rc *pipeline.RunContext) (pipeline.EditorVerdict, error) {
	draft, ok := rc.LatestDraft()
	if !ok {
		return pipeline.EditorVerdict{}, errors.New("editor: no draft to review")
	}
	iteration := rc.ReviewCount() + 1
	e.logger.Printf("[editor] review %d of revision %d", iteration, draft.Revision)

	heuristic := structuralScore(draft.Body, rc.Style)

	verdict := pipeline.EditorVerdict{
		Iteration: iteration,
		Revision:  draft.Revision,
		CreatedAt: time.Now(),
	}

	raw, err := e.llm.Complete(ctx, buildReviewPrompt(draft.Body, rc))
	if err != nil {
		// Degraded review: fall back to the structural score alone rather
		// than aborting the run.
		e.logger.Printf("[editor] model review unavailable, using structural score only: %v", err)
		verdict.Score = heuristic
		verdict.Issues = []string{fmt.Sprintf("model review unavailable: %v", err)}
	} else {
		modelScore, issues, suggestions, strengths := parseReview(raw)
		verdict.Score = (heuristic + modelScore) / 2
		verdict.Issues = issues
		verdict.Suggestions = suggestions
		verdict.Strengths = strengths
	}

	switch {
	case verdict.Score >= e.threshold:
		verdict.Decision = pipeline.DecisionApprove
	case rc.WriterRevisions() < e.maxRevs:
		verdict.Decision = pipeline.DecisionRevise
	default:
		// Revision budget spent: never emit revise past the bound.
		verdict.Decision = pipeline.DecisionApprove
		verdict.Forced = true
		e.logger.Printf("[editor] revision budget spent at score %.1f, forcing stop", verdict.Score)
	}
	return verdict, nil
}

func buildReviewPrompt(body string, rc *pipeline.RunContext) generator.Prompt {
	var sb strings.Builder
	sb.WriteString("You are an editor reviewing a blog article for quality.\n")
	sb.WriteString("Evaluate accuracy, structure, engagement, clarity, completeness, style, grammar, and citations.\n")
	sb.WriteString("Reply in exactly this format:\n")
	sb.WriteString("SCORE: <number 0-10>\n")
	sb.WriteString("ISSUES:\n- <issue>\n")
	sb.WriteString("SUGGESTIONS:\n- <suggestion>\n")
	sb.WriteString("STRENGTHS:\n- <strength>\n")
	sb.WriteString("Score honestly; be constructive but thorough.\n")

	var user strings.Builder
	user.WriteString("DRAFT:\n")
	user.WriteString(body)
	if brief, ok := rc.Brief(); ok && brief.Overview != "" {
		fmt.Fprintf(&user, "\n\nRESEARCH OVERVIEW (for fact-checking): %s\n", truncate(brief.Overview, 1000))
	}
	user.WriteString("\n")
	user.WriteString(rc.Style.Render())

	return generator.Prompt{System: sb.String(), User: user.String()}
}
