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

// Writer produces and revises drafts from the research brief and style
// guide. Editor feedback is passed as structured items and enumerated
// verbatim in the revision prompt, so it cannot be silently dropped.
type Writer struct {
	llm    generator.LLMClient
	logger *log.Logger
}

func NewWriter(llm generator.LLMClient, logger *log.Logger) (*Writer, error) {
	if llm == nil {
		return nil, errors.New("writer: llm client is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{llm: llm, logger: logger}, nil
}

func (w *Writer) Draft(ctx context.Context, rc *pipeline.RunContext) (pipeline.Draft, error) {
	brief, ok := rc.Brief()
	if !ok {
		return pipeline.Draft{}, errors.New("writer: no research brief in run context")
	}
	w.logger.Printf("[writer] drafting %q", brief.Topic)

	raw, err := w.llm.Complete(ctx, buildInitialDraftPrompt(brief, rc.Style))
	if err != nil {
		return pipeline.Draft{}, fmt.Errorf("initial draft: %w", err)
	}
	body, err := cleanMarkdown(raw)
	if err != nil {
		return pipeline.Draft{}, err
	}
	w.logger.Printf("[writer] initial draft ready (~%d words)", len(strings.Fields(body)))
	return pipeline.Draft{
		Body:      body,
		Revision:  0,
		Stage:     pipeline.StageWrite,
		CreatedAt: time.Now(),
	}, nil
}

func (w *Writer) Revise(ctx context.Context, rc *pipeline.RunContext, verdict pipeline.EditorVerdict) (pipeline.Draft, error) {
	prev, ok := rc.LatestDraft()
	if !ok {
		return pipeline.Draft{}, errors.New("writer: nothing to revise")
	}
	brief, _ := rc.Brief()
	w.logger.Printf("[writer] revising draft (revision %d -> %d, %d issues)", prev.Revision, prev.Revision+1, len(verdict.Issues))

	raw, err := w.llm.Complete(ctx, buildRevisionPrompt(brief, rc.Style, prev, verdict))
	if err != nil {
		return pipeline.Draft{}, fmt.Errorf("revise draft: %w", err)
	}
	body, err := cleanMarkdown(raw)
	if err != nil {
		return pipeline.Draft{}, err
	}
	return pipeline.Draft{
		Body:      body,
		Revision:  prev.Revision + 1,
		Stage:     pipeline.StageWrite,
		CreatedAt: time.Now(),
	}, nil
}

func buildInitialDraftPrompt(brief pipeline.ResearchBrief, style pipeline.StyleGuide) generator.Prompt {
	var sb strings.Builder
	sb.WriteString("You are a writer producing a blog article in Markdown. Output only the article, no commentary.\n")
	sb.WriteString(style.Render())
	sb.WriteString("Rules:\n")
	sb.WriteString("- Start with a single H1 title.\n")
	sb.WriteString("- Open with a strong hook paragraph.\n")
	sb.WriteString("- Use ## and ### headers to organize sections.\n")
	sb.WriteString("- Cite the provided sources naturally in the text.\n")
	sb.WriteString("- Do not stuff keywords; write naturally.\n")

	var user strings.Builder
	fmt.Fprintf(&user, "Topic: %s\n\n", brief.Topic)
	if brief.Overview != "" {
		fmt.Fprintf(&user, "Research overview: %s\n\n", brief.Overview)
	}
	user.WriteString("Key facts to cover:\n")
	for _, n := range brief.Nuggets {
		fmt.Fprintf(&user, "- %s (source: %s)\n", n.Claim, n.Source)
	}
	user.WriteString("\nWrite the complete article now.")

	return generator.Prompt{System: sb.String(), User: user.String()}
}

func buildRevisionPrompt(brief pipeline.ResearchBrief, style pipeline.StyleGuide, prev pipeline.Draft, verdict pipeline.EditorVerdict) generator.Prompt {
	var sb strings.Builder
	sb.WriteString("You are revising your own blog article based on editorial feedback. Output only the revised Markdown article.\n")
	sb.WriteString(style.Render())
	sb.WriteString("Rules:\n")
	sb.WriteString("- Address every issue listed. None may be ignored.\n")
	sb.WriteString("- Apply the suggestions while keeping your voice.\n")
	sb.WriteString("- Keep the overall structure unless an issue demands otherwise.\n")

	var user strings.Builder
	user.WriteString("CURRENT DRAFT:\n")
	user.WriteString(prev.Body)
	fmt.Fprintf(&user, "\n\nEDITOR SCORE: %.1f/10\n", verdict.Score)
	if len(verdict.Issues) > 0 {
		user.WriteString("\nISSUES:\n")
		for _, it := range verdict.Issues {
			fmt.Fprintf(&user, "- %s\n", it)
		}
	}
	if len(verdict.Suggestions) > 0 {
		user.WriteString("\nSUGGESTIONS:\n")
		for _, it := range verdict.Suggestions {
			fmt.Fprintf(&user, "- %s\n", it)
		}
	}
	if brief.Overview != "" {
		fmt.Fprintf(&user, "\nRESEARCH OVERVIEW (for fact checks): %s\n", brief.Overview)
	}
	user.WriteString("\nOutput the full revised article.")

	return generator.Prompt{System: sb.String(), User: user.String()}
}
