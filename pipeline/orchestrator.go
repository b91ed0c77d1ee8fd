package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Stage interfaces. Implementations live in the agents package; the
// orchestrator only sequences them and enforces the revision bound.

type Researcher interface {
	Research(ctx context.Context, topic string) (ResearchBrief, error)
}

type Writer interface {
	Draft(ctx context.Context, rc *RunContext) (Draft, error)
	Revise(ctx context.Context, rc *RunContext, verdict EditorVerdict) (Draft, error)
}

type Optimizer interface {
	Optimize(ctx context.Context, rc *RunContext) (Draft, error)
	MetaTags(ctx context.Context, rc *RunContext) (MetaTags, error)
}

type Editor interface {
	Review(ctx context.Context, rc *RunContext) (EditorVerdict, error)
}

// Publisher writes the finished article somewhere and returns its location.
type Publisher interface {
	Publish(article Article) (string, error)
}

// Orchestrator runs the fixed stage sequence:
// research -> write -> seo -> edit, looping edit feedback back to the writer
// (and through seo again) while the score is below threshold and revision
// budget remains.
type Orchestrator struct {
	researcher Researcher
	writer     Writer
	seo        Optimizer
	editor     Editor
	publisher  Publisher

	cfg       Config
	model     string
	logger    *log.Logger
	stageHook func(n int, name string)
}

func NewOrchestrator(cfg Config, researcher Researcher, writer Writer, seo Optimizer, editor Editor, publisher Publisher, logger *log.Logger) (*Orchestrator, error) {
	if researcher == nil || writer == nil || seo == nil || editor == nil {
		return nil, errors.New("all four stages are required")
	}
	if logger == nil {
		logger = log.Default()
	}
	model := ""
	if cfg.LLM != nil {
		model = cfg.LLM.Model
	}
	return &Orchestrator{
		researcher: researcher,
		writer:     writer,
		seo:        seo,
		editor:     editor,
		publisher:  publisher,
		cfg:        cfg,
		model:      model,
		logger:     logger,
	}, nil
}

// OnStage registers a hook invoked as each stage starts; the CLI uses it to
// print stage separators.
func (o *Orchestrator) OnStage(fn func(n int, name string)) {
	o.stageHook = fn
}

func (o *Orchestrator) stage(n int, name string) {
	if o.stageHook != nil {
		o.stageHook(n, name)
	}
}

// Run executes one article-generation run for topic. A nil style uses the
// default guide. The returned Result always carries the final draft and the
// editorial report; OutputPath is empty when no publisher is wired.
func (o *Orchestrator) Run(ctx context.Context, topic string, style *StyleGuide) (*Result, error) {
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	sg := DefaultStyleGuide()
	if style != nil {
		sg = *style
	}
	rc := NewRunContext(topic, sg)
	o.logger.Printf("[pipeline] run %s start topic=%q threshold=%.1f max_revisions=%d", rc.ID, topic, o.cfg.Threshold, o.cfg.MaxRevs)

	// Stage 1: research. The brief is written once and never replaced.
	o.stage(1, "research")
	brief, err := o.researcher.Research(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("research stage: %w", err)
	}
	if err := rc.SetBrief(brief); err != nil {
		return nil, err
	}
	o.logger.Printf("[pipeline] research done: %d nuggets, %d sources", len(brief.Nuggets), len(brief.Sources))

	// Stage 2: initial draft.
	o.stage(2, "writing")
	draft, err := o.writer.Draft(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("write stage: %w", err)
	}
	rc.AddDraft(draft)

	// Stage 3: SEO pass. Failure is soft: the unoptimized draft survives.
	o.stage(3, "seo optimization")
	if opt, err := o.seo.Optimize(ctx, rc); err != nil {
		o.logger.Printf("[pipeline] seo optimize failed, keeping draft: %v", err)
	} else {
		rc.AddDraft(opt)
	}

	// Stage 4: editorial loop.
	o.stage(4, "editorial review")
	forced := false
	for {
		verdict, err := o.editor.Review(ctx, rc)
		if err != nil {
			return nil, fmt.Errorf("edit stage: %w", err)
		}
		rc.AddVerdict(verdict)
		o.logger.Printf("[pipeline] review %d: score=%.1f decision=%s", verdict.Iteration, verdict.Score, verdict.Decision)

		if verdict.Decision == DecisionApprove {
			forced = verdict.Forced
			break
		}
		if rc.WriterRevisions() >= o.cfg.MaxRevs {
			// Should not happen: the editor stops emitting revise once the
			// budget is spent. Guard anyway so the loop stays bounded.
			forced = true
			break
		}

		revised, err := o.writer.Revise(ctx, rc, verdict)
		if err != nil {
			o.logger.Printf("[pipeline] revision failed, stopping with current draft: %v", err)
			forced = true
			break
		}
		rc.AddDraft(revised)

		if opt, err := o.seo.Optimize(ctx, rc); err != nil {
			o.logger.Printf("[pipeline] seo re-optimize failed, keeping draft: %v", err)
		} else {
			rc.AddDraft(opt)
		}
	}

	final, ok := rc.LatestDraft()
	if !ok {
		return nil, errors.New("run produced no draft")
	}
	if forced {
		// Out of budget below threshold: ship the best-scoring draft seen.
		if best, ok := rc.BestDraft(); ok {
			final = best
		}
	}

	// Final stage: meta tags and artifact assembly.
	o.stage(5, "final output")
	meta, err := o.seo.MetaTags(ctx, rc)
	if err != nil {
		o.logger.Printf("[pipeline] meta tag generation failed, using topic: %v", err)
		meta = MetaTags{Title: topic}
	}
	rc.SetMeta(meta)

	score := 0.0
	if v, ok := rc.LatestVerdict(); ok {
		score = v.Score
	}
	article := Article{
		Title:       meta.Title,
		Description: meta.Description,
		Author:      o.cfg.Author,
		Date:        time.Now(),
		Keywords:    rc.Keywords(),
		SourceCount: len(brief.Sources),
		Body:        final.Body,
		Model:       o.model,
		Score:       score,
	}

	result := &Result{
		RunID:      rc.ID,
		Topic:      topic,
		Article:    article,
		Brief:      brief,
		Drafts:     rc.DraftCount(),
		Verdicts:   rc.Verdicts(),
		Keywords:   rc.Keywords(),
		Report:     BuildReport(rc, o.cfg.Threshold),
		ForcedStop: forced,
	}

	if o.publisher != nil {
		path, err := o.publisher.Publish(article)
		if err != nil {
			return nil, fmt.Errorf("publish artifact: %w", err)
		}
		result.OutputPath = path
		o.logger.Printf("[pipeline] run %s complete: %s", rc.ID, path)
	} else {
		o.logger.Printf("[pipeline] run %s complete (no publisher wired)", rc.ID)
	}
	return result, nil
}
