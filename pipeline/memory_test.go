package pipeline

import "testing"

func TestRunContextBriefIsImmutable(t *testing.T) {
	rc := NewRunContext("t", DefaultStyleGuide())
	if err := rc.SetBrief(ResearchBrief{Topic: "t"}); err != nil {
		t.Fatalf("SetBrief: %v", err)
	}
	if err := rc.SetBrief(ResearchBrief{Topic: "other"}); err == nil {
		t.Fatalf("second SetBrief must fail")
	}
	brief, ok := rc.Brief()
	if !ok || brief.Topic != "t" {
		t.Fatalf("brief=%+v ok=%v", brief, ok)
	}
}

func TestRunContextWriterRevisions(t *testing.T) {
	rc := NewRunContext("t", DefaultStyleGuide())
	if got := rc.WriterRevisions(); got != 0 {
		t.Fatalf("revisions=%d, want 0", got)
	}
	rc.AddDraft(Draft{Revision: 0, Stage: StageWrite})
	rc.AddDraft(Draft{Revision: 0, Stage: StageSEO})
	rc.AddDraft(Draft{Revision: 1, Stage: StageWrite})
	if got := rc.WriterRevisions(); got != 1 {
		t.Fatalf("revisions=%d, want 1", got)
	}
}

func TestRunContextBestDraft(t *testing.T) {
	rc := NewRunContext("t", DefaultStyleGuide())
	rc.AddDraft(Draft{Body: "r0", Revision: 0, Stage: StageWrite})
	rc.AddDraft(Draft{Body: "r0-seo", Revision: 0, Stage: StageSEO})
	rc.AddDraft(Draft{Body: "r1", Revision: 1, Stage: StageWrite})
	rc.AddDraft(Draft{Body: "r1-seo", Revision: 1, Stage: StageSEO})

	rc.AddVerdict(EditorVerdict{Score: 6.5, Revision: 0, Iteration: 1})
	rc.AddVerdict(EditorVerdict{Score: 5.0, Revision: 1, Iteration: 2})

	best, ok := rc.BestDraft()
	if !ok {
		t.Fatalf("no best draft")
	}
	// Highest score was the revision-0 review; the SEO pass superseded that
	// revision, so the SEO draft is the one returned.
	if best.Body != "r0-seo" {
		t.Fatalf("best=%q, want r0-seo", best.Body)
	}
}

func TestRunContextBestDraftWithoutVerdicts(t *testing.T) {
	rc := NewRunContext("t", DefaultStyleGuide())
	if _, ok := rc.BestDraft(); ok {
		t.Fatalf("empty context must not return a draft")
	}
	rc.AddDraft(Draft{Body: "only", Revision: 0})
	best, ok := rc.BestDraft()
	if !ok || best.Body != "only" {
		t.Fatalf("best=%+v ok=%v", best, ok)
	}
}

func TestRunContextKeywordsCopied(t *testing.T) {
	rc := NewRunContext("t", DefaultStyleGuide())
	in := []string{"a", "b"}
	rc.SetKeywords(in)
	in[0] = "mutated"
	if got := rc.Keywords(); got[0] != "a" {
		t.Fatalf("keywords=%v, stored slice must be a copy", got)
	}
}
