package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunContext is the shared memory for one article-generation run: brief,
// draft history, style guide, verdicts. It is created at run start and
// discarded at run end; the mutex exists because the serve mode reads run
// state while a run is executing.
type RunContext struct {
	ID    string
	Topic string
	Style StyleGuide

	mu       sync.Mutex
	brief    *ResearchBrief
	drafts   []Draft
	verdicts []EditorVerdict
	keywords []string
	meta     MetaTags
}

func NewRunContext(topic string, style StyleGuide) *RunContext {
	return &RunContext{
		ID:    uuid.NewString(),
		Topic: topic,
		Style: style,
	}
}

// SetBrief stores the research brief. The brief is immutable for the run;
// storing twice is a programming error.
func (rc *RunContext) SetBrief(b ResearchBrief) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.brief != nil {
		return errors.New("research brief already set for this run")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	rc.brief = &b
	return nil
}

func (rc *RunContext) Brief() (ResearchBrief, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.brief == nil {
		return ResearchBrief{}, false
	}
	return *rc.brief, true
}

func (rc *RunContext) AddDraft(d Draft) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	rc.drafts = append(rc.drafts, d)
}

func (rc *RunContext) LatestDraft() (Draft, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.drafts) == 0 {
		return Draft{}, false
	}
	return rc.drafts[len(rc.drafts)-1], true
}

func (rc *RunContext) DraftCount() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.drafts)
}

// WriterRevisions reports how many revision passes the writer has made.
// The initial draft is revision 0, so this is the highest revision seen.
func (rc *RunContext) WriterRevisions() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	max := 0
	for _, d := range rc.drafts {
		if d.Revision > max {
			max = d.Revision
		}
	}
	return max
}

func (rc *RunContext) AddVerdict(v EditorVerdict) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	rc.verdicts = append(rc.verdicts, v)
}

func (rc *RunContext) Verdicts() []EditorVerdict {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]EditorVerdict, len(rc.verdicts))
	copy(out, rc.verdicts)
	return out
}

func (rc *RunContext) LatestVerdict() (EditorVerdict, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.verdicts) == 0 {
		return EditorVerdict{}, false
	}
	return rc.verdicts[len(rc.verdicts)-1], true
}

func (rc *RunContext) ReviewCount() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.verdicts)
}

func (rc *RunContext) SetKeywords(kw []string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.keywords = append([]string(nil), kw...)
}

func (rc *RunContext) Keywords() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return append([]string(nil), rc.keywords...)
}

func (rc *RunContext) SetMeta(m MetaTags) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.meta = m
}

func (rc *RunContext) Meta() MetaTags {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.meta
}

// BestDraft returns the latest draft at the revision with the highest
// reviewed score. Used when the revision budget runs out without approval.
func (rc *RunContext) BestDraft() (Draft, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.drafts) == 0 {
		return Draft{}, false
	}
	if len(rc.verdicts) == 0 {
		return rc.drafts[len(rc.drafts)-1], true
	}

	best := rc.verdicts[0]
	for _, v := range rc.verdicts[1:] {
		if v.Score > best.Score {
			best = v
		}
	}
	// Latest draft at that revision: a SEO pass may have superseded the
	// writer's draft without bumping the revision.
	for i := len(rc.drafts) - 1; i >= 0; i-- {
		if rc.drafts[i].Revision == best.Revision {
			return rc.drafts[i], true
		}
	}
	return rc.drafts[len(rc.drafts)-1], true
}
