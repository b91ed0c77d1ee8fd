package pipeline

import "time"

// Stage tags the producer of a draft or log line.
type Stage string

const (
	StageResearch Stage = "research"
	StageWrite    Stage = "write"
	StageSEO      Stage = "seo"
	StageEdit     Stage = "edit"
)

// Nugget is a compacted, citation-backed fact extracted from search results.
type Nugget struct {
	Claim   string `json:"claim"`
	Source  string `json:"source"`
	Recency string `json:"recency,omitempty"`
}

// ResearchBrief is produced once per run and never replaced afterwards.
type ResearchBrief struct {
	Topic     string    `json:"topic"`
	Overview  string    `json:"overview"`
	Nuggets   []Nugget  `json:"nuggets"`
	Sources   []string  `json:"sources"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is one version of the article body. Revisions supersede, they never
// mutate in place: the writer increments Revision, the SEO pass keeps it.
type Draft struct {
	Body      string    `json:"body"`
	Revision  int       `json:"revision"`
	Stage     Stage     `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
}

// Decision is the editor's routing verdict.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionRevise  Decision = "revise"
)

// EditorVerdict is one editorial review. Revise is only emitted while the
// writer still has revision budget; once the budget is spent the verdict is
// forced to approve and Forced is set.
type EditorVerdict struct {
	Score       float64   `json:"score"`
	Issues      []string  `json:"issues,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Strengths   []string  `json:"strengths,omitempty"`
	Decision    Decision  `json:"decision"`
	Iteration   int       `json:"iteration"`
	Revision    int       `json:"revision"`
	Forced      bool      `json:"forced,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MetaTags is the SEO title/description pair for the final artifact.
type MetaTags struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Article is the assembled output artifact before it is written to disk.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	Date        time.Time `json:"date"`
	Keywords    []string  `json:"keywords,omitempty"`
	SourceCount int       `json:"source_count"`
	Body        string    `json:"body"`
	Model       string    `json:"model,omitempty"`
	Score       float64   `json:"score"`
}

// Result is everything a finished run produced.
type Result struct {
	RunID      string          `json:"run_id"`
	Topic      string          `json:"topic"`
	OutputPath string          `json:"output_path,omitempty"`
	Article    Article         `json:"article"`
	Brief      ResearchBrief   `json:"brief"`
	Drafts     int             `json:"drafts"`
	Verdicts   []EditorVerdict `json:"verdicts"`
	Keywords   []string        `json:"keywords,omitempty"`
	Report     string          `json:"report"`
	ForcedStop bool            `json:"forced_stop,omitempty"`
}
