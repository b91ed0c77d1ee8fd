package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogflow/pipeline"
)

type okResearcher struct{}

func (okResearcher) Research(_ context.Context, topic string) (pipeline.ResearchBrief, error) {
	return pipeline.ResearchBrief{Topic: topic, Sources: []string{"https://example.com"}}, nil
}

type okWriter struct{}

func (okWriter) Draft(context.Context, *pipeline.RunContext) (pipeline.Draft, error) {
	return pipeline.Draft{Body: "# Title\n\nBody.", Revision: 0, Stage: pipeline.StageWrite}, nil
}

func (okWriter) Revise(_ context.Context, rc *pipeline.RunContext, _ pipeline.EditorVerdict) (pipeline.Draft, error) {
	prev, _ := rc.LatestDraft()
	return pipeline.Draft{Body: prev.Body, Revision: prev.Revision + 1, Stage: pipeline.StageWrite}, nil
}

type okSEO struct{}

func (okSEO) Optimize(_ context.Context, rc *pipeline.RunContext) (pipeline.Draft, error) {
	prev, _ := rc.LatestDraft()
	rc.SetKeywords([]string{"kw"})
	return prev, nil
}

func (okSEO) MetaTags(context.Context, *pipeline.RunContext) (pipeline.MetaTags, error) {
	return pipeline.MetaTags{Title: "Title"}, nil
}

type okEditor struct{}

func (okEditor) Review(_ context.Context, rc *pipeline.RunContext) (pipeline.EditorVerdict, error) {
	draft, _ := rc.LatestDraft()
	return pipeline.EditorVerdict{
		Score:     9,
		Decision:  pipeline.DecisionApprove,
		Iteration: rc.ReviewCount() + 1,
		Revision:  draft.Revision,
	}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := pipeline.Config{
		LLM:       &pipeline.LLMConfig{Provider: "openai", Model: "m", APIKey: "k"},
		Threshold: 7, MaxRevs: 3, MaxNuggets: 7, MaxResults: 10, OutputDir: "output",
	}
	orch, err := pipeline.NewOrchestrator(cfg, okResearcher{}, okWriter{}, okSEO{}, okEditor{}, nil, nil)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	srv, err := New(orch, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestRunCreateAndFetch(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{"topic":"go agents"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var result pipeline.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RunID == "" || result.Topic != "go agents" {
		t.Fatalf("result=%+v", result)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+result.RunID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+result.RunID+"/preview", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content-type=%q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Title</h1>") {
		t.Fatalf("preview=%q", rec.Body.String())
	}
}

func TestRunCreateValidation(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{"topic":"  "}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want 405", rec.Code)
	}
}

func TestRunFetchUnknownID(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}
}
