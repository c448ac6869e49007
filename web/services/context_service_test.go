package services

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	apperrors "grounder/errors"
	"grounder/rag"
	"grounder/web/types"
)

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeProvider struct {
	candidates []rag.Candidate
}

func (f *fakeProvider) Search(ctx context.Context, query string, vector []float32, opts rag.SearchOptions) ([]rag.Candidate, error) {
	return f.candidates, nil
}

func newTestService(t *testing.T, candidates []rag.Candidate) *ContextService {
	t.Helper()
	pipeline, err := rag.NewPipeline(rag.DefaultConfig(), &fakeEmbedder{}, &fakeProvider{candidates: candidates}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	return NewContextService(pipeline, zap.NewNop())
}

func TestBuildContextServesBundle(t *testing.T) {
	service := newTestService(t, []rag.Candidate{
		{ID: "c1", ParentID: "p1", Title: "Doc", Text: "First answer.", Score: 0.9},
		{ID: "c2", ParentID: "p1", Title: "Doc", Text: "Second answer.", Score: 0.8},
		{ID: "c3", ParentID: "p2", Title: "Other", Text: "Third answer.", Score: 0.7},
	})

	resp, err := service.BuildContext(context.Background(), types.ContextRequest{Query: "how do I reset"})
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}

	if resp.Declined {
		t.Fatal("BuildContext() declined a well-supported query")
	}
	if resp.CandidateCount != 3 || resp.SelectedCount != 3 {
		t.Errorf("counts = (%d, %d), want (3, 3)", resp.CandidateCount, resp.SelectedCount)
	}
	if resp.BlockCount != 2 {
		t.Errorf("BlockCount = %d, want 2", resp.BlockCount)
	}
	if !strings.Contains(resp.Context, "First answer.") {
		t.Errorf("bundle missing fragment text:\n%s", resp.Context)
	}
}

func TestBuildContextMapsDecline(t *testing.T) {
	service := newTestService(t, nil)

	resp, err := service.BuildContext(context.Background(), types.ContextRequest{Query: "anything"})
	if err != nil {
		t.Fatalf("BuildContext() error: %v", err)
	}

	if !resp.Declined {
		t.Error("BuildContext() with no candidates should decline")
	}
	if resp.Context != "" {
		t.Errorf("declined response should carry no bundle, got %q", resp.Context)
	}
}

func TestBuildContextRejectsInvalidInput(t *testing.T) {
	service := newTestService(t, nil)

	if _, err := service.BuildContext(context.Background(), types.ContextRequest{Query: "   "}); !apperrors.IsInvalidInput(err) {
		t.Errorf("empty query error = %v, want invalid input", err)
	}

	req := types.ContextRequest{Query: "fine", Parents: []string{"bad\nparent"}}
	if _, err := service.BuildContext(context.Background(), req); !apperrors.IsInvalidInput(err) {
		t.Errorf("bad parent error = %v, want invalid input", err)
	}
}
