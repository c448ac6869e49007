package sources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	apperrors "grounder/errors"
	"grounder/rag"
)

func TestDecodeCandidates(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		want         []rag.Candidate
		wantShapeErr bool
	}{
		{
			name: "results_envelope_with_nested_documents",
			body: `{"results": [{"document": {"id": "c1", "parentId": "p1", "title": "Guide", "text": "body text"}, "score": 0.9}]}`,
			want: []rag.Candidate{
				{ID: "c1", ParentID: "p1", Title: "Guide", Text: "body text", Score: 0.9},
			},
		},
		{
			name: "value_envelope_with_flat_fields",
			body: `{"value": [{"id": "c2", "parentId": "p2", "title": "Notes", "text": "more text", "@search.score": 1.5}]}`,
			want: []rag.Candidate{
				{ID: "c2", ParentID: "p2", Title: "Notes", Text: "more text", Score: 1.5},
			},
		},
		{
			name: "bare_array",
			body: `[{"id": "c3", "text": "plain", "score": 0.4}]`,
			want: []rag.Candidate{
				{ID: "c3", Text: "plain", Score: 0.4},
			},
		},
		{
			name: "score_field_wins_over_search_score",
			body: `[{"id": "c4", "score": 0.7, "@search.score": 2.0}]`,
			want: []rag.Candidate{
				{ID: "c4", Score: 0.7},
			},
		},
		{
			name: "missing_fields_are_tolerated",
			body: `{"results": [{}]}`,
			want: []rag.Candidate{{}},
		},
		{
			name: "empty_results_envelope",
			body: `{"results": []}`,
			want: []rag.Candidate{},
		},
		{
			name:         "object_without_known_keys",
			body:         `{"error": "backend exploded"}`,
			wantShapeErr: true,
		},
		{
			name:         "scalar_body",
			body:         `42`,
			wantShapeErr: true,
		},
		{
			name:         "non_object_item",
			body:         `{"results": [42]}`,
			wantShapeErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCandidates([]byte(tt.body))
			if tt.wantShapeErr {
				if !apperrors.IsResultShape(err) {
					t.Fatalf("decodeCandidates() error = %v, want result shape error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeCandidates() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeCandidates() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWebIndexSearch(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotRequest webIndexRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("api-key")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotRequest); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"results": [{"id": "c1", "parentId": "p1", "title": "Doc", "text": "hit", "score": 0.8}]}`)
	}))
	defer server.Close()

	source, err := NewWebIndexSource(WebIndexConfig{BaseURL: server.URL, APIKey: "secret"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebIndexSource() error: %v", err)
	}

	candidates, err := source.Search(context.Background(), "reset password", []float32{0.1, 0.2}, rag.SearchOptions{
		Top:               5,
		KNearestNeighbors: 10,
		Parents:           []string{"p1"},
	})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if gotPath != "/search" {
		t.Errorf("request path = %q, want %q", gotPath, "/search")
	}
	if gotAPIKey != "secret" {
		t.Errorf("api-key header = %q, want %q", gotAPIKey, "secret")
	}
	if gotRequest.Query != "reset password" {
		t.Errorf("forwarded query = %q, want %q", gotRequest.Query, "reset password")
	}
	if gotRequest.Top != 5 || gotRequest.KNearestNeighbors != 10 {
		t.Errorf("forwarded limits = (%d, %d), want (5, 10)", gotRequest.Top, gotRequest.KNearestNeighbors)
	}
	if len(gotRequest.Parents) != 1 || gotRequest.Parents[0] != "p1" {
		t.Errorf("forwarded parents = %v, want [p1]", gotRequest.Parents)
	}

	want := []rag.Candidate{{ID: "c1", ParentID: "p1", Title: "Doc", Text: "hit", Score: 0.8}}
	if !reflect.DeepEqual(candidates, want) {
		t.Errorf("Search() = %+v, want %+v", candidates, want)
	}
}

func TestWebIndexSearchServiceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scaling down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source, err := NewWebIndexSource(WebIndexConfig{BaseURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebIndexSource() error: %v", err)
	}

	_, err = source.Search(context.Background(), "query", []float32{0.1}, rag.SearchOptions{Top: 3})
	if !apperrors.IsServiceUnavailable(err) {
		t.Fatalf("Search() error = %v, want service unavailable", err)
	}
}

func TestWebIndexSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	source, err := NewWebIndexSource(WebIndexConfig{BaseURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWebIndexSource() error: %v", err)
	}

	_, err = source.Search(context.Background(), "query", []float32{0.1}, rag.SearchOptions{Top: 3})
	if err == nil || !strings.Contains(err.Error(), "web index status") {
		t.Fatalf("Search() error = %v, want status error", err)
	}
}

func TestNewWebIndexSourceRequiresBaseURL(t *testing.T) {
	if _, err := NewWebIndexSource(WebIndexConfig{}, zap.NewNop()); err == nil {
		t.Fatal("NewWebIndexSource() with empty base URL should fail")
	}
}
