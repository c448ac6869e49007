package llmclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	apperrors "grounder/errors"
)

func TestEmbed(t *testing.T) {
	var gotPath string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"embedding": [[0.25, -0.5, 1.0]]}]`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())
	vector, err := client.Embed(context.Background(), "embed this text")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if gotPath != "/v1/embeddings" {
		t.Errorf("request path = %q, want /v1/embeddings", gotPath)
	}
	if !strings.Contains(gotBody, `"content":"embed this text"`) {
		t.Errorf("request body = %q, missing content field", gotBody)
	}
	want := []float32{0.25, -0.5, 1.0}
	if len(vector) != len(want) {
		t.Fatalf("Embed() returned %d dims, want %d", len(vector), len(want))
	}
	for i := range vector {
		if vector[i] != want[i] {
			t.Errorf("vector[%d] = %v, want %v", i, vector[i], want[i])
		}
	}
}

func TestEmbedServiceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())
	_, err := client.Embed(context.Background(), "text")
	if !errors.Is(err, apperrors.ErrServiceUnavailable) {
		t.Errorf("Embed() error = %v, want ErrServiceUnavailable", err)
	}
}

func TestEmbedEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())
	_, err := client.Embed(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("Embed() error = %v, want empty response failure", err)
	}
}

func TestEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())
	_, err := client.Embed(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("Embed() error = %v, want status failure", err)
	}
}

func TestPing(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("health path = %q, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer healthy.Close()

	client := New(healthy.URL, 5*time.Second, zap.NewNop())
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v, want nil", err)
	}

	loading := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer loading.Close()

	client = New(loading.URL, 5*time.Second, zap.NewNop())
	if err := client.Ping(context.Background()); !errors.Is(err, apperrors.ErrServiceUnavailable) {
		t.Errorf("Ping() error = %v, want ErrServiceUnavailable", err)
	}
}
