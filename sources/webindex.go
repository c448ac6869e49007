package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "grounder/errors"
	"grounder/rag"
)

const defaultWebIndexTimeout = 30 * time.Second

type WebIndexConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// WebIndexSource retrieves candidates from a managed search index over HTTP.
// Different index products disagree on response envelopes and field casing,
// so decoding is deliberately tolerant: see decodeCandidates.
type WebIndexSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewWebIndexSource(cfg WebIndexConfig, logger *zap.Logger) (*WebIndexSource, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("web index base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWebIndexTimeout
	}

	return &WebIndexSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

type webIndexRequest struct {
	Query             string    `json:"query"`
	Vector            []float32 `json:"vector,omitempty"`
	Top               int       `json:"top,omitempty"`
	KNearestNeighbors int       `json:"kNearestNeighbors,omitempty"`
	Fields            []string  `json:"fields,omitempty"`
	Parents           []string  `json:"parents,omitempty"`
}

// webIndexDocument covers the candidate fields whether they arrive flat on
// the item or nested under a "document" key.
type webIndexDocument struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

type webIndexItem struct {
	webIndexDocument
	Document    *webIndexDocument `json:"document"`
	Score       *float64          `json:"score"`
	SearchScore *float64          `json:"@search.score"`
}

type webIndexEnvelope struct {
	Results []json.RawMessage `json:"results"`
	Value   []json.RawMessage `json:"value"`
}

// Search issues a hybrid query to the index's search endpoint. The service
// combines the text query and vector on its side; we only forward both.
func (w *WebIndexSource) Search(ctx context.Context, query string, vector []float32, opts rag.SearchOptions) ([]rag.Candidate, error) {
	reqBody := webIndexRequest{
		Query:             query,
		Vector:            vector,
		Top:               opts.Top,
		KNearestNeighbors: opts.KNearestNeighbors,
		Fields:            []string{"id", "parentId", "title", "text"},
		Parents:           opts.Parents,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal web index request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/search", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create web index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("api-key", w.apiKey)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send web index request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read web index response: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.WrapErrorf(apperrors.ErrServiceUnavailable, "web index status %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web index status %s: %s", resp.Status, string(body))
	}

	candidates, err := decodeCandidates(body)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// Ping checks service availability for health endpoints.
func (w *WebIndexSource) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL, nil)
	if err != nil {
		return fmt.Errorf("create web index ping request: %w", err)
	}
	if w.apiKey != "" {
		req.Header.Set("api-key", w.apiKey)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, "web index is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.WrapErrorf(apperrors.ErrServiceUnavailable, "web index status %s", resp.Status)
	}
	return nil
}

// decodeCandidates accepts the three envelope shapes seen across index
// products: {"results": [...]}, {"value": [...]}, and a bare array. Items may
// carry fields flat or under "document", and score under either "score" or
// "@search.score". Anything else reports ErrResultShape.
func decodeCandidates(body []byte) ([]rag.Candidate, error) {
	var items []json.RawMessage

	var envelope webIndexEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Results != nil:
			items = envelope.Results
		case envelope.Value != nil:
			items = envelope.Value
		default:
			return nil, apperrors.WrapError(apperrors.ErrResultShape, "response object has no results or value array")
		}
	} else if err := json.Unmarshal(body, &items); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrResultShape, "response is neither an object nor an array")
	}

	candidates := make([]rag.Candidate, 0, len(items))
	for i, raw := range items {
		var item webIndexItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, apperrors.WrapErrorf(apperrors.ErrResultShape, "result %d is not an object", i)
		}

		doc := item.webIndexDocument
		if item.Document != nil {
			doc = *item.Document
		}

		var score float64
		switch {
		case item.Score != nil:
			score = *item.Score
		case item.SearchScore != nil:
			score = *item.SearchScore
		}

		candidates = append(candidates, rag.Candidate{
			ID:       doc.ID,
			ParentID: doc.ParentID,
			Title:    doc.Title,
			Text:     doc.Text,
			Score:    score,
		})
	}
	return candidates, nil
}
