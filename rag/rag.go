package rag

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Splitter names accepted by Config.Splitter.
const (
	SplitterBoundary = "boundary"
	SplitterProse    = "prose"
)

const (
	defaultKNearestNeighbors   = 10
	defaultTopPerVariant       = 10
	defaultMaxPerParent        = 2
	defaultMaxTotalAfterFusion = 6
	defaultMinTopScore         = 0.12
	defaultMinScoreGap         = 0.01
	defaultMaxContextTokens    = 2048
	defaultSentenceLimit       = 4
)

// Candidate is one retrieval hit as returned by a provider. Text may be empty
// when the index stores a fragment without body content; such candidates still
// occupy a selection slot but contribute nothing to the final bundle.
type Candidate struct {
	ID       string
	ParentID string
	Title    string
	Text     string
	Score    float64
}

// parentKey groups fragments under their source document, falling back to the
// fragment's own ID when the index has no parent for it.
func (c Candidate) parentKey() string {
	if c.ParentID != "" {
		return c.ParentID
	}
	return c.ID
}

// SearchOptions carries per-call knobs for a retrieval provider.
type SearchOptions struct {
	// Top caps how many candidates the provider may return.
	Top int
	// KNearestNeighbors is the vector search fetch width, which backends may
	// set wider than Top before fusion.
	KNearestNeighbors int
	// Parents restricts results to fragments of the given parent documents.
	Parents []string
}

// Embedder produces the query vector for retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RetrievalProvider answers one search call against an external index. The
// pipeline treats the returned order as the provider's native ranking and
// preserves it unless Config.SortByScore is set.
type RetrievalProvider interface {
	Search(ctx context.Context, query string, vector []float32, opts SearchOptions) ([]Candidate, error)
}

// Config holds the pipeline's tuning knobs. Zero count fields fall back to
// the package defaults; negative counts and non-positive budgets are rejected
// by Validate. The pipeline copies the config at construction and never
// mutates it afterwards.
type Config struct {
	KNearestNeighbors   int
	TopPerVariant       int
	MaxPerParent        int
	MaxTotalAfterFusion int
	MinTopScore         float64
	MinScoreGap         float64
	MaxContextTokens    int
	SentenceLimit       int
	SortByScore         bool
	Splitter            string
}

// DefaultConfig returns a fully populated config with the stock tuning.
func DefaultConfig() Config {
	return Config{
		KNearestNeighbors:   defaultKNearestNeighbors,
		TopPerVariant:       defaultTopPerVariant,
		MaxPerParent:        defaultMaxPerParent,
		MaxTotalAfterFusion: defaultMaxTotalAfterFusion,
		MinTopScore:         defaultMinTopScore,
		MinScoreGap:         defaultMinScoreGap,
		MaxContextTokens:    defaultMaxContextTokens,
		SentenceLimit:       defaultSentenceLimit,
		Splitter:            SplitterBoundary,
	}
}

// Validate rejects configs that no deployment can mean: negative caps and a
// missing token budget. Score thresholds are not range-checked because their
// scale belongs to the retrieval provider.
func (c Config) Validate() error {
	if c.KNearestNeighbors < 0 {
		return fmt.Errorf("k nearest neighbors count must not be negative, got %d", c.KNearestNeighbors)
	}
	if c.TopPerVariant < 0 {
		return fmt.Errorf("top per variant must not be negative, got %d", c.TopPerVariant)
	}
	if c.MaxPerParent < 0 {
		return fmt.Errorf("max per parent must not be negative, got %d", c.MaxPerParent)
	}
	if c.MaxTotalAfterFusion < 0 {
		return fmt.Errorf("max total after fusion must not be negative, got %d", c.MaxTotalAfterFusion)
	}
	if c.SentenceLimit < 0 {
		return fmt.Errorf("sentence limit must not be negative, got %d", c.SentenceLimit)
	}
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("max context tokens must be positive, got %d", c.MaxContextTokens)
	}
	switch c.Splitter {
	case "", SplitterBoundary, SplitterProse:
	default:
		return fmt.Errorf("unknown sentence splitter %q", c.Splitter)
	}
	return nil
}

// withDefaults fills unset (zero) fields. Validation runs before this, so
// negative values never survive into a pipeline.
func (c Config) withDefaults() Config {
	if c.KNearestNeighbors == 0 {
		c.KNearestNeighbors = defaultKNearestNeighbors
	}
	if c.TopPerVariant == 0 {
		c.TopPerVariant = defaultTopPerVariant
	}
	if c.MaxPerParent == 0 {
		c.MaxPerParent = defaultMaxPerParent
	}
	if c.MaxTotalAfterFusion == 0 {
		c.MaxTotalAfterFusion = defaultMaxTotalAfterFusion
	}
	if c.MinTopScore == 0 {
		c.MinTopScore = defaultMinTopScore
	}
	if c.MinScoreGap == 0 {
		c.MinScoreGap = defaultMinScoreGap
	}
	if c.MaxContextTokens == 0 {
		c.MaxContextTokens = defaultMaxContextTokens
	}
	if c.SentenceLimit == 0 {
		c.SentenceLimit = defaultSentenceLimit
	}
	if c.Splitter == "" {
		c.Splitter = SplitterBoundary
	}
	return c
}

// Pipeline assembles grounding context for a query: embed, retrieve, gate,
// select, condense and stitch under the token budget.
type Pipeline struct {
	cfg      Config
	embedder Embedder
	provider RetrievalProvider
	splitter SentenceSplitter
	logger   *zap.Logger
}

// NewPipeline validates the config and wires the pipeline together.
func NewPipeline(cfg Config, embedder Embedder, provider RetrievalProvider, logger *zap.Logger) (*Pipeline, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("retrieval provider is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	cfg = cfg.withDefaults()

	var splitter SentenceSplitter
	switch cfg.Splitter {
	case SplitterProse:
		splitter = NewProseSentenceSplitter(logger)
	default:
		splitter = NewRegexSentenceSplitter()
	}

	return &Pipeline{
		cfg:      cfg,
		embedder: embedder,
		provider: provider,
		splitter: splitter,
		logger:   logger,
	}, nil
}

// Config returns a copy of the pipeline's effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// sortCandidatesByScore orders candidates by descending score. The sort is
// stable so ties keep their provider ranking.
func sortCandidatesByScore(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
