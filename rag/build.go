package rag

import (
	"context"

	"go.uber.org/zap"

	apperrors "grounder/errors"
)

// Request is one context-building call.
type Request struct {
	Query      string
	FocusTerms []string
	// Parents optionally restricts retrieval to the given parent documents.
	Parents []string
}

// Result carries the assembled bundle plus the per-stage counts the service
// layer logs and exports.
type Result struct {
	Context         string
	Declined        bool
	CandidateCount  int
	SelectedCount   int
	GroupCount      int
	BlockCount      int
	EstimatedTokens int
	// Trimmed reports that the token budget cut the bundle short.
	Trimmed bool
}

// BuildContext assembles the grounding context for a query. The returned
// string is empty with a nil error when the confidence gate declines; any
// embedding or retrieval failure surfaces as a non-nil error instead of a
// silently empty bundle.
func (p *Pipeline) BuildContext(ctx context.Context, query string, focusTerms []string) (string, error) {
	result, err := p.Build(ctx, Request{Query: query, FocusTerms: focusTerms})
	if err != nil {
		return "", err
	}
	return result.Context, nil
}

// Build runs the full pipeline: augment, embed, retrieve, gate, select,
// group, condense and stitch.
func (p *Pipeline) Build(ctx context.Context, req Request) (Result, error) {
	augmented := augmentQuery(req.Query, req.FocusTerms)

	vector, err := p.embedder.Embed(ctx, augmented)
	if err != nil {
		return Result{}, apperrors.WrapError(err, "embed query")
	}
	if len(vector) == 0 {
		return Result{}, apperrors.ErrEmptyEmbedding
	}

	candidates, err := p.provider.Search(ctx, augmented, vector, SearchOptions{
		Top:               p.cfg.TopPerVariant,
		KNearestNeighbors: p.cfg.KNearestNeighbors,
		Parents:           req.Parents,
	})
	if err != nil {
		return Result{}, apperrors.WrapError(err, "search candidates")
	}

	if p.cfg.SortByScore {
		sortCandidatesByScore(candidates)
	}

	if shouldDecline(candidates, p.cfg.MinTopScore, p.cfg.MinScoreGap) {
		p.logger.Debug("Declining low-confidence retrieval",
			zap.Int("candidates", len(candidates)),
			zap.Float64("minTopScore", p.cfg.MinTopScore))
		return Result{Declined: true, CandidateCount: len(candidates)}, nil
	}

	selected := selectDiverse(candidates, p.cfg.MaxPerParent, p.cfg.MaxTotalAfterFusion)
	groups := groupByParent(selected)
	blocks := p.renderGroups(groups)
	bundle, trimmed := stitchBlocks(blocks, p.cfg.MaxContextTokens)

	result := Result{
		Context:         bundle,
		CandidateCount:  len(candidates),
		SelectedCount:   len(selected),
		GroupCount:      len(groups),
		BlockCount:      len(blocks),
		EstimatedTokens: EstimateTokens(bundle),
		Trimmed:         trimmed,
	}
	p.logger.Debug("Assembled retrieval context",
		zap.Int("candidates", result.CandidateCount),
		zap.Int("selected", result.SelectedCount),
		zap.Int("blocks", result.BlockCount),
		zap.Int("estimatedTokens", result.EstimatedTokens),
		zap.Bool("trimmed", result.Trimmed))
	return result, nil
}

// renderGroups normalizes, deduplicates and condenses each group's chunks,
// then formats the survivors as context blocks. Groups that condense to
// nothing produce no block.
func (p *Pipeline) renderGroups(groups []documentGroup) []string {
	blocks := make([]string, 0, len(groups))
	for _, group := range groups {
		normalized := make([]string, 0, len(group.chunks))
		for _, chunk := range group.chunks {
			if clean := normalizeFragment(chunk); clean != "" {
				normalized = append(normalized, clean)
			}
		}
		condensed := p.condense(dedupeFragments(normalized))
		if condensed == "" {
			p.logger.Debug("Dropping empty document group", zap.String("parent", group.parentID))
			continue
		}
		blocks = append(blocks, formatBlock(group.title, condensed))
	}
	return blocks
}
