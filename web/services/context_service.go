package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"grounder/metrics"
	"grounder/rag"
	"grounder/utils"
	"grounder/web/types"
)

type ContextService struct {
	pipeline *rag.Pipeline
	logger   *zap.Logger
}

func NewContextService(pipeline *rag.Pipeline, logger *zap.Logger) *ContextService {
	return &ContextService{
		pipeline: pipeline,
		logger:   logger,
	}
}

// BuildContext validates the request, runs the retrieval pipeline, and maps
// the outcome onto the transport response. A decline is not an error: the
// caller gets an empty bundle and decides how to answer without grounding.
func (cs *ContextService) BuildContext(ctx context.Context, req types.ContextRequest) (*types.ContextResponse, error) {
	query, err := utils.SanitizeQuery(req.Query)
	if err != nil {
		return nil, err
	}
	focusTerms := utils.SanitizeFocusTerms(req.FocusTerms)
	for _, parent := range req.Parents {
		if err := utils.ValidateParentID(parent); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result, err := cs.pipeline.Build(ctx, rag.Request{
		Query:      query,
		FocusTerms: focusTerms,
		Parents:    req.Parents,
	})
	if err != nil {
		metrics.ObserveContextRequest("error", time.Since(start))
		return nil, err
	}

	metrics.RecordCandidates(result.CandidateCount)
	outcome := "ok"
	if result.Declined {
		outcome = "declined"
		metrics.IncDecline()
	} else {
		metrics.RecordContextTokens(result.EstimatedTokens)
		if result.Trimmed {
			metrics.IncTrim()
		}
	}
	metrics.ObserveContextRequest(outcome, time.Since(start))

	cs.logger.Info("Context request served",
		zap.String("outcome", outcome),
		zap.Int("candidates", result.CandidateCount),
		zap.Int("selected", result.SelectedCount),
		zap.Int("groups", result.GroupCount),
		zap.Int("blocks", result.BlockCount),
		zap.Int("estimated_tokens", result.EstimatedTokens),
		zap.Duration("duration", time.Since(start)))

	return &types.ContextResponse{
		Context:         result.Context,
		Declined:        result.Declined,
		CandidateCount:  result.CandidateCount,
		SelectedCount:   result.SelectedCount,
		BlockCount:      result.BlockCount,
		EstimatedTokens: result.EstimatedTokens,
	}, nil
}
