package sources

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"grounder/rag"
)

// Payload fields expected on indexed points.
const (
	payloadParentField = "parent_id"
	payloadTitleField  = "title"
	payloadTextField   = "text"
)

type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	Collection string
}

// QdrantSource retrieves candidates from a Qdrant collection over gRPC.
// Scores come back on Qdrant's own similarity scale, so gate thresholds are
// tuned per deployment rather than shared with other providers.
type QdrantSource struct {
	client     *qdrant.Client
	collection string
	logger     *zap.Logger
}

func NewQdrantSource(cfg QdrantConfig, logger *zap.Logger) (*QdrantSource, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qdrant client: %w", err)
	}

	return &QdrantSource{
		client:     client,
		collection: cfg.Collection,
		logger:     logger,
	}, nil
}

// Search runs a single vector query against the collection. Qdrant already
// answers in score-descending order, which the pipeline preserves.
func (q *QdrantSource) Search(ctx context.Context, _ string, vector []float32, opts rag.SearchOptions) ([]rag.Candidate, error) {
	limit := uint64(opts.Top)
	if limit == 0 {
		limit = uint64(opts.KNearestNeighbors)
	}
	if limit == 0 {
		return nil, nil
	}

	queryPoints := &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(opts.Parents) > 0 {
		queryPoints.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatchKeywords(payloadParentField, opts.Parents...),
			},
		}
	}

	points, err := q.client.Query(ctx, queryPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant collection %s: %w", q.collection, err)
	}

	candidates := make([]rag.Candidate, 0, len(points))
	for _, point := range points {
		candidates = append(candidates, rag.Candidate{
			ID:       pointIDString(point.Id),
			ParentID: payloadString(point.Payload, payloadParentField),
			Title:    payloadString(point.Payload, payloadTitleField),
			Text:     payloadString(point.Payload, payloadTextField),
			Score:    float64(point.Score),
		})
	}
	return candidates, nil
}

// Ping checks service availability for health endpoints.
func (q *QdrantSource) Ping(ctx context.Context) error {
	if _, err := q.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.Kind.(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}
