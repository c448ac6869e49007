package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	pgvector "github.com/pgvector/pgvector-go"

	"grounder/rag"
)

// hybridSearchQuery fuses a cosine-similarity branch with a full-text branch.
// Each branch is normalized by its own best score before the weighted sum, so
// neither scale dominates the other. Rows found by only one branch keep a
// zero contribution from the other.
const hybridSearchQuery = `
WITH semantic AS (
    SELECT id, parent_id, title, content,
           1 - (embedding <=> $1) AS score
    FROM fragments
    WHERE ($4::text[] IS NULL OR parent_id = ANY($4))
    ORDER BY embedding <=> $1
    LIMIT $2
),
lexical AS (
    SELECT id, parent_id, title, content,
           ts_rank_cd(search_tsv, websearch_to_tsquery('english', $3)) AS score
    FROM fragments
    WHERE search_tsv @@ websearch_to_tsquery('english', $3)
      AND ($4::text[] IS NULL OR parent_id = ANY($4))
    ORDER BY score DESC
    LIMIT $2
),
fused AS (
    SELECT COALESCE(s.id, l.id) AS id,
           COALESCE(s.parent_id, l.parent_id) AS parent_id,
           COALESCE(s.title, l.title) AS title,
           COALESCE(s.content, l.content) AS content,
           0.7 * COALESCE(s.score / NULLIF((SELECT MAX(score) FROM semantic), 0), 0) +
           0.3 * COALESCE(l.score / NULLIF((SELECT MAX(score) FROM lexical), 0), 0) AS score
    FROM semantic s
    FULL OUTER JOIN lexical l ON s.id = l.id
)
SELECT id, parent_id, title, content, score
FROM fused
ORDER BY score DESC, id
LIMIT $5`

// Search implements the retrieval provider contract on the fragments table.
// The vector branch fetches opts.KNearestNeighbors rows before fusion and the
// fused ranking is cut to opts.Top.
func (s *PostgresStore) Search(ctx context.Context, query string, vector []float32, opts rag.SearchOptions) ([]rag.Candidate, error) {
	fetchWidth := opts.KNearestNeighbors
	if fetchWidth < opts.Top {
		fetchWidth = opts.Top
	}
	if fetchWidth <= 0 {
		return nil, nil
	}
	top := opts.Top
	if top <= 0 {
		top = fetchWidth
	}

	var parentFilter interface{}
	if len(opts.Parents) > 0 {
		parentFilter = pq.Array(opts.Parents)
	}

	rows, err := s.DB.QueryContext(ctx, hybridSearchQuery,
		pgvector.NewVector(vector), fetchWidth, query, parentFilter, top)
	if err != nil {
		return nil, fmt.Errorf("failed to run hybrid fragment search: %w", err)
	}
	defer rows.Close()

	var candidates []rag.Candidate
	for rows.Next() {
		var id uuid.UUID
		var cand rag.Candidate
		if err := rows.Scan(&id, &cand.ParentID, &cand.Title, &cand.Text, &cand.Score); err != nil {
			return nil, fmt.Errorf("failed to scan fragment row: %w", err)
		}
		cand.ID = id.String()
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fragment rows: %w", err)
	}
	return candidates, nil
}
