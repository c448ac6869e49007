package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// Fragment is one indexed chunk of a source document.
type Fragment struct {
	ID        uuid.UUID
	ParentID  string
	Title     string
	Content   string
	Embedding []float32
}

// UpsertFragment stores or updates a fragment and its embedding. A nil ID
// gets a fresh UUID; the assigned ID is returned either way.
func (s *PostgresStore) UpsertFragment(ctx context.Context, frag Fragment) (uuid.UUID, error) {
	if frag.ID == uuid.Nil {
		frag.ID = uuid.New()
	}

	query := `
        INSERT INTO fragments (id, parent_id, title, content, embedding, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        ON CONFLICT (id)
        DO UPDATE SET parent_id = EXCLUDED.parent_id, title = EXCLUDED.title, content = EXCLUDED.content, embedding = EXCLUDED.embedding, updated_at = NOW()
    `

	if _, err := s.DB.ExecContext(ctx, query, frag.ID, frag.ParentID, frag.Title, frag.Content, pgvector.NewVector(frag.Embedding)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert fragment: %w", err)
	}
	return frag.ID, nil
}

// DeleteFragmentsByParent removes every fragment of the given parent document,
// returning how many rows went away.
func (s *PostgresStore) DeleteFragmentsByParent(ctx context.Context, parentID string) (int64, error) {
	const query = `DELETE FROM fragments WHERE parent_id = $1`

	result, err := s.DB.ExecContext(ctx, query, parentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete fragments for parent %s: %w", parentID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to determine rows deleted for parent %s: %w", parentID, err)
	}

	return rowsAffected, nil
}

// CountFragments reports the index size, used at startup and by health logs.
func (s *PostgresStore) CountFragments(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fragments: %w", err)
	}
	return count, nil
}
