// Package postgres implements canvas.GraphStore using PostgreSQL via pgx.
// Each graph is one JSONB row keyed by name, upserted on save.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/canvas"
)

// PGStore implements canvas.GraphStore backed by a pgx connection pool.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Load fetches the graph stored under key.
// Returns canvas.ErrGraphNotFound if no row exists.
func (s *PGStore) Load(ctx context.Context, key string) (*canvas.WorkflowGraph, error) {
	var g canvas.WorkflowGraph
	err := s.db.QueryRow(ctx,
		`SELECT data FROM workflow_graphs WHERE key = $1`, key,
	).Scan(&g)

	if err != nil {
		if isNoRows(err) {
			return nil, canvas.ErrGraphNotFound
		}
		return nil, fmt.Errorf("canvas: load graph: %w", err)
	}

	return &g, nil
}

// Save stamps SavedAt and upserts the graph under key.
func (s *PGStore) Save(ctx context.Context, key string, g *canvas.WorkflowGraph) error {
	g.SavedAt = time.Now().UTC()

	_, err := s.db.Exec(ctx,
		`INSERT INTO workflow_graphs (key, data, saved_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET data = $2, saved_at = $3`,
		key, g, g.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("canvas: save graph: %w", err)
	}
	return nil
}

// Delete removes the graph under key. No error if it doesn't exist.
func (s *PGStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM workflow_graphs WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("canvas: delete graph: %w", err)
	}
	return nil
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return err != nil && err.Error() == "no rows in result set"
}
