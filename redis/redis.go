// Package redis implements canvas.GraphStore on Redis: one JSON blob
// per key via GET/SET, prefixed to keep the keyspace tidy.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/canvas"
)

const keyPrefix = "canvas:graph:"

// Store implements canvas.GraphStore backed by a Redis client.
type Store struct {
	client *redis.Client
}

// New creates a Store backed by the given Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Load fetches and decodes the blob stored under key.
// Returns canvas.ErrGraphNotFound if the key is absent.
func (s *Store) Load(ctx context.Context, key string) (*canvas.WorkflowGraph, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, canvas.ErrGraphNotFound
		}
		return nil, fmt.Errorf("canvas: load graph: %w", err)
	}

	var g canvas.WorkflowGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("canvas: decode graph: %w", err)
	}
	return &g, nil
}

// Save stamps SavedAt and overwrites the blob under key.
func (s *Store) Save(ctx context.Context, key string, g *canvas.WorkflowGraph) error {
	g.SavedAt = time.Now().UTC()

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("canvas: encode graph: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("canvas: save graph: %w", err)
	}
	return nil
}

// Delete removes the blob under key. No error if it doesn't exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("canvas: delete graph: %w", err)
	}
	return nil
}
