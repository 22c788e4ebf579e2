// Package repository defines the roster store interface and errors.
//
// The engine itself never mutates players; the store exists so the roster
// collaborator can push snapshots that the HTTP layer reads back out as
// immutable values.
package repository

import (
	"context"

	"github.com/okian/lineup/internal/domain/model"
)

// Store provides read/write access to the roster state.
type Store interface {
	// Upsert inserts or replaces a player record.
	Upsert(ctx context.Context, p model.Player) error

	// Replace swaps the entire roster for the given snapshot.
	Replace(ctx context.Context, players []model.Player) error

	// Get returns one player. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (model.Player, error)

	// Snapshot returns a copy of the full roster, sorted by points
	// descending with player id as tie-breaker.
	Snapshot(ctx context.Context) []model.Player

	// Count returns the number of players in the roster.
	Count(ctx context.Context) int
}
