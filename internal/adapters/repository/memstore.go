package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/lineup/internal/domain/model"
)

// MemStore implements Store with an in-memory map guarded by an RWMutex.
// Snapshot returns copies, so callers can hand the result to the engine
// without further locking.
type MemStore struct {
	mu      sync.RWMutex
	players map[string]model.Player
}

// NewMemStore creates an empty in-memory roster store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{players: make(map[string]model.Player)}
}

// Upsert inserts or replaces a player record.
func (s *MemStore) Upsert(_ context.Context, p model.Player) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty player id", ErrInvalidPlayer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
	return nil
}

// Replace swaps the entire roster for the given snapshot.
func (s *MemStore) Replace(_ context.Context, players []model.Player) error {
	next := make(map[string]model.Player, len(players))
	for _, p := range players {
		if p.ID == "" {
			return fmt.Errorf("%w: empty player id", ErrInvalidPlayer)
		}
		next[p.ID] = p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = next
	return nil
}

// Get returns one player or ErrNotFound.
func (s *MemStore) Get(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// Snapshot returns a sorted copy of the full roster.
func (s *MemStore) Snapshot(_ context.Context) []model.Player {
	s.mu.RLock()
	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of players in the roster.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
