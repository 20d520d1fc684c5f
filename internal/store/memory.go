package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ugaemi/facilitygen/internal/blueprint"
)

// MemoryStore keeps blueprints in process memory. It is used when no
// database is configured; contents are lost on restart.
type MemoryStore struct {
	byID   map[string]*blueprint.Blueprint
	byCode map[string]*blueprint.Blueprint
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*blueprint.Blueprint),
		byCode: make(map[string]*blueprint.Blueprint),
	}
}

// Create inserts a new blueprint. IDs and codes must be unique.
func (s *MemoryStore) Create(_ context.Context, bp *blueprint.Blueprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[bp.ID]; ok {
		return fmt.Errorf("blueprint %s already exists", bp.ID)
	}
	if _, ok := s.byCode[bp.Code]; ok {
		return fmt.Errorf("share code %s already in use", bp.Code)
	}

	s.byID[bp.ID] = bp
	s.byCode[bp.Code] = bp
	slog.Debug("blueprint stored", "id", bp.ID, "code", bp.Code)
	return nil
}

// FindByID looks up a blueprint by ID.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*blueprint.Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id], nil
}

// FindByCode looks up a blueprint by share code.
func (s *MemoryStore) FindByCode(_ context.Context, code string) (*blueprint.Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byCode[code], nil
}

// List returns the most recent blueprints, newest first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*blueprint.Blueprint, error) {
	s.mu.RLock()
	out := make([]*blueprint.Blueprint, 0, len(s.byID))
	for _, bp := range s.byID {
		out = append(out, bp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit = normalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a blueprint.
func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bp, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	delete(s.byID, id)
	delete(s.byCode, bp.Code)
	return true, nil
}

// Codes returns the set of share codes in use.
func (s *MemoryStore) Codes(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := make(map[string]bool, len(s.byCode))
	for code := range s.byCode {
		existing[code] = true
	}
	return existing, nil
}

// Count returns the number of stored blueprints.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close implements BlueprintStore.
func (s *MemoryStore) Close() error {
	return nil
}
