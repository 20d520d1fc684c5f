package store

import (
	"context"

	"github.com/ugaemi/facilitygen/internal/blueprint"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// BlueprintStore defines the interface for persistent blueprint storage.
type BlueprintStore interface {
	// Create inserts a new blueprint.
	Create(ctx context.Context, bp *blueprint.Blueprint) error
	// FindByID looks up a blueprint by ID. Returns nil, nil when absent.
	FindByID(ctx context.Context, id string) (*blueprint.Blueprint, error)
	// FindByCode looks up a blueprint by share code. Returns nil, nil when absent.
	FindByCode(ctx context.Context, code string) (*blueprint.Blueprint, error)
	// List returns the most recent blueprints, newest first.
	List(ctx context.Context, limit int) ([]*blueprint.Blueprint, error)
	// Delete removes a blueprint and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// Codes returns the set of share codes in use.
	Codes(ctx context.Context) (map[string]bool, error)
	// Close releases storage resources.
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit*5 {
		return DefaultListLimit
	}
	return limit
}
