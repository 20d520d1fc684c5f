package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/facilitygen/internal/blueprint"
	"github.com/ugaemi/facilitygen/internal/mapgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS blueprints (
    id TEXT PRIMARY KEY,
    code TEXT UNIQUE NOT NULL,
    seed BIGINT NOT NULL,
    max_rooms INTEGER NOT NULL,
    cell_width DOUBLE PRECISION NOT NULL,
    cell_height DOUBLE PRECISION NOT NULL,
    origin JSONB NOT NULL,
    rooms JSONB NOT NULL,
    links JSONB NOT NULL,
    stop_reason TEXT NOT NULL,
    discarded INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_blueprints_created_at ON blueprints(created_at DESC);
`

const selectColumns = `SELECT id, code, seed, max_rooms, cell_width, cell_height, origin, rooms, links,
		stop_reason, discarded, created_at FROM blueprints`

// PostgresStore implements BlueprintStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Create inserts a new blueprint.
func (s *PostgresStore) Create(ctx context.Context, bp *blueprint.Blueprint) error {
	origin, err := json.Marshal(bp.Origin)
	if err != nil {
		return err
	}
	rooms, err := json.Marshal(bp.Rooms)
	if err != nil {
		return err
	}
	links, err := json.Marshal(bp.Links)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO blueprints (id, code, seed, max_rooms, cell_width, cell_height, origin, rooms, links,
		 stop_reason, discarded, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		bp.ID, bp.Code, bp.Seed, bp.MaxRooms, bp.CellWidth, bp.CellHeight, origin, rooms, links,
		string(bp.StopReason), bp.Discarded, bp.CreatedAt)
	return err
}

// FindByID looks up a blueprint by ID.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*blueprint.Blueprint, error) {
	row := s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)

	bp, err := scanBlueprint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return bp, err
}

// FindByCode looks up a blueprint by share code.
func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*blueprint.Blueprint, error) {
	row := s.pool.QueryRow(ctx, selectColumns+` WHERE code = $1`, code)

	bp, err := scanBlueprint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return bp, err
}

// List returns the most recent blueprints, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*blueprint.Blueprint, error) {
	rows, err := s.pool.Query(ctx, selectColumns+` ORDER BY created_at DESC LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*blueprint.Blueprint
	for rows.Next() {
		bp, err := scanBlueprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, rows.Err()
}

// Delete removes a blueprint.
func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM blueprints WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Codes returns the set of share codes in use.
func (s *PostgresStore) Codes(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT code FROM blueprints`)
	if err != nil {
		return nil, err
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(codes))
	for _, c := range codes {
		existing[c] = true
	}
	return existing, nil
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanBlueprint(row pgx.Row) (*blueprint.Blueprint, error) {
	var (
		bp                   blueprint.Blueprint
		origin, rooms, links []byte
		stopReason           string
	)
	err := row.Scan(&bp.ID, &bp.Code, &bp.Seed, &bp.MaxRooms, &bp.CellWidth, &bp.CellHeight,
		&origin, &rooms, &links, &stopReason, &bp.Discarded, &bp.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(origin, &bp.Origin); err != nil {
		return nil, fmt.Errorf("decode origin of %s: %w", bp.ID, err)
	}
	if err := json.Unmarshal(rooms, &bp.Rooms); err != nil {
		return nil, fmt.Errorf("decode rooms of %s: %w", bp.ID, err)
	}
	if err := json.Unmarshal(links, &bp.Links); err != nil {
		return nil, fmt.Errorf("decode links of %s: %w", bp.ID, err)
	}
	bp.StopReason = mapgen.StopReason(stopReason)
	return &bp, nil
}
