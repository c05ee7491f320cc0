package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opentibia/worldcore/internal/housing"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/player"
)

// PostgresStore is the production SaveStore, grounded on the teacher's
// warehouse_repo.go (raw pgx queries over a shared *DB, no ORM). Player
// and depot state are stored as JSONB blobs rather than normalized
// columns: spec §6 deliberately leaves the save format unspecified
// ("the world does not mandate a format"), and a single blob column
// lets player.State evolve without a migration per field.
type PostgresStore struct {
	db *DB
}

// NewPostgresStore wraps db as a SaveStore.
func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadPlayer(ctx context.Context, id ids.PlayerId) (*player.State, error) {
	var data []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT data FROM players WHERE id = $1`, int64(id),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load player %d: %w", id, err)
	}
	var st player.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal player %d: %w", id, err)
	}
	return &st, nil
}

func (s *PostgresStore) SavePlayer(ctx context.Context, state *player.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal player %d: %w", state.ID, err)
	}
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO players (id, name, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = now()
	`, int64(state.ID), state.Name, data)
	if err != nil {
		return fmt.Errorf("save player %d: %w", state.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListPlayerNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT name FROM players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list player names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan player name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *PostgresStore) ResolvePlayerID(ctx context.Context, name string) (ids.PlayerId, error) {
	var id int64
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id FROM players WHERE name = $1`, name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve player id for %s: %w", name, err)
	}
	return ids.PlayerId(id), nil
}

// LoadDepots implements housing.OfflineStore.
func (s *PostgresStore) LoadDepots(playerName string) (housing.DepotSet, error) {
	ctx := context.Background()
	var data []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT data FROM depots WHERE player_name = $1`, playerName,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return make(housing.DepotSet), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load depots for %s: %w", playerName, err)
	}
	depots := make(housing.DepotSet)
	if err := json.Unmarshal(data, &depots); err != nil {
		return nil, fmt.Errorf("unmarshal depots for %s: %w", playerName, err)
	}
	return depots, nil
}

// SaveDepots implements housing.OfflineStore.
func (s *PostgresStore) SaveDepots(playerName string, depots housing.DepotSet) error {
	ctx := context.Background()
	data, err := json.Marshal(depots)
	if err != nil {
		return fmt.Errorf("marshal depots for %s: %w", playerName, err)
	}
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO depots (player_name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (player_name) DO UPDATE
		SET data = EXCLUDED.data, updated_at = now()
	`, playerName, data)
	if err != nil {
		return fmt.Errorf("save depots for %s: %w", playerName, err)
	}
	return nil
}
