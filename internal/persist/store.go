// Package persist defines the `SaveStore` boundary spec §6 names ("the
// world does not mandate a format; it only requires load_player, save_
// player, and a directory listing of players/* for reverse-name lookup")
// and provides two implementations: an in-memory one for tests and a
// Postgres-backed one (pgx + goose migrations) for production.
package persist

import (
	"context"
	"errors"
	"sync"

	"github.com/opentibia/worldcore/internal/housing"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/player"
)

// ErrNotFound is returned by Load* methods when the named record does not
// exist.
var ErrNotFound = errors.New("persist: not found")

// SaveStore is the full persistence boundary the world core consults:
// player saves, name→id reverse lookup, and the depot/house state mail
// delivery and rent eviction need while a player is offline (spec §6,
// §4.2 "LoadDepot/SaveDepot", §4.9 "SendMail ... via SaveStore").
type SaveStore interface {
	LoadPlayer(ctx context.Context, id ids.PlayerId) (*player.State, error)
	SavePlayer(ctx context.Context, state *player.State) error
	ListPlayerNames(ctx context.Context) ([]string, error)
	ResolvePlayerID(ctx context.Context, name string) (ids.PlayerId, error)

	housing.OfflineStore
}

// InMemoryStore is a SaveStore backed by plain Go maps, for tests and for
// a database-less standalone mode.
type InMemoryStore struct {
	mu      sync.Mutex
	players map[ids.PlayerId]*player.State
	names   map[string]ids.PlayerId
	depots  map[string]housing.DepotSet
}

// NewInMemoryStore returns an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		players: make(map[ids.PlayerId]*player.State),
		names:   make(map[string]ids.PlayerId),
		depots:  make(map[string]housing.DepotSet),
	}
}

func (s *InMemoryStore) LoadPlayer(ctx context.Context, id ids.PlayerId) (*player.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st, nil
}

func (s *InMemoryStore) SavePlayer(ctx context.Context, state *player.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[state.ID] = state
	s.names[state.Name] = state.ID
	return nil
}

func (s *InMemoryStore) ListPlayerNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	return names, nil
}

func (s *InMemoryStore) ResolvePlayerID(ctx context.Context, name string) (ids.PlayerId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.names[name]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

// LoadDepots implements housing.OfflineStore.
func (s *InMemoryStore) LoadDepots(playerName string) (housing.DepotSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	depots, ok := s.depots[playerName]
	if !ok {
		return make(housing.DepotSet), nil
	}
	return depots, nil
}

// SaveDepots implements housing.OfflineStore.
func (s *InMemoryStore) SaveDepots(playerName string, depots housing.DepotSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depots[playerName] = depots
	return nil
}
