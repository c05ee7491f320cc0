package worldstate

import (
	"strings"
	"testing"
	"time"

	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/config"
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/persist"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/scripting"
	"github.com/opentibia/worldcore/internal/tile"

	"go.uber.org/zap"
)

// newTestWorld builds a cheap, fully wired WorldState against an in-memory
// store and a catalog parsed from catSrc (spec §9: "a test-only fresh
// WorldState must be cheap to construct"). cadence controls the tick rate
// tests need for their own determinism (the 1-second cron/house sweeps
// only fire when a tick crosses a 1-second boundary).
func newTestWorld(t *testing.T, catSrc string, cadence time.Duration) *WorldState {
	t.Helper()
	cat, err := catalog.Load(strings.NewReader(catSrc))
	if err != nil {
		t.Fatalf("load test catalog: %v", err)
	}
	cfg := &config.Config{
		Tick: config.TickConfig{Cadence: cadence},
		RNG:  config.RNGConfig{MasterSeed: 1},
	}
	engine, err := scripting.NewEngine("", zap.NewNop())
	if err != nil {
		t.Fatalf("new scripting engine: %v", err)
	}
	return New(cfg, cat, tile.NewMap(), persist.NewInMemoryStore(), engine, zap.NewNop())
}

// spawnTestPlayer places a fresh, online player directly into ws.Players,
// bypassing SpawnPlayer's SaveStore/offline-player lookups (which don't
// matter for these tests and only add noise).
func spawnTestPlayer(ws *WorldState, id ids.PlayerId, name string, pos geom.Position) *player.State {
	p := player.New(id, name, pos)
	ws.Players[id] = p
	ws.NameToID[name] = id
	return p
}
