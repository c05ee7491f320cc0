// Package worldstate implements the WorldState facade: the single
// exclusively-owned container spec §9 names ("WorldState is the only
// authoritative singleton; instantiated once per world") that wires every
// other package in this module into the twelve-step tick pipeline (spec
// §4.1) and the command/observation surface (spec §6).
package worldstate

import (
	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/config"
	"github.com/opentibia/worldcore/internal/corepipeline"
	"github.com/opentibia/worldcore/internal/cron"
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/housing"
	"github.com/opentibia/worldcore/internal/idalloc"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/monster"
	"github.com/opentibia/worldcore/internal/moveuse"
	"github.com/opentibia/worldcore/internal/npc"
	"github.com/opentibia/worldcore/internal/persist"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/rng"
	"github.com/opentibia/worldcore/internal/scripting"
	"github.com/opentibia/worldcore/internal/social"
	"github.com/opentibia/worldcore/internal/spellbook"
	"github.com/opentibia/worldcore/internal/tile"

	"go.uber.org/zap"
)

// Clock is the monotonic game-tick clock spec §5 names: "driving a
// monotonic GameTick clock (usually 100 ms per tick)". It also tracks the
// cron "round" (absolute one-second counter, spec §9).
type Clock struct {
	Tick  int64
	Round int64
}

// RNGStreams bundles the four independent deterministic streams spec §5
// requires: "four independent streams seeded at startup
// (moveuse/loot/monster/npc)".
type RNGStreams struct {
	MoveUse *rng.Stream
	Loot    *rng.Stream
	Monster *rng.Stream
	NPC     *rng.Stream
}

// NewRNGStreams derives the four streams from one master seed, offsetting
// each so they never alias each other's sequence.
func NewRNGStreams(masterSeed uint64) RNGStreams {
	return RNGStreams{
		MoveUse: rng.NewStream(masterSeed ^ 0x1),
		Loot:    rng.NewStream(masterSeed ^ 0x2),
		Monster: rng.NewStream(masterSeed ^ 0x3),
		NPC:     rng.NewStream(masterSeed ^ 0x4),
	}
}

// WorldState owns every subsystem's live data. It is not safe for
// concurrent use: spec §5 mandates a single-threaded cooperative owner
// with "no internal locking, no suspension points inside a tick".
type WorldState struct {
	Config *config.Config
	Clock  Clock

	Catalog *catalog.Index
	Map     *tile.Map

	Players        map[ids.PlayerId]*player.State
	OfflinePlayers map[ids.PlayerId]*player.State
	NameToID       map[string]ids.PlayerId

	Monsters map[ids.CreatureId]*monster.Instance
	Homes    []*monster.Home
	Raids    []monster.RaidSchedule

	NPCs map[ids.CreatureId]*npc.Instance

	Houses map[int32]*housing.House
	Depots map[ids.PlayerId]housing.DepotSet

	Parties  map[int64]*social.Party
	Channels social.Registry
	Trades   map[ids.PlayerId]*social.TradeSession
	Shops    map[ids.CreatureId]social.ShopTable

	MoveUseRules *moveuse.Section
	SpellBook    map[ids.SpellId]spellbook.Spell
	CircleLUT    *geom.CircleLUT

	Cron *cron.Scheduler

	RNG RNGStreams

	Scripting *scripting.Engine
	Store     persist.SaveStore
	Log       *zap.Logger

	ItemIDs    *idalloc.Monotonic[ids.ItemId]
	CreatureIDs *idalloc.Monotonic[ids.CreatureId]
	PartyIDs   *idalloc.Monotonic[int64]

	MapRefresh MapRefreshCursor

	pending      map[ids.PlayerId]*pendingQueues
	runner       *corepipeline.Runner
	itemLocation map[ids.ItemId]geom.Position // tracks cron-scheduled items for tick_cron_system lookup
}

// MapRefreshCursor tracks the linear sector sweep spec §4.11 describes:
// "a linear sweep cursor over the map's sector bounding-box".
type MapRefreshCursor struct {
	NextX, NextY uint16
	Z            uint8
}

// New constructs an empty WorldState ready for spawn_player and tick
// calls (spec §9: "a test-only fresh WorldState must be cheap to
// construct").
func New(cfg *config.Config, cat *catalog.Index, m *tile.Map, store persist.SaveStore, scriptEngine *scripting.Engine, log *zap.Logger) *WorldState {
	if log == nil {
		log = zap.NewNop()
	}
	ws := &WorldState{
		Config:         cfg,
		Catalog:        cat,
		Map:            m,
		Players:        make(map[ids.PlayerId]*player.State),
		OfflinePlayers: make(map[ids.PlayerId]*player.State),
		NameToID:       make(map[string]ids.PlayerId),
		Monsters:       make(map[ids.CreatureId]*monster.Instance),
		NPCs:           make(map[ids.CreatureId]*npc.Instance),
		Houses:         make(map[int32]*housing.House),
		Depots:         make(map[ids.PlayerId]housing.DepotSet),
		Parties:        make(map[int64]*social.Party),
		Channels:       make(social.Registry),
		Trades:         make(map[ids.PlayerId]*social.TradeSession),
		Shops:          make(map[ids.CreatureId]social.ShopTable),
		SpellBook:      make(map[ids.SpellId]spellbook.Spell),
		CircleLUT:      geom.NewCircleLUT([]int{0, 1, 2, 3, 4, 5, 6, 7, 8}),
		Cron:           cron.NewScheduler(),
		RNG:            NewRNGStreams(cfg.RNG.MasterSeed),
		Scripting:      scriptEngine,
		Store:          store,
		Log:            log,
		ItemIDs:        idalloc.NewMonotonic[ids.ItemId](1),
		CreatureIDs:    idalloc.NewMonotonic[ids.CreatureId](1),
		PartyIDs:       idalloc.NewMonotonic[int64](1),
		pending:        make(map[ids.PlayerId]*pendingQueues),
		itemLocation:   make(map[ids.ItemId]geom.Position),
	}
	ws.runner = ws.buildRunner()
	return ws
}

// queueFor returns (creating if needed) a player's pending-observation
// queues.
func (ws *WorldState) queueFor(id ids.PlayerId) *pendingQueues {
	q, ok := ws.pending[id]
	if !ok {
		q = newPendingQueues()
		ws.pending[id] = q
	}
	return q
}

// NextItemID allocates the next globally-unique ItemId (spec §3:
// "ItemId is globally unique and monotonically allocated").
func (ws *WorldState) NextItemID() ids.ItemId { return ws.ItemIDs.Next() }

// NextCreatureID allocates the next CreatureId, shared across monsters,
// NPCs and player-owned summons (spec §3 "MonsterInstance" note on
// CreatureId addressing).
func (ws *WorldState) NextCreatureID() ids.CreatureId { return ws.CreatureIDs.Next() }
