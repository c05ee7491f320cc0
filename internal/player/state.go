package player

import (
	"encoding/json"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/statustimer"
)

// Outfit is the base or current creature appearance.
type Outfit struct {
	LookType int32
	Head     int32
	Body     int32
	Legs     int32
	Feet     int32
	Addons   int32
}

// NpcDialogueState is the per-npc dialogue-relevant state a player carries
// (spec §3: "current npc topic & per-npc variables").
type NpcDialogueState struct {
	Topic int32
	Vars  map[string]int32
}

// AutowalkQueue is the FIFO step buffer spec §9's collection-semantics note
// names explicitly ("Queue of T... for... autowalk step buffer (FIFO)").
type AutowalkQueue struct {
	steps []geom.Direction
}

// Push appends a step to the end of the queue.
func (q *AutowalkQueue) Push(d geom.Direction) { q.steps = append(q.steps, d) }

// Pop removes and returns the next step, if any.
func (q *AutowalkQueue) Pop() (geom.Direction, bool) {
	if len(q.steps) == 0 {
		return 0, false
	}
	d := q.steps[0]
	q.steps = q.steps[1:]
	return d, true
}

// Clear empties the queue.
func (q *AutowalkQueue) Clear() { q.steps = nil }

// MarshalJSON exposes the unexported step buffer to persist's JSON-blob
// save format.
func (q AutowalkQueue) MarshalJSON() ([]byte, error) {
	if q.steps == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q.steps)
}

// UnmarshalJSON restores the step buffer from persist's JSON-blob save
// format.
func (q *AutowalkQueue) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &q.steps)
}

// Len reports the number of queued steps.
func (q *AutowalkQueue) Len() int { return len(q.steps) }

// MaxOpenContainers bounds how many container sessions one player may have
// open simultaneously (spec §3 OpenContainer: "Up to a small fixed pool per
// player"; the wire id itself is a byte, so this stays well under 256).
const MaxOpenContainers = 64

// State is one player's complete in-memory state (spec §3 "PlayerState").
type State struct {
	ID        ids.PlayerId
	Name      string
	Pos       geom.Position
	Direction geom.Direction

	BaseOutfit    Outfit
	CurrentOutfit Outfit

	Stats      Stats
	Profession Profession
	Skills     Skills

	SkillTimers *statustimer.Table
	Effects     *statustimer.Effects

	KnownSpells map[ids.SpellId]bool
	Cooldowns   Cooldowns

	// SpellCastAt and GroupCastAt record the tick each individual spell and
	// spell group was last cast, spec §4.3 step 5's per-spell/group cooldown
	// gate. They persist across casts the way Cooldowns' scalar counters
	// persist across attacks/moves.
	SpellCastAt map[ids.SpellId]int64
	GroupCastAt map[ids.SpellGroupId]int64

	Inventory  *item.Inventory
	Containers *item.ContainerPool // open-container sessions, spec §3 "OpenContainer"
	Depots     map[int32][]*item.ItemStack // depot id (town) -> items

	Buddies     map[ids.PlayerId]bool
	QuestValues map[int32]int32

	PartyID int64 // 0 = no party

	// AttackTarget and FollowTarget back set_player_attack_target and
	// set_player_follow_target; 0 means no target set.
	AttackTarget ids.CreatureId
	FollowTarget ids.CreatureId

	PvPFightTimer   int32
	WhiteSkullTimer int32

	StartPos geom.Position

	Autowalk AutowalkQueue

	NpcDialogue map[string]*NpcDialogueState // npc script key -> state

	// Online is false once moved to offline_players by worldstate (spec §3
	// PlayerState Lifecycle: "on disconnect, if logout allowed, moved to
	// offline_players").
	Online bool
}

// New constructs a fresh player at spawnPos with empty collections (spec
// §3 PlayerState Lifecycle: "created by spawn_player").
func New(id ids.PlayerId, name string, spawnPos geom.Position) *State {
	return &State{
		ID:          id,
		Name:        name,
		Pos:         spawnPos,
		StartPos:    spawnPos,
		Stats:       Stats{},
		SkillTimers: statustimer.NewTable(),
		Effects:     statustimer.NewEffects(),
		KnownSpells: make(map[ids.SpellId]bool),
		SpellCastAt: make(map[ids.SpellId]int64),
		GroupCastAt: make(map[ids.SpellGroupId]int64),
		Inventory:   item.NewInventory(),
		Containers:  item.NewContainerPool(MaxOpenContainers),
		Depots:      make(map[int32][]*item.ItemStack),
		Buddies:     make(map[ids.PlayerId]bool),
		QuestValues: make(map[int32]int32),
		NpcDialogue: make(map[string]*NpcDialogueState),
		Online:      true,
	}
}

// InPvPFight reports whether the PvP fight timer is currently running.
func (s *State) InPvPFight() bool { return s.PvPFightTimer > 0 }

// MarkPvPFight resets the PvP fight timer to the given tick count (spec
// §4.4: "Attacker... marks white-skull if target is another player").
func (s *State) MarkPvPFight(ticks int32) { s.PvPFightTimer = ticks }

// TickFightTimers decrements the PvP fight and white-skull timers by one.
func (s *State) TickFightTimers() {
	if s.PvPFightTimer > 0 {
		s.PvPFightTimer--
	}
	if s.WhiteSkullTimer > 0 {
		s.WhiteSkullTimer--
	}
}

// DialogueState returns (creating if needed) the per-npc dialogue state
// for the given script key.
func (s *State) DialogueState(npcKey string) *NpcDialogueState {
	st, ok := s.NpcDialogue[npcKey]
	if !ok {
		st = &NpcDialogueState{Vars: make(map[string]int32)}
		s.NpcDialogue[npcKey] = st
	}
	return st
}

// QuestValue returns the value for id, defaulting to 0.
func (s *State) QuestValue(id int32) int32 { return s.QuestValues[id] }

// SetQuestValue sets the value for id.
func (s *State) SetQuestValue(id, value int32) { s.QuestValues[id] = value }
