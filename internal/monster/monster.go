// Package monster implements MonsterInstance and its AI decision logic
// (spec §3 "MonsterInstance", §4.5 "Monster AI", §4.7 "Monster homes &
// raids"). AI decisions are returned as data for worldstate to dispatch
// into combat/spellbook, avoiding an import from monster into those
// packages (spec §9 implementation note).
package monster

import (
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
)

// StrategyWeights are the four target-selection weights spec §4.5 names:
// "[nearest, least-mana, most-damage, random]". Default is [100,0,0,0].
type StrategyWeights struct {
	Nearest    int32
	LeastMana  int32
	MostDamage int32
	Random     int32
}

// DefaultStrategyWeights is the spec-named default.
var DefaultStrategyWeights = StrategyWeights{Nearest: 100}

// ScriptFlags are the boolean AI/behavior modifiers spec §3 names:
// "see-invisible, kick-boxes, kick-creatures, unpushable, no-summon,
// no-convince, no-illusion, no-paralyze, distance-fighting, etc."
type ScriptFlags struct {
	SeeInvisible     bool
	KickBoxes        bool
	KickCreatures    bool
	Unpushable       bool
	NoSummon         bool
	NoConvince       bool
	NoIllusion       bool
	NoParalyze       bool
	DistanceFighting bool
	// Guard marks a monster that never auto-attacks and stands its ground
	// at its home/spawn position (SPEC_FULL §4.13 supplement).
	Guard bool
}

// TalkLine is one of the monster's scripted chat lines (spec §4.5: "Lines
// prefixed #Y = yell, #W/default = say").
type TalkLine struct {
	Text  string
	IsYell bool
}

// Cooldowns bundles the monster's three independent AI cooldowns (spec §3
// "move/combat/talk cooldowns").
type Cooldowns struct {
	Move   int32
	Combat int32
	Talk   int32
}

func (c *Cooldowns) Tick() {
	if c.Move > 0 {
		c.Move--
	}
	if c.Combat > 0 {
		c.Combat--
	}
	if c.Talk > 0 {
		c.Talk--
	}
}

// Instance is one spawned monster (spec §3 "MonsterInstance").
type Instance struct {
	ID       ids.CreatureId
	Race     int32
	Summoner *ids.PlayerId // nil unless convinced/raised
	HomeID   int32
	Pos      geom.Position

	Health    int32
	MaxHealth int32
	Level     int32

	ExperienceReward int64
	LootTable        []LootEntry

	Inventory    *item.Inventory
	CorpseTypeID ids.ItemTypeId // static corpse object type, from the .mon script
	CorpseItem   ids.ItemId     // runtime id of the placed corpse, 0 until dropped

	Flags ScriptFlags

	Skills         MonsterSkills
	Attack         int32
	Defend         int32
	Armor          int32
	PoisonDamage   int32
	StrategyWeights StrategyWeights
	Spells         []SpellUse

	FleeThresholdHP  int32
	LoseTargetDistance int32
	CurrentTarget    ids.CreatureId // 0 if none

	DamageBy map[ids.PlayerId]int64 // per-attacker cumulative damage, for loot/exp split

	Speed int32

	Cooldowns Cooldowns
	TalkLines []TalkLine
}

// MonsterSkills bundles the raw melee skill values monster combat
// resolution consults.
type MonsterSkills struct {
	Melee int32
}

// LootEntry is one weighted drop in the monster's loot table.
type LootEntry struct {
	TypeID     ids.ItemTypeId
	ChancePerMil int32 // chance out of 1000
	MinCount   int32
	MaxCount   int32
}

// SpellUse is one entry in the monster's ordered spell list (spec §4.5
// step 3: "iterate spells in order, first spell whose target-meta applies
// ... AND whose % chance succeeds").
type SpellUse struct {
	SpellID      ids.SpellId
	ChancePercent int32
	TargetMeta   SpellTargetMeta
}

// SpellTargetMeta selects which positions a monster spell can legally
// target (spec §4.5: "caster/victim/origin/destination/cone").
type SpellTargetMeta uint8

const (
	TargetCaster SpellTargetMeta = iota
	TargetVictim
	TargetOrigin
	TargetDestination
	TargetCone
)

// IsDead reports whether the monster's health has reached zero.
func (m *Instance) IsDead() bool { return m.Health <= 0 }

// IsFleeing reports whether the monster's HP has dropped to or below its
// flee threshold (spec §4.5 step 2: "flee triggered by HP <= flee-
// threshold").
func (m *Instance) IsFleeing() bool { return m.Health <= m.FleeThresholdHP }
