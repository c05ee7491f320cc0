// Package ids defines the opaque integer-wrapped identifier types shared
// across the world simulation (spec §3 "Identifiers").
package ids

// PlayerId identifies a player character.
type PlayerId int64

// CreatureId identifies any living thing in the world: a player, a monster,
// an NPC, a summon. Distinct namespaces never overlap (spec's MonsterInstance
// and NpcInstance are addressed by CreatureId the same way players are, so
// AOI/target-selection code can treat all three uniformly).
type CreatureId int64

// ItemId uniquely identifies one item instance, world-wide, for its entire
// lifetime (spec §3: "globally unique and monotonically allocated for every
// item instance created, including children").
type ItemId int64

// ItemTypeId identifies a row in the static object/item type catalog.
type ItemTypeId int32

// SpellId identifies one spell definition in the spell book.
type SpellId int32

// SpellGroupId identifies a spell cooldown group (spec §4.3: "group
// cooldown").
type SpellGroupId int32
