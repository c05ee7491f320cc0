package monster

import "github.com/opentibia/worldcore/internal/geom"

// Home is a monster spawn point (spec §4.7 "Monster homes & raids": "Each
// home stores (race, position, radius, amount, regen_seconds)").
type Home struct {
	Race         int32
	Pos          geom.Position
	Radius       int32
	Amount       int32
	RegenSeconds int32

	ActiveMonsters int32
	RespawnTimer   int32 // seconds remaining, 0 = not pending
}

// ScaledRegenSeconds applies spec §4.7's high-population dampening: "scaled
// down when the global player count is high (>200 or >800)".
func ScaledRegenSeconds(regenSeconds, playerCount int32) int32 {
	switch {
	case playerCount > 800:
		return regenSeconds / 4
	case playerCount > 200:
		return regenSeconds / 2
	default:
		return regenSeconds
	}
}

// NextSpawnRadius implements spec §4.7's radius expansion rule: "first
// spawn constrained to radius 1, subsequent spawns may expand radius but
// only while active==0 else expand in the away direction."
func NextSpawnRadius(h Home, isFirstSpawn bool) int32 {
	if isFirstSpawn {
		return 1
	}
	if h.ActiveMonsters == 0 {
		if h.Radius > 1 {
			return h.Radius
		}
		return 1
	}
	return h.Radius
}

// Tick decrements a positive respawn timer by one second (spec §4.7: "any
// home with a positive timer decrements it by one second").
func (h *Home) Tick() {
	if h.RespawnTimer > 0 {
		h.RespawnTimer--
	}
}

// ShouldAttemptSpawn reports whether this home is due to try a spawn this
// second: timer at zero and the home's floor is currently unwatched (spec
// §4.7: "when it hits zero and players cannot see the home's floor-level
// within sight range, it attempts a spawn").
func (h *Home) ShouldAttemptSpawn(floorWatched bool) bool {
	return h.RespawnTimer == 0 && h.ActiveMonsters < h.Amount && !floorWatched
}

// StartRespawnTimer begins a respawn countdown uniformly distributed in
// [regen/2, regen] (spec §4.7: "starts a respawn timer uniformly in
// [regen/2, regen]").
func StartRespawnTimer(regenSeconds int32, roll func(lo, hi int32) int32) int32 {
	return roll(regenSeconds/2, regenSeconds)
}

// RaidKind distinguishes a one-shot raid from a recurring one (SPEC_FULL
// §4.12 raid scripting supplement).
type RaidKind uint8

const (
	RaidOnce RaidKind = iota
	RaidInterval
)

// RaidSchedule is a scheduled or recurring raid definition (spec §4.7:
// "Raids are scheduled rules (race, delay, position, count, spread)
// executed at a future tick; interval-defined raids auto-reschedule").
type RaidSchedule struct {
	Name     string
	Kind     RaidKind
	Race     int32
	Pos      geom.Position
	Count    int32
	Spread   int32
	Interval int64 // ticks, only meaningful for RaidInterval
	NextAt   int64 // absolute tick
}

// RaidSeed derives the deterministic RNG seed for one raid firing (spec
// §4.7: "Raid seed is derived from raidName hashed with the absolute
// tick").
func RaidSeed(raidName string, absoluteTick int64) uint64 {
	var h uint64 = 1469598103934665603 // FNV-1a 64-bit offset basis
	for _, c := range raidName {
		h ^= uint64(c)
		h *= 1099511628211
	}
	h ^= uint64(absoluteTick)
	h *= 1099511628211
	return h
}
