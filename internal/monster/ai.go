package monster

import (
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/rng"
)

// TargetCandidate is one potential target gathered by worldstate (which
// owns visibility/PZ/floor checks) for this package's pure selection logic
// to score (spec §4.5 step 1).
type TargetCandidate struct {
	CreatureID ids.CreatureId
	Pos        geom.Position
	Distance   int32
	ManaLeft   int32
	DamageDone int64 // damage this candidate has already dealt to the monster
}

// SelectTarget implements spec §4.5 step 1's scoring: nearest / least-mana
// / most-damage weighted selection with RNG tie-break. The Random weight
// does not enter the score; the stream only breaks exact score ties.
// Returns the zero value (CreatureID 0) if candidates is empty.
func SelectTarget(candidates []TargetCandidate, weights StrategyWeights, stream *rng.Stream) TargetCandidate {
	if len(candidates) == 0 {
		return TargetCandidate{}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	best := candidates[0]
	bestScore := scoreCandidate(best, candidates, weights)
	for _, c := range candidates[1:] {
		score := scoreCandidate(c, candidates, weights)
		switch {
		case score > bestScore:
			best, bestScore = c, score
		case score == bestScore && stream.Chance(50):
			best = c
		}
	}
	return best
}

func scoreCandidate(c TargetCandidate, all []TargetCandidate, w StrategyWeights) int64 {
	maxDist, maxMana, maxDamage := int32(1), int32(1), int64(1)
	for _, o := range all {
		if o.Distance > maxDist {
			maxDist = o.Distance
		}
		if o.ManaLeft > maxMana {
			maxMana = o.ManaLeft
		}
		if o.DamageDone > maxDamage {
			maxDamage = o.DamageDone
		}
	}
	nearestScore := int64(w.Nearest) * int64(maxDist-c.Distance)
	manaScore := int64(w.LeastMana) * int64(maxMana-c.ManaLeft)
	damageScore := int64(w.MostDamage) * c.DamageDone
	return nearestScore + manaScore + damageScore
}

// KeepTarget reports whether the current target remains valid per spec
// §4.5 step 1: "if current target is visible, on same floor, not in PZ,
// and within acquire range — keep". The individual boolean checks are the
// caller's responsibility (visibility/PZ live in worldstate); this just
// names the conjunction.
func KeepTarget(visible, sameFloor, inProtectionZone bool, distance, acquireRange int32) bool {
	return visible && sameFloor && !inProtectionZone && distance <= acquireRange
}

// MoveDecision is the outcome of spec §4.5 step 2's movement planning.
type MoveDecision struct {
	Move      bool
	Direction geom.Direction
}

// candidateDirections returns the up-to-4 directions to try per spec
// §4.5 step 2: "Diagonals decompose into two cardinals as fallback. Try
// up to 4 directions."
func candidateDirections(d geom.Direction) []geom.Direction {
	if d.IsDiagonal() {
		a, b := d.DecomposeDiagonal()
		return []geom.Direction{d, a, b, d.Opposite()}
	}
	return []geom.Direction{d}
}

// PlanMovement implements spec §4.5 step 2: move toward the target, or
// away if fleeing; diagonal decomposition fallback; blocked reports
// whether a direction's destination is impassable.
func PlanMovement(from, target geom.Position, fleeing bool, blocked func(geom.Direction) bool) MoveDecision {
	dir := geom.DirectionTo(from, target)
	if fleeing {
		dir = geom.DirectionAway(from, target)
	}
	for _, d := range candidateDirections(dir) {
		if !blocked(d) {
			return MoveDecision{Move: true, Direction: d}
		}
	}
	return MoveDecision{}
}

// MoveCooldownTicks computes the reset cooldown proportional to ground
// speed vs monster speed (spec §4.5: "Reset cooldown proportional to tile
// ground speed / monster speed").
func MoveCooldownTicks(groundSpeedTicks, monsterSpeed int32) int32 {
	if monsterSpeed <= 0 {
		return groundSpeedTicks
	}
	ticks := groundSpeedTicks * 100 / monsterSpeed
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

// CombatDecision is the outcome of spec §4.5 step 3's spell/melee choice.
type CombatDecision struct {
	CastSpell   bool
	SpellIndex  int
	MeleeAttack bool
}

// PlanCombat iterates spells in order (spec §4.5 step 3), picking the
// first whose target-meta is satisfied (via targetOK) and whose chance
// roll succeeds; falls back to melee if the target is within meleeRange.
func PlanCombat(spells []SpellUse, targetOK func(SpellTargetMeta) bool, inMeleeRange bool, stream *rng.Stream) CombatDecision {
	for i, sp := range spells {
		if !targetOK(sp.TargetMeta) {
			continue
		}
		if stream.Chance(int(sp.ChancePercent)) {
			return CombatDecision{CastSpell: true, SpellIndex: i}
		}
	}
	if inMeleeRange {
		return CombatDecision{MeleeAttack: true}
	}
	return CombatDecision{}
}

// PickTalkLine implements spec §4.5 step 4: pick a line and a cooldown
// reset uniformly in [100, 300] ticks.
func PickTalkLine(lines []TalkLine, stream *rng.Stream) (TalkLine, int32, bool) {
	if len(lines) == 0 {
		return TalkLine{}, 0, false
	}
	idx := stream.Intn(len(lines))
	cooldown := int32(stream.Range(100, 300))
	return lines[idx], cooldown, true
}
