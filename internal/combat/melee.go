package combat

import "github.com/opentibia/worldcore/internal/rng"

// Tick counts spec §4.4 step 7 names directly: "Reset attacker
// attack_cooldown (20 ticks), defender defend_cooldown (2 s worth of
// ticks)". At the spec's 100ms/tick cadence (§5), 2 seconds is 20 ticks.
const (
	AttackCooldownTicks = 20
	DefendCooldownTicks = 20

	// LearningPointsPerHit is spec §4.4's "consuming one of 30 learning
	// points granted to the attacker per successful strike".
	LearningPointsPerHit = 30
)

// SwingResult reports the outcome of one melee swing for the caller
// (worldstate) to apply to concrete player/monster state — this package
// never mutates a Fighter in place since Fighter is a read-only adapted
// view, not the real backing struct.
type SwingResult struct {
	Hit              bool
	Attempted        int32
	Mitigated        int32
	AttackerInCombat bool
	MarksWhiteSkull  bool
	LearningPoints   int32 // credited to defender's relevant skill
}

// ResolveMeleeSwing implements spec §4.4's "Per swing" algorithm steps 2-6.
// Cooldown-readiness (step 1) and cooldown resets (step 7) are the
// caller's responsibility since they live on concrete player/monster
// cooldown fields this package doesn't own.
func ResolveMeleeSwing(attacker, defender Fighter, weapon Weapon, dt DamageType, defenderCooldownReady bool, stream *rng.Stream) SwingResult {
	scaledAttack := int32(float64(weapon.AttackValue) * attacker.Mode.AttackScale())
	if scaledAttack < 1 {
		scaledAttack = 1
	}
	base := int32(stream.Range(1, int(scaledAttack)))
	attempted := ComputeDamage(base, 0, 0, attacker.Level, attacker.SkillLevel, ScaleNone, 0)

	mitigated := attempted
	if defenderCooldownReady {
		defendRoll := int32(float64(defender.SelectDefend()) * defender.Mode.DefenseScale())
		armorRoll := int32(0)
		if defender.Armor > 0 {
			armorRoll = int32(stream.Range(0, int(defender.Armor)))
		}
		mitigated = attempted - defendRoll - armorRoll
		if mitigated < 0 {
			mitigated = 0
		}
	}

	mitigated = ApplyProtection(mitigated, dt, defender.Protections)

	res := SwingResult{Attempted: attempted, Mitigated: mitigated}
	if attempted > 0 {
		res.Hit = true
		res.AttackerInCombat = true
		res.LearningPoints = LearningPointsPerHit
		if defender.IsPlayer {
			res.MarksWhiteSkull = true
		}
	}
	return res
}
