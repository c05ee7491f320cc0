package combat

// AttackMode selects the attacker's stance, scaling both their own attack
// and defense rolls (spec §4.4: "Attack-mode scaling").
type AttackMode uint8

const (
	ModeNeutral   AttackMode = 2
	ModeOffensive AttackMode = 1
	ModeDefensive AttackMode = 3
)

// AttackScale and DefenseScale return the mode's attack/defense
// multipliers (spec §4.4: "mode 1 (offensive) multiplies attack by 1.2 and
// defense by 0.6; mode 3 (defensive) multiplies attack by 0.6 and defense
// by 1.8; mode 2 neutral.").
func (m AttackMode) AttackScale() float64 {
	switch m {
	case ModeOffensive:
		return 1.2
	case ModeDefensive:
		return 0.6
	default:
		return 1.0
	}
}

func (m AttackMode) DefenseScale() float64 {
	switch m {
	case ModeOffensive:
		return 0.6
	case ModeDefensive:
		return 1.8
	default:
		return 1.0
	}
}

// WeaponKind distinguishes how a weapon's attack value converts to a skill
// and range (spec §4.4 "Attacker selection").
type WeaponKind uint8

const (
	WeaponNone WeaponKind = iota
	WeaponMelee
	WeaponThrow
	WeaponWand
	WeaponAmmo
	WeaponFist
)

// Weapon describes one candidate attack source on a Fighter.
type Weapon struct {
	Kind        WeaponKind
	AttackValue int32
	Skill       int32 // combat.Skill value as int32 to avoid importing player
	Range       int32
}

// SelectAttack picks the attacker's active weapon per spec §4.4's
// preference order: right-hand weapon, else right-hand throwable, else
// right-hand wand, else left-hand equivalents, else ammo, else fist.
func SelectAttack(rightHand, leftHand, ammo *Weapon) Weapon {
	for _, w := range []*Weapon{rightHand, leftHand} {
		if w == nil {
			continue
		}
		if w.Kind == WeaponMelee || w.Kind == WeaponThrow || w.Kind == WeaponWand {
			return *w
		}
	}
	if ammo != nil && ammo.Kind == WeaponAmmo {
		return *ammo
	}
	return Weapon{Kind: WeaponFist, AttackValue: 1, Range: 1}
}

// Fighter is the minimal view of a combatant combat needs, decoupled from
// player.State/monster.MonsterInstance to avoid an import cycle — callers
// adapt their concrete type into this shape before invoking combat.
type Fighter struct {
	Health    int32
	MaxHealth int32
	Mana      int32

	Armor        int32
	ShieldDefend int32
	WeaponDefend int32
	ThrowDefend  int32
	FistDefend   int32

	Level      int32
	SkillLevel int32

	Mode AttackMode

	ManaShieldActive bool
	Protections      []Protection

	IsPlayer bool
}

// SelectDefend picks the defender's defend roll source per spec §4.4 step
// 3: "preferring shield -> weapon-defend -> throw-defend -> fist".
func (f Fighter) SelectDefend() int32 {
	switch {
	case f.ShieldDefend > 0:
		return f.ShieldDefend
	case f.WeaponDefend > 0:
		return f.WeaponDefend
	case f.ThrowDefend > 0:
		return f.ThrowDefend
	default:
		return f.FistDefend
	}
}
