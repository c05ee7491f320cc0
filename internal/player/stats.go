// Package player implements PlayerState: identity, position, stats, skill
// rows, cooldowns, inventory, and the session-scoped collections spec §3
// "PlayerState" names (depots, buddies, quest values, party membership,
// npc dialogue state, autowalk queue).
package player

// Stats holds the numeric resource pools spec §3 names for PlayerState:
// "stats (health/mana/soul/capacity/level/experience)".
type Stats struct {
	Health     int32
	MaxHealth  int32
	Mana       int32
	MaxMana    int32
	Soul       int32
	MaxSoul    int32
	Capacity   int32 // carry weight cap, in the same units as item weight*100
	Level      int32
	Experience int64
}

// IsDead reports whether the player's health has reached zero.
func (s Stats) IsDead() bool { return s.Health <= 0 }

// Profession distinguishes the coarse class buckets the spec's skill-timer
// and promotion rules reference ("Profession := N (10 promotes within a
// class)").
type Profession int32

const (
	ProfessionNone Profession = iota
	ProfessionKnight
	ProfessionPaladin
	ProfessionSorcerer
	ProfessionDruid
)

// Skill identifies a trainable combat skill (spec §4.4 "train defender's
// relevant skill (shielding/weapon)").
type Skill uint8

const (
	SkillFist Skill = iota
	SkillClub
	SkillSword
	SkillAxe
	SkillDistance
	SkillShielding
	SkillFishing
	SkillMagic
	skillCount
)

// SkillRow tracks one trainable skill's level and accumulated learning
// points toward the next level.
type SkillRow struct {
	Level          int32
	LearningPoints int32
}

// Skills is the fixed set of trainable skill rows.
type Skills struct {
	rows [skillCount]SkillRow
}

// Get returns the row for s.
func (sk *Skills) Get(s Skill) SkillRow { return sk.rows[s] }

// AddLearningPoints credits points toward s, used by combat's per-hit
// training (spec §4.4: "consuming one of 30 learning points granted to the
// attacker per successful strike").
func (sk *Skills) AddLearningPoints(s Skill, points int32) {
	sk.rows[s].LearningPoints += points
}

// Cooldowns tracks the per-action tick counters spec §3 names:
// "cooldowns (attack/defend/move/food/spell/group)".
type Cooldowns struct {
	Attack int32
	Defend int32
	Move   int32
	Food   int32
	Spell  int32
	Group  int32
}

// ready reports whether the cooldown has counted down to zero or below.
func (c Cooldowns) ready(v int32) bool { return v <= 0 }

func (c *Cooldowns) AttackReady() bool { return c.ready(c.Attack) }
func (c *Cooldowns) DefendReady() bool { return c.ready(c.Defend) }
func (c *Cooldowns) MoveReady() bool   { return c.ready(c.Move) }
func (c *Cooldowns) FoodReady() bool   { return c.Food > 0 }
func (c *Cooldowns) SpellReady() bool  { return c.ready(c.Spell) }
func (c *Cooldowns) GroupReady() bool  { return c.ready(c.Group) }

// Tick decrements every positive cooldown by one, called once per tick.
func (c *Cooldowns) Tick() {
	if c.Attack > 0 {
		c.Attack--
	}
	if c.Defend > 0 {
		c.Defend--
	}
	if c.Move > 0 {
		c.Move--
	}
	if c.Food > 0 {
		c.Food--
	}
	if c.Spell > 0 {
		c.Spell--
	}
	if c.Group > 0 {
		c.Group--
	}
}
