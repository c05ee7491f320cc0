package worldstate

import (
	"time"

	"github.com/opentibia/worldcore/internal/combat"
	"github.com/opentibia/worldcore/internal/corepipeline"
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/monster"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/statustimer"
	"github.com/opentibia/worldcore/internal/tile"
)

// fightTimerTicks is how long a player is marked "in combat" after
// landing an offensive hit (spec §8 property P6: "caster's PvP fight
// timer >= now + combat_rules.fight_timer"; spec leaves the exact
// duration to the implementer's combat_rules table, fixed here at 2
// minutes worth of ticks for the default 100ms cadence).
const fightTimerTicks = 1200

// groundSpeedTicks is the baseline tile-traversal cost monster.
// MoveCooldownTicks scales against (spec §4.5: "cooldown proportional to
// tile ground speed / monster speed").
const groundSpeedTicks = 100

// buildRunner registers the twelve (internally thirteen) tick_* steps in
// the fixed order spec §4.1 names, one corepipeline.Phase per step except
// step 5 ("tick_player_autowalk, tick_player_attack — per player"), which
// splits into two adjacent phases so autowalk resolution always precedes
// attack resolution for every player, matching the teacher's tick runner
// shape (internal/core system registration) generalized to a fixed order.
func (ws *WorldState) buildRunner() *corepipeline.Runner {
	r := corepipeline.NewRunner(ws.Log)
	r.Register(corepipeline.PhaseConditions, ws.tickConditionsStep)
	r.Register(corepipeline.PhaseStatusEffects, ws.tickStatusEffectsStep)
	r.Register(corepipeline.PhaseSkillTimers, ws.tickSkillTimersStep)
	r.Register(corepipeline.PhaseFoodRegen, ws.tickFoodRegenStep)
	r.Register(corepipeline.PhasePlayerAutowalk, ws.tickPlayerAutowalkStep)
	r.Register(corepipeline.PhasePlayerAttack, ws.tickPlayerAttackStep)
	r.Register(corepipeline.PhaseMonsters, ws.tickMonstersStep)
	r.Register(corepipeline.PhaseNPCs, ws.tickNPCsStep)
	r.Register(corepipeline.PhaseMonsterHomes, ws.tickMonsterHomesStep)
	r.Register(corepipeline.PhaseRaids, ws.tickRaidsStep)
	r.Register(corepipeline.PhaseMapRefresh, ws.tickMapRefreshStep)
	r.Register(corepipeline.PhaseCronSystem, ws.tickCronSystemStep)
	r.Register(corepipeline.PhaseHouses, ws.tickHousesStep)
	return r
}

// Advance runs one full tick of the pipeline above, the entry point the
// external driver calls once per GameTick (spec §5: "driving a monotonic
// GameTick clock... calling the ordered tick_* pipeline... once per game
// tick").
func (ws *WorldState) Advance(dt time.Duration) {
	ws.Clock.Tick++
	ws.runner.Tick(ws.Clock.Tick, dt)
}

// ticksPerSecond derives the 1-second boundary scale from the configured
// tick cadence (default 100ms -> 10 ticks/second).
func (ws *WorldState) ticksPerSecond() int64 {
	ms := ws.Config.Tick.Cadence.Milliseconds()
	if ms <= 0 {
		return 10
	}
	n := 1000 / ms
	if n < 1 {
		n = 1
	}
	return n
}

func (ws *WorldState) crossedOneSecond(now int64) bool {
	return now%ws.ticksPerSecond() == 0
}

func (ws *WorldState) tickConditionsStep(now int64, dt time.Duration) error {
	ws.tickConditions(now)
	return nil
}

// tickConditions fires per-player damage-over-time conditions (spec §4.1
// step 1). The concrete DoT rows live in statustimer (POISON/BURNING/
// ENERGY, applied in tickSkillTimers); this step handles the fight-timer
// decay every online player carries and reacts to death.
func (ws *WorldState) tickConditions(now int64) {
	for id, p := range ws.Players {
		if !p.Online {
			continue
		}
		p.TickFightTimers()
		p.Cooldowns.Tick()
		if p.Stats.IsDead() {
			ws.handlePlayerDeath(id, p)
		}
	}
}

// handlePlayerDeath applies the minimal respawn-in-place behavior: full
// heal and return to spawn. Loot/skill-loss on player death sits outside
// this module's named operations (spec's PvP rules only cover fight-timer
// and white-skull bookkeeping, §4.4).
func (ws *WorldState) handlePlayerDeath(id ids.PlayerId, p *player.State) {
	p.Stats.Health = p.Stats.MaxHealth
	p.Stats.Mana = p.Stats.MaxMana
	p.Pos = p.StartPos
	p.AttackTarget = 0
	ws.QueueMessage(id, "system", "You have died.")
	ws.QueueDataUpdate(id, "health", int64(p.Stats.Health))
}

func (ws *WorldState) tickStatusEffectsStep(now int64, dt time.Duration) error {
	for id, p := range ws.Players {
		if !p.Online {
			continue
		}
		if !p.Effects.Outfit.Active && p.CurrentOutfit != p.BaseOutfit {
			p.CurrentOutfit = p.BaseOutfit
			ws.QueueOutfitUpdate(id, OutfitUpdate{Creature: ids.CreatureId(id), OutfitID: p.CurrentOutfit.LookType})
		}
	}
	return nil
}

// tickSkillTimersStep advances every online player's nine skill-timer
// rows once per one-second boundary and applies each row's side effect
// (spec §4.1 step 3, §4.10).
func (ws *WorldState) tickSkillTimersStep(now int64, dt time.Duration) error {
	if !ws.crossedOneSecond(now) {
		return nil
	}
	for id, p := range ws.Players {
		if !p.Online {
			continue
		}
		for _, res := range p.SkillTimers.Advance() {
			p.Effects.ApplyRowResult(res)
			ws.applySkillTimerSideEffect(id, p, res)
		}
	}
	return nil
}

// applySkillTimerSideEffect dispatches one row's CycleHit into damage,
// healing, mana or soul changes (spec §4.10's per-row side-effect list).
func (ws *WorldState) applySkillTimerSideEffect(id ids.PlayerId, p *player.State, res statustimer.TickResult) {
	if !res.CycleHit {
		return
	}
	se := statustimer.ComputeSideEffect(res.Row, p.SkillTimers.Get(res.Row), p.Stats.Level)
	switch res.Row {
	case statustimer.RowFed:
		if se.HealHP > 0 {
			p.Stats.Health = clampInt32(p.Stats.Health+se.HealHP, 0, p.Stats.MaxHealth)
			ws.QueueDataUpdate(id, "health", int64(p.Stats.Health))
		}
		if se.HealMana > 0 {
			p.Stats.Mana = clampInt32(p.Stats.Mana+se.HealMana, 0, p.Stats.MaxMana)
			ws.QueueDataUpdate(id, "mana", int64(p.Stats.Mana))
		}
	case statustimer.RowSoul:
		if se.SoulGain > 0 && p.Stats.Soul < p.Stats.MaxSoul {
			p.Stats.Soul = clampInt32(p.Stats.Soul+se.SoulGain, 0, p.Stats.MaxSoul)
			ws.QueueDataUpdate(id, "soul", int64(p.Stats.Soul))
		}
	case statustimer.RowPoison, statustimer.RowBurning, statustimer.RowEnergy:
		if se.DamageAmount > 0 {
			p.Stats.Health = clampInt32(p.Stats.Health-se.DamageAmount, 0, p.Stats.MaxHealth)
			ws.QueueDataUpdate(id, "health", int64(p.Stats.Health))
			if p.Stats.IsDead() {
				ws.handlePlayerDeath(id, p)
			}
		}
	case statustimer.RowDrunken:
		p.Effects.Drunken.Active = se.DrunkenChance > 0 && ws.RNG.MoveUse.Chance(int(se.DrunkenChance))
	}
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tickFoodRegenStep is a no-op beyond gating: regen itself is the FED
// row's side effect (handled in tickSkillTimersStep); spec §4.1 step 4
// additionally requires "not in PZ", enforced by clearing the FED row's
// active flag while standing on one.
func (ws *WorldState) tickFoodRegenStep(now int64, dt time.Duration) error {
	for _, p := range ws.Players {
		if p.Online && !p.Stats.IsDead() && ws.isProtectionZone(p.Pos) {
			if p.SkillTimers.Get(statustimer.RowFed).Active() {
				p.SkillTimers.Clear(statustimer.RowFed)
			}
		}
	}
	return nil
}

func (ws *WorldState) tickPlayerAutowalkStep(now int64, dt time.Duration) error {
	for id, p := range ws.Players {
		if !p.Online || p.Stats.IsDead() {
			continue
		}
		if !p.Cooldowns.MoveReady() {
			continue
		}
		dir, ok := p.Autowalk.Pop()
		if !ok {
			continue
		}
		if err := ws.MovePlayer(id, dir); err != nil {
			p.Autowalk.Clear()
		}
	}
	return nil
}

func (ws *WorldState) tickPlayerAttackStep(now int64, dt time.Duration) error {
	for id, p := range ws.Players {
		if !p.Online || p.Stats.IsDead() {
			continue
		}
		if p.AttackTarget == 0 || !p.Cooldowns.AttackReady() {
			continue
		}
		ws.resolvePlayerAttack(id, p)
	}
	return nil
}

// resolvePlayerAttack resolves one melee swing against the player's
// current attack target (spec §4.4).
func (ws *WorldState) resolvePlayerAttack(id ids.PlayerId, p *player.State) {
	target, ok := ws.Monsters[p.AttackTarget]
	if !ok || target.IsDead() {
		p.AttackTarget = 0
		return
	}
	if geom.ChebyshevDistance(p.Pos, target.Pos) > 1 {
		return
	}
	weapon := combat.SelectAttack(ws.playerWeaponAt(p, item.SlotRightHand), ws.playerWeaponAt(p, item.SlotLeftHand), ws.playerAmmo(p))
	attacker := playerFighter(p, weapon)
	defender := monsterFighter(target)
	result := combat.ResolveMeleeSwing(attacker, defender, weapon, combat.DamagePhysical, true, ws.RNG.Monster)
	p.Cooldowns.Attack = combat.AttackCooldownTicks
	if result.Hit {
		target.Health = clampInt32(target.Health-result.Mitigated, 0, target.MaxHealth)
		p.Skills.AddLearningPoints(weaponSkill(weapon), combat.LearningPointsPerHit)
		if result.MarksWhiteSkull {
			p.MarkPvPFight(fightTimerTicks)
		}
		if target.IsDead() {
			ws.killMonster(target, id)
		}
	}
}

func (ws *WorldState) tickMonstersStep(now int64, dt time.Duration) error {
	for _, m := range ws.Monsters {
		ws.tickOneMonster(m)
	}
	return nil
}

// tickOneMonster drives one monster's target selection, movement and
// combat decisions for this tick (spec §4.5).
func (ws *WorldState) tickOneMonster(m *monster.Instance) {
	if m.IsDead() || m.Flags.Guard {
		return
	}
	m.Cooldowns.Tick()
	if target, ok := ws.Players[ids.PlayerId(m.CurrentTarget)]; !ok || !target.Online || target.Stats.IsDead() ||
		!monster.KeepTarget(true, target.Pos.SameFloor(m.Pos), ws.isProtectionZone(target.Pos),
			int32(geom.ChebyshevDistance(m.Pos, target.Pos)), m.LoseTargetDistance) {
		m.CurrentTarget = 0
	}
	if m.CurrentTarget == 0 {
		candidates := ws.targetCandidatesFor(m)
		best := monster.SelectTarget(candidates, m.StrategyWeights, ws.RNG.Monster)
		m.CurrentTarget = best.CreatureID
	}
	if m.CurrentTarget == 0 {
		return
	}
	target, ok := ws.Players[ids.PlayerId(m.CurrentTarget)]
	if !ok {
		m.CurrentTarget = 0
		return
	}
	dist := geom.ChebyshevDistance(m.Pos, target.Pos)
	decision := monster.PlanCombat(m.Spells, func(monster.SpellTargetMeta) bool { return true }, dist <= 1, ws.RNG.Monster)
	switch {
	case decision.CastSpell:
		ws.monsterCastSpell(m, decision, target)
	case decision.MeleeAttack:
		ws.monsterMeleeAttack(m, target)
	default:
		ws.monsterStep(m, target.Pos)
	}
}

func (ws *WorldState) targetCandidatesFor(m *monster.Instance) []monster.TargetCandidate {
	var out []monster.TargetCandidate
	for _, p := range ws.Players {
		if !p.Online || p.Stats.IsDead() || !p.Pos.SameFloor(m.Pos) {
			continue
		}
		dist := geom.ChebyshevDistance(m.Pos, p.Pos)
		if int32(dist) > m.LoseTargetDistance {
			continue
		}
		out = append(out, monster.TargetCandidate{
			CreatureID: ids.CreatureId(p.ID),
			Pos:        p.Pos,
			Distance:   int32(dist),
			ManaLeft:   p.Stats.Mana,
			DamageDone: m.DamageBy[p.ID],
		})
	}
	return out
}

func (ws *WorldState) monsterStep(m *monster.Instance, targetPos geom.Position) {
	if m.Cooldowns.Move > 0 {
		return
	}
	decision := monster.PlanMovement(m.Pos, targetPos, m.IsFleeing(), func(d geom.Direction) bool {
		return ws.tileBlocked(m.Pos.Step(d))
	})
	if decision.Move {
		m.Pos = m.Pos.Step(decision.Direction)
		m.Cooldowns.Move = monster.MoveCooldownTicks(groundSpeedTicks, m.Speed)
	}
}

func (ws *WorldState) monsterMeleeAttack(m *monster.Instance, target *player.State) {
	if m.Cooldowns.Combat > 0 {
		return
	}
	attacker := monsterFighter(m)
	defender := playerFighter(target, combat.Weapon{})
	weapon := combat.Weapon{Kind: combat.WeaponMelee, AttackValue: m.Attack}
	result := combat.ResolveMeleeSwing(attacker, defender, weapon, combat.DamagePhysical, target.Cooldowns.DefendReady(), ws.RNG.Monster)
	m.Cooldowns.Combat = combat.AttackCooldownTicks
	if result.Hit {
		target.Stats.Health = clampInt32(target.Stats.Health-result.Mitigated, 0, target.Stats.MaxHealth)
		m.DamageBy[target.ID] += int64(result.Mitigated)
		ws.QueueDataUpdate(target.ID, "health", int64(target.Stats.Health))
		if target.Stats.IsDead() {
			ws.handlePlayerDeath(target.ID, target)
		}
	}
}

// monsterCastSpell dispatches a monster's scripted spell at its target.
// Full spellbook integration (effect shape resolution via geom.CircleLUT,
// mana/soul cost checks) applies only to player-cast spells in this
// module (spec §4.5 names monster spellcasting only at the decision
// level, §9's CastContext is built from a player.Caster); monsters instead
// deal combat.ComputeDamage of their PoisonDamage+Attack to the target. The
// decision's spell is not consulted.
func (ws *WorldState) monsterCastSpell(m *monster.Instance, decision monster.CombatDecision, target *player.State) {
	if m.Cooldowns.Combat > 0 {
		return
	}
	m.Cooldowns.Combat = combat.AttackCooldownTicks
	dmg := combat.ComputeDamage(m.PoisonDamage+m.Attack, 4, 0, m.Level, 0, combat.ScaleNone, 0)
	target.Stats.Health = clampInt32(target.Stats.Health-dmg, 0, target.Stats.MaxHealth)
	ws.QueueDataUpdate(target.ID, "health", int64(target.Stats.Health))
	ws.QueueMessage(target.ID, "combat", "A spell hits you.")
	if target.Stats.IsDead() {
		ws.handlePlayerDeath(target.ID, target)
	}
}

// KillReward summarizes what a monster kill paid out, matching spec §8
// scenario 1's "returns Some(reward{exp, drops})".
type KillReward struct {
	Experience int64
	Drops      []DropInfo
}

// killMonster awards loot/experience and drops a corpse (spec §8 scenario
// 1 "Melee kill a rat").
func (ws *WorldState) killMonster(m *monster.Instance, killer ids.PlayerId) *KillReward {
	reward := &KillReward{Experience: m.ExperienceReward}
	if p, ok := ws.Players[killer]; ok {
		p.Stats.Experience += m.ExperienceReward
		ws.QueueDataUpdate(killer, "experience", p.Stats.Experience)
	}
	reward.Drops = ws.dropCorpseAndLoot(m)
	delete(ws.Monsters, m.ID)
	return reward
}

func (ws *WorldState) tickNPCsStep(now int64, dt time.Duration) error {
	for _, n := range ws.NPCs {
		n.ExpireFocus(now)
	}
	return nil
}

func (ws *WorldState) tickMonsterHomesStep(now int64, dt time.Duration) error {
	if !ws.crossedOneSecond(now) {
		return nil
	}
	for _, h := range ws.Homes {
		h.Tick()
		if h.ShouldAttemptSpawn(ws.anyPlayerWatching(h.Pos)) {
			ws.spawnFromHome(h)
		}
	}
	return nil
}

func (ws *WorldState) tickRaidsStep(now int64, dt time.Duration) error {
	for i := range ws.Raids {
		ws.maybeFireRaid(&ws.Raids[i], now)
	}
	return nil
}

// mapRefreshIntervalTicks is spec §4.11's fixed 60-second sweep period.
func (ws *WorldState) mapRefreshIntervalTicks() int64 { return 60 * ws.ticksPerSecond() }

func (ws *WorldState) tickMapRefreshStep(now int64, dt time.Duration) error {
	if now%ws.mapRefreshIntervalTicks() != 0 {
		return nil
	}
	ws.sweepMapRefresh()
	return nil
}

func (ws *WorldState) tickCronSystemStep(now int64, dt time.Duration) error {
	if !ws.crossedOneSecond(now) {
		return nil
	}
	for _, itemID := range ws.Cron.Advance(1) {
		ws.expireItem(itemID)
	}
	return nil
}

// houseRentCheckIntervalTicks is spec §4.1 step 12's "rent eviction sweep
// every 60s".
func (ws *WorldState) houseRentCheckIntervalTicks() int64 { return 60 * ws.ticksPerSecond() }

func (ws *WorldState) tickHousesStep(now int64, dt time.Duration) error {
	if now%ws.houseRentCheckIntervalTicks() != 0 {
		return nil
	}
	for _, h := range ws.Houses {
		ws.evictIfRentUnpaid(h, now)
	}
	return nil
}

func (ws *WorldState) isProtectionZone(pos geom.Position) bool {
	t, ok := ws.Map.Get(pos)
	if !ok {
		return false
	}
	return t.HasFlag(tile.FlagProtectionZone)
}

// tileBlocked reports whether a position cannot be stepped onto: missing
// from the map, or already occupied by another monster.
func (ws *WorldState) tileBlocked(pos geom.Position) bool {
	if _, ok := ws.Map.Get(pos); !ok {
		return true
	}
	for _, other := range ws.Monsters {
		if other.Pos == pos {
			return true
		}
	}
	return false
}

func (ws *WorldState) anyPlayerWatching(pos geom.Position) bool {
	for _, p := range ws.Players {
		if p.Online && p.Pos.SameFloor(pos) && geom.ChebyshevDistance(p.Pos, pos) <= 8 {
			return true
		}
	}
	return false
}
