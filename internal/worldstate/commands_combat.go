package worldstate

import (
	"fmt"

	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/combat"
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/monster"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/spellbook"
	"github.com/opentibia/worldcore/internal/tile"
)

// ApplyDamageToMonster is the direct damage-application command spec §8
// scenario 1 describes: "apply_damage_to_monster(M, Physical, 10, P1) ->
// returns Some(reward{exp, drops})". Unlike resolvePlayerAttack (the
// autonomous per-tick swing path, spec §4.4), this bypasses hit-roll and
// cooldowns entirely -- it is the scripting/admin-facing "deal this much
// damage now" entry point.
func (ws *WorldState) ApplyDamageToMonster(monsterID ids.CreatureId, dt combat.DamageType, amount int32, attacker ids.PlayerId) (*KillReward, error) {
	m, ok := ws.Monsters[monsterID]
	if !ok || m.IsDead() {
		return nil, fmt.Errorf("unknown monster")
	}
	reduced := combat.ApplyProtection(amount, dt, nil)
	m.Health = clampInt32(m.Health-reduced, 0, m.MaxHealth)
	if m.DamageBy == nil {
		m.DamageBy = make(map[ids.PlayerId]int64)
	}
	m.DamageBy[attacker] += int64(reduced)
	if !m.IsDead() {
		return nil, nil
	}
	return ws.killMonster(m, attacker), nil
}

// playerProtections reads every equipped slot's per-type protection
// attributes into combat's decoupled Protection view (spec §4.4 step 4
// "per-slot Protection/DamageReduction").
func (ws *WorldState) playerProtections(p *player.State) []combat.Protection {
	var out []combat.Protection
	p.Inventory.Each(func(slot item.Slot, stack *item.ItemStack) {
		if stack == nil {
			return
		}
		ot := ws.Catalog.Get(int32(stack.TypeID))
		mask := ot.AttrInt(catalog.AttrProtectionDamageMask, 0)
		if mask == 0 {
			return
		}
		out = append(out, combat.Protection{
			Mask:             combat.DamageType(mask),
			ReductionPercent: int32(ot.AttrInt(catalog.AttrDamageReduction, 0)),
		})
	})
	return out
}

// playerCaster adapts a player's live state into spellbook's decoupled
// Caster view (spec §4.3; same adapter-function pattern already grounded
// in combat_bridge.go's playerFighter/monsterFighter). The per-spell/group
// cast-tick maps are handed over by reference so CastSpell's own
// bookkeeping mutates the player's persistent cooldown state directly;
// commitCaster below re-attaches them in case CastSpell had to allocate
// fresh maps for a player cast before they held anything.
func (ws *WorldState) playerCaster(p *player.State) *spellbook.Caster {
	return &spellbook.Caster{
		Level:         p.Stats.Level,
		MagicLevel:    int32(p.Skills.Get(player.SkillMagic).Level),
		Mana:          p.Stats.Mana,
		Soul:          p.Stats.Soul,
		Pos:           p.Pos,
		Facing:        p.Direction,
		LastCastTick:  p.SpellCastAt,
		LastGroupCast: p.GroupCastAt,
	}
}

// commitCaster writes a Caster snapshot's cooldown bookkeeping back onto
// the player it was built from, so the per-spell and group cooldown gate
// (spec §4.3 step 5) is actually enforced across casts instead of being
// discarded with the snapshot.
func commitCaster(p *player.State, caster *spellbook.Caster) {
	p.SpellCastAt = caster.LastCastTick
	p.GroupCastAt = caster.LastGroupCast
}

// castContext builds the protection-zone and PvP gates spec §4.3 steps 3-4
// consult, reusing the same isProtectionZone helper tick.go already uses.
func (ws *WorldState) castContext() spellbook.CastContext {
	return spellbook.CastContext{
		CurrentTick: ws.Clock.Tick,
		ZoneAt:      ws.isProtectionZone,
		PvPAllowed:  func(caster, target geom.Position) bool { return true },
		LUT:         ws.CircleLUT,
	}
}

// CastSpellByPlayer runs cast_spell's full pipeline for a known spell
// (spec §4.3 steps 1-6) and applies its named effect to the resolved
// tiles. Effect kinds this command surface has no concrete handling for
// yet (Dispel, Challenge, Levitate, MagicRope, FindPerson) are reported
// back to the caster as a system message rather than silently dropped.
func (ws *WorldState) CastSpellByPlayer(casterID ids.PlayerId, spellID ids.SpellId, targetPos geom.Position) error {
	p, ok := ws.Players[casterID]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	spell, ok := ws.SpellBook[spellID]
	if !ok {
		return fmt.Errorf("unknown spell")
	}
	if !p.KnownSpells[spellID] {
		return fmt.Errorf("spell not known")
	}
	caster := ws.playerCaster(p)
	out, err := spellbook.CastSpell(spell, caster, targetPos, ws.castContext())
	commitCaster(p, caster)
	if err != nil {
		return err
	}
	p.Stats.Mana = caster.Mana
	p.Stats.Soul = caster.Soul
	ws.QueueDataUpdate(casterID, "mana", int64(p.Stats.Mana))
	if spell.IsOffensive() {
		p.MarkPvPFight(fightTimerTicks)
	}
	ws.applySpellEffect(p, spell, out.Tiles)
	return nil
}

// CastRune applies a rune item's bound spell, skipping the mana/soul gate
// (spec §4.3 step 5: "cast via rune item, which skips mana/soul costs but
// still enforces cooldowns and other requirements") and consuming the rune
// stack afterward.
func (ws *WorldState) CastRune(casterID ids.PlayerId, slot item.Slot, targetPos geom.Position) error {
	p, ok := ws.Players[casterID]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	stack := p.Inventory.Get(slot)
	if stack == nil {
		return fmt.Errorf("slot empty")
	}
	ot := ws.Catalog.Get(int32(stack.TypeID))
	spellID := ids.SpellId(ot.AttrInt(catalog.AttrRuneSpellID, 0))
	spell, ok := ws.SpellBook[spellID]
	if !ok || !spell.ViaRuneOnly {
		return fmt.Errorf("not a rune")
	}
	caster := ws.playerCaster(p)
	out, err := spellbook.CastSpell(spell, caster, targetPos, ws.castContext())
	commitCaster(p, caster)
	if err != nil {
		return err
	}
	if spell.IsOffensive() {
		p.MarkPvPFight(fightTimerTicks)
	}
	ws.applySpellEffect(p, spell, out.Tiles)
	if stack.Count > 1 {
		stack.Count--
	} else {
		p.Inventory.Set(slot, nil)
	}
	return nil
}

// applySpellEffect dispatches a cast's resolved tiles to the named effect
// function spec §4.3 step 6 groups by EffectKind (spec §9: spellbook
// itself never mutates player/monster state, only reports what should
// happen -- worldstate is the sole mutator).
func (ws *WorldState) applySpellEffect(caster *player.State, spell spellbook.Spell, tiles []geom.Position) {
	switch spell.Effect {
	case spellbook.EffectDamage:
		ws.applySpellDamage(caster, spell, tiles)
	case spellbook.EffectHeal:
		caster.Stats.Health = spellbook.HealEffect(spell, int32(caster.Stats.Health), int32(caster.Stats.MaxHealth))
		ws.QueueDataUpdate(caster.ID, "health", int64(caster.Stats.Health))
	case spellbook.EffectHaste:
		caster.Effects.Speed = spellbook.HasteEffect(spell)
	case spellbook.EffectLight:
		caster.Effects.Light = spellbook.LightEffectOf(spell)
	case spellbook.EffectManaShield:
		caster.Effects.ManaShield = spellbook.ManaShieldEffectOf()
	case spellbook.EffectOutfit:
		caster.Effects.Outfit = spellbook.OutfitEffectOf(spell)
		ws.QueueOutfitUpdate(caster.ID, OutfitUpdate{Creature: ids.CreatureId(caster.ID), OutfitID: spell.OutfitLooksLike})
	case spellbook.EffectConjure:
		ws.applySpellConjure(caster, spell)
	case spellbook.EffectEnchantStaff:
		ws.applyEnchantStaff(caster, spell)
	case spellbook.EffectSummon:
		ws.applySpellSummon(caster, spell)
	case spellbook.EffectConvince:
		ws.applySpellConvince(caster, spell, tiles)
	case spellbook.EffectRaiseDead:
		ws.applySpellRaiseDead(caster, spell, tiles)
	case spellbook.EffectField:
		ws.applySpellField(spell, tiles)
	default:
		ws.QueueMessage(caster.ID, "system", spell.Name+" has no effect here")
	}
}

// summonCountFor counts the monster instances currently owned by owner,
// the live count SummonEffect/ConvinceEffect/RaiseDeadEffect's cap checks
// need (spec boundary B4 "summon limit").
func (ws *WorldState) summonCountFor(owner ids.PlayerId) int32 {
	var n int32
	for _, m := range ws.Monsters {
		if m.Summoner != nil && *m.Summoner == owner {
			n++
		}
	}
	return n
}

// spawnSummon places one new owned monster instance near pos, the same
// radius-scatter pattern spawnFromHome/maybeFireRaid already use.
func (ws *WorldState) spawnSummon(owner ids.PlayerId, race int32, pos geom.Position) {
	dx := int16(ws.RNG.Monster.Range(-1, 1))
	dy := int16(ws.RNG.Monster.Range(-1, 1))
	spawnPos := pos.Add(geom.PositionDelta{DX: dx, DY: dy})
	if ws.tileBlocked(spawnPos) {
		spawnPos = pos
	}
	own := owner
	inst := &monster.Instance{
		ID:       ws.NextCreatureID(),
		Race:     race,
		Summoner: &own,
		Pos:      spawnPos,
		DamageBy: make(map[ids.PlayerId]int64),
	}
	ws.Monsters[inst.ID] = inst
}

// applySpellSummon creates up to the spell's configured count of new
// owned monsters at the caster's side, refusing once the caster's live
// summon count reaches SummonCap (spec §4.3 "Summon (cap check)").
func (ws *WorldState) applySpellSummon(caster *player.State, spell spellbook.Spell) {
	for i := int32(0); i < spell.SummonCount; i++ {
		allowed, result := spellbook.SummonEffect(spell, ws.summonCountFor(caster.ID))
		if !allowed {
			ws.QueueMessage(caster.ID, "system", "you cannot summon more creatures")
			return
		}
		ws.spawnSummon(caster.ID, result.Race, caster.Pos)
	}
}

// applySpellConvince takes ownership of the first un-owned living monster
// standing on a resolved tile, refusing once the caster's summon cap is
// reached (spec §4.3 "Convince (cap check)").
func (ws *WorldState) applySpellConvince(caster *player.State, spell spellbook.Spell, tiles []geom.Position) {
	if !spellbook.ConvinceEffect(spell, ws.summonCountFor(caster.ID)) {
		ws.QueueMessage(caster.ID, "system", "you cannot convince more creatures")
		return
	}
	for _, pos := range tiles {
		for _, m := range ws.Monsters {
			if m.Pos != pos || m.IsDead() || m.Summoner != nil {
				continue
			}
			own := caster.ID
			m.Summoner = &own
			return
		}
	}
}

// applySpellRaiseDead spawns one owned monster of the spell's configured
// race at a resolved tile (spec §4.3 groups RaiseDead with Summon under
// the same cap-check rule), refusing once the caster's summon cap is hit.
func (ws *WorldState) applySpellRaiseDead(caster *player.State, spell spellbook.Spell, tiles []geom.Position) {
	allowed, result := spellbook.RaiseDeadEffect(spell, ws.summonCountFor(caster.ID))
	if !allowed {
		ws.QueueMessage(caster.ID, "system", "you cannot raise more creatures")
		return
	}
	pos := caster.Pos
	if len(tiles) > 0 {
		pos = tiles[0]
	}
	ws.spawnSummon(caster.ID, result.Race, pos)
}

// applySpellField places the spell's configured field item at every
// resolved tile (spec §4.3 "Field: place a field item at each resolved
// tile").
func (ws *WorldState) applySpellField(spell spellbook.Spell, tiles []geom.Position) {
	typeID := spellbook.FieldEffect(spell)
	for _, pos := range tiles {
		stack := item.NewItemStack(ws.NextItemID(), typeID)
		ws.Map.GetOrCreate(pos).Push(stack, tile.Detail{Present: true})
	}
}

// applySpellDamage deals a damage-kind spell's effect to every player or
// monster standing on a resolved tile.
func (ws *WorldState) applySpellDamage(caster *player.State, spell spellbook.Spell, tiles []geom.Position) {
	for _, pos := range tiles {
		for _, m := range ws.Monsters {
			if m.Pos != pos || m.IsDead() {
				continue
			}
			_, newHealth, dealt := spellbook.DamageEffect(spell, int32(caster.Skills.Get(player.SkillMagic).Level), m.Level, m.Skills.Melee, nil, 0, m.Health, false)
			m.Health = newHealth
			if m.DamageBy == nil {
				m.DamageBy = make(map[ids.PlayerId]int64)
			}
			m.DamageBy[caster.ID] += int64(dealt)
			if m.IsDead() {
				ws.killMonster(m, caster.ID)
			}
		}
		for _, target := range ws.Players {
			if target.Pos != pos || target.ID == caster.ID || !target.Online {
				continue
			}
			newMana, newHealth, _ := spellbook.DamageEffect(spell, int32(caster.Skills.Get(player.SkillMagic).Level), target.Stats.Level, 0, ws.playerProtections(target), target.Stats.Mana, target.Stats.Health, target.Effects.ManaShield.Active)
			target.Stats.Mana = newMana
			target.Stats.Health = newHealth
			ws.QueueDataUpdate(target.ID, "health", int64(target.Stats.Health))
			target.MarkPvPFight(fightTimerTicks)
			caster.MarkPvPFight(fightTimerTicks)
			caster.WhiteSkullTimer = fightTimerTicks
			if target.Stats.IsDead() {
				ws.handlePlayerDeath(target.ID, target)
			}
		}
	}
}

// applySpellConjure creates N of the configured item type in the caster's
// backpack (spec §4.3 "Conjure: add N items of the configured type into
// the caster's inventory, routed through the same rules as a backpack
// drop").
func (ws *WorldState) applySpellConjure(caster *player.State, spell spellbook.Spell) {
	typeID, count := spellbook.ConjureEffect(spell)
	stack := item.NewItemStack(ws.NextItemID(), typeID)
	stack.Count = uint16(count)
	backpack := caster.Inventory.Get(item.SlotBackpack)
	if backpack == nil || !backpack.IsContainer(ws.Catalog) {
		ws.QueueMessage(caster.ID, "system", "no backpack to conjure into")
		return
	}
	backpack.Contents = append(backpack.Contents, stack)
}

// applyEnchantStaff replaces a configured source-type weapon with its
// enchanted counterpart, preserving count (spec §4.3 "Enchant staff").
func (ws *WorldState) applyEnchantStaff(caster *player.State, spell spellbook.Spell) {
	for _, slot := range []item.Slot{item.SlotRightHand, item.SlotLeftHand} {
		stack := caster.Inventory.Get(slot)
		if stack == nil {
			continue
		}
		if newType, ok := spellbook.EnchantStaffEffect(spell, stack.TypeID); ok {
			stack.TypeID = newType
			return
		}
	}
}
