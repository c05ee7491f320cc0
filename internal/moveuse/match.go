package moveuse

import (
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/rng"
)

// EvalContext is the narrow set of world queries rule conditions consult.
// Worldstate supplies a concrete implementation; moveuse never imports
// tile/player/housing itself, the same decoupled-collaborator pattern
// spellbook.CastContext and monster's AI use to stay free of worldstate
// cycles.
type EvalContext struct {
	Stream *rng.Stream

	ObjType          func(ref ObjRef) ids.ItemTypeId
	HasFlag          func(ref ObjRef, flag string) bool
	InstanceAttr     func(ref ObjRef, key string) (int64, bool)
	IsPosition       func(x, y int) bool
	IsObjectThere    func(x, y int, typeID ids.ItemTypeId) bool
	IsPlayerThere    func(x, y int) bool
	IsProtectionZone func() bool
	IsHouse          func() bool
	IsHouseOwner     func() bool
	IsPlayer         func() bool
	IsCreature       func() bool
	IsDressed        func() bool
	IsPeaceful       func() bool
	MayLogout        func() bool
	InventoryCount   func(ref ObjRef, typeID ids.ItemTypeId) int
	CountObjects     func(typeID ids.ItemTypeId) int
	CountObjectsMap  func(typeID ids.ItemTypeId) int
	QuestValue       func(ref ObjRef, key string) int64
	Level            func() int32
	Profession       func() string
	Skill            func(ref ObjRef, skill string) int64
	Right            func(ref ObjRef, right string) bool
}

// Match holds the successful rule and reports whether the evaluation
// consumed RNG state.
type Match struct {
	Rule       Rule
	RNGUsed    bool
}

// FindRule walks the section tree depth-first, first-match-wins, for the
// given event, testing each rule's conditions in turn (spec §4.2: "rule
// search is depth-first, first-match-wins, inherited through nested
// sections").
func FindRule(root *Section, event Event, ctx EvalContext) (*Match, bool) {
	return findIn(root, event, ctx)
}

func findIn(sec *Section, event Event, ctx EvalContext) (*Match, bool) {
	for _, rule := range sec.Rules {
		if rule.Event != event {
			continue
		}
		if m, ok := tryRule(rule, ctx); ok {
			return m, true
		}
	}
	for _, child := range sec.Children {
		if m, ok := findIn(child, event, ctx); ok {
			return m, true
		}
	}
	return nil, false
}

func tryRule(rule Rule, ctx EvalContext) (*Match, bool) {
	usedRNG := false
	var snap rng.Stream
	if ctx.Stream != nil {
		snap = ctx.Stream.Snapshot()
	}
	for _, cond := range rule.Conditions {
		ok, consumed := evalCondition(cond, ctx)
		usedRNG = usedRNG || consumed
		if cond.Negate {
			ok = !ok
		}
		if !ok {
			if ctx.Stream != nil {
				ctx.Stream.Restore(snap)
			}
			return nil, false
		}
	}
	return &Match{Rule: rule, RNGUsed: usedRNG}, true
}

func evalCondition(c Condition, ctx EvalContext) (result bool, usedRNG bool) {
	switch c.Kind {
	case CondIsType:
		return callObjType(ctx, c.Ref) == c.TypeID, false
	case CondIsPosition:
		return call(ctx.IsPosition, c.X, c.Y), false
	case CondIsObjectThere:
		return callObjThere(ctx, c.X, c.Y, c.TypeID), false
	case CondIsProtectionZone:
		return call0(ctx.IsProtectionZone), false
	case CondIsHouse:
		return call0(ctx.IsHouse), false
	case CondIsHouseOwner:
		return call0(ctx.IsHouseOwner), false
	case CondIsPlayer:
		return call0(ctx.IsPlayer), false
	case CondIsCreature:
		return call0(ctx.IsCreature), false
	case CondIsPlayerThere:
		return callPlayerThere(ctx, c.X, c.Y), false
	case CondIsObjectInInventory:
		if ctx.InventoryCount == nil {
			return false, false
		}
		return ctx.InventoryCount(c.Ref, c.TypeID) >= c.Count, false
	case CondCountObjects:
		if ctx.CountObjects == nil {
			return false, false
		}
		return ctx.CountObjects(c.TypeID) >= c.Count, false
	case CondCountObjectsOnMap:
		if ctx.CountObjectsMap == nil {
			return false, false
		}
		return ctx.CountObjectsMap(c.TypeID) >= c.Count, false
	case CondHasInstanceAttribute:
		if ctx.InstanceAttr == nil {
			return false, false
		}
		v, ok := ctx.InstanceAttr(c.Ref, c.Key)
		if !ok {
			return false, false
		}
		return c.Op.Eval(v, c.Value), false
	case CondHasFlag:
		if ctx.HasFlag == nil {
			return false, false
		}
		return ctx.HasFlag(c.Ref, c.Flag), false
	case CondIsDressed:
		return call0(ctx.IsDressed), false
	case CondIsPeaceful:
		return call0(ctx.IsPeaceful), false
	case CondHasQuestValue:
		if ctx.QuestValue == nil {
			return false, false
		}
		return c.Op.Eval(ctx.QuestValue(c.Ref, c.Key), c.Value), false
	case CondHasLevel:
		if ctx.Level == nil {
			return false, false
		}
		return ctx.Level() >= c.Level, false
	case CondHasProfession:
		if ctx.Profession == nil {
			return false, false
		}
		return ctx.Profession() == c.Profession, false
	case CondTestSkill:
		if ctx.Skill == nil || ctx.Stream == nil {
			return false, false
		}
		skillOK := ctx.Skill(c.Ref, c.Skill) >= c.Value
		rolled := ctx.Stream.Chance(c.Chance)
		return skillOK && rolled, true
	case CondHasRight:
		if ctx.Right == nil {
			return false, false
		}
		return ctx.Right(c.Ref, c.Right), false
	case CondMayLogout:
		return call0(ctx.MayLogout), false
	case CondRandom:
		if ctx.Stream == nil {
			return false, false
		}
		return ctx.Stream.Chance(c.Chance), true
	default:
		return false, false
	}
}

func call0(fn func() bool) bool {
	if fn == nil {
		return false
	}
	return fn()
}

func call(fn func(int, int) bool, a, b int) bool {
	if fn == nil {
		return false
	}
	return fn(a, b)
}

func callObjType(ctx EvalContext, ref ObjRef) ids.ItemTypeId {
	if ctx.ObjType == nil {
		return 0
	}
	return ctx.ObjType(ref)
}

func callObjThere(ctx EvalContext, x, y int, typeID ids.ItemTypeId) bool {
	if ctx.IsObjectThere == nil {
		return false
	}
	return ctx.IsObjectThere(x, y, typeID)
}

func callPlayerThere(ctx EvalContext, x, y int) bool {
	if ctx.IsPlayerThere == nil {
		return false
	}
	return ctx.IsPlayerThere(x, y)
}
