package moveuse

import "github.com/opentibia/worldcore/internal/ids"

// ApplyContext is the set of world mutations a rule's actions may invoke.
// Each field mirrors one ActionKind; worldstate supplies the concrete item/
// tile/player mutation behind it, keeping the special Change/Retrieve/
// SendMail semantics (spec §4.2 "Key semantics") owned by the caller that
// actually holds item/tile/housing state.
type ApplyContext struct {
	Change        func(ref ObjRef, newType ids.ItemTypeId, value int64) error
	ChangeRel     func(ref ObjRef, newType ids.ItemTypeId) error
	ChangeOnMap   func(typeID ids.ItemTypeId) error
	ChangeAttr    func(ref ObjRef, key string, value int64) error
	Create        func(typeID ids.ItemTypeId, count int) error
	CreateOnMap   func(typeID ids.ItemTypeId, count int) error
	Delete        func(ref ObjRef) error
	DeleteInInv   func(typeID ids.ItemTypeId, count int) error
	DeleteOnMap   func() error
	DeleteTopMap  func() error
	Effect        func(id int64) error
	EffectOnMap   func(id int64) error
	Text          func(text string) error
	Description   func(text string) error
	WriteName     func() error
	Monster       func(race int32) error
	MonsterOnMap  func(race int32) error
	Move          func(dx, dy int, dz int8) error
	MoveRel       func(dx, dy int, dz int8) error
	MoveTop       func(dx, dy int, dz int8) error
	MoveTopOnMap  func(dx, dy int, dz int8) error
	MoveTopRel    func(dx, dy int, dz int8) error
	LoadDepot     func() error
	SaveDepot     func() error
	SetStart      func() error
	SetAttribute  func(ref ObjRef, key string, value int64) error
	SetQuestValue func(ref ObjRef, questID int32, value int64) error
	Retrieve      func(fromDX, fromDY, toDX, toDY int) error
	SendMail      func() error
	Damage        func(amount int64) error
	Logout        func() error
}

// AppliedAction records one action's disposition after ApplyActions runs,
// including `!`-prefixed actions that were recorded but skipped (spec
// §4.2: "Actions prefixed `!` are ignored but recorded").
type AppliedAction struct {
	Action  Action
	Skipped bool
	Err     error
}

// ApplyActions runs a rule's actions in order against ctx, stopping at the
// first error (spec §4.2: "failures surface to the caller, and the caller
// is responsible for rolling back or accepting partial effect").
func ApplyActions(actions []Action, ctx ApplyContext) []AppliedAction {
	results := make([]AppliedAction, 0, len(actions))
	for _, action := range actions {
		if action.Ignored {
			results = append(results, AppliedAction{Action: action, Skipped: true})
			continue
		}
		err := applyOne(action, ctx)
		results = append(results, AppliedAction{Action: action, Err: err})
		if err != nil {
			return results
		}
	}
	return results
}

func applyOne(a Action, ctx ApplyContext) error {
	switch a.Kind {
	case ActChange:
		return invoke3(ctx.Change, a.Ref, a.TypeID, a.Value)
	case ActChangeRel:
		return invoke2(ctx.ChangeRel, a.Ref, a.TypeID)
	case ActChangeOnMap:
		if ctx.ChangeOnMap == nil {
			return nil
		}
		return ctx.ChangeOnMap(a.TypeID)
	case ActChangeAttribute:
		return invokeAttr(ctx.ChangeAttr, a.Ref, a.Key, a.Value)
	case ActCreate:
		if ctx.Create == nil {
			return nil
		}
		return ctx.Create(a.TypeID, a.Count)
	case ActCreateOnMap:
		if ctx.CreateOnMap == nil {
			return nil
		}
		return ctx.CreateOnMap(a.TypeID, a.Count)
	case ActDelete:
		if ctx.Delete == nil {
			return nil
		}
		return ctx.Delete(a.Ref)
	case ActDeleteInInventory:
		if ctx.DeleteInInv == nil {
			return nil
		}
		return ctx.DeleteInInv(a.TypeID, a.Count)
	case ActDeleteOnMap:
		if ctx.DeleteOnMap == nil {
			return nil
		}
		return ctx.DeleteOnMap()
	case ActDeleteTopOnMap:
		if ctx.DeleteTopMap == nil {
			return nil
		}
		return ctx.DeleteTopMap()
	case ActEffect:
		if ctx.Effect == nil {
			return nil
		}
		return ctx.Effect(a.Value)
	case ActEffectOnMap:
		if ctx.EffectOnMap == nil {
			return nil
		}
		return ctx.EffectOnMap(a.Value)
	case ActText:
		if ctx.Text == nil {
			return nil
		}
		return ctx.Text(a.Text)
	case ActDescription:
		if ctx.Description == nil {
			return nil
		}
		return ctx.Description(a.Text)
	case ActWriteName:
		if ctx.WriteName == nil {
			return nil
		}
		return ctx.WriteName()
	case ActMonster:
		if ctx.Monster == nil {
			return nil
		}
		return ctx.Monster(a.Race)
	case ActMonsterOnMap:
		if ctx.MonsterOnMap == nil {
			return nil
		}
		return ctx.MonsterOnMap(a.Race)
	case ActMove:
		return invokeMove(ctx.Move, a)
	case ActMoveRel:
		return invokeMove(ctx.MoveRel, a)
	case ActMoveTop:
		return invokeMove(ctx.MoveTop, a)
	case ActMoveTopOnMap:
		return invokeMove(ctx.MoveTopOnMap, a)
	case ActMoveTopRel:
		return invokeMove(ctx.MoveTopRel, a)
	case ActLoadDepot:
		if ctx.LoadDepot == nil {
			return nil
		}
		return ctx.LoadDepot()
	case ActSaveDepot:
		if ctx.SaveDepot == nil {
			return nil
		}
		return ctx.SaveDepot()
	case ActSetStart:
		if ctx.SetStart == nil {
			return nil
		}
		return ctx.SetStart()
	case ActSetAttribute:
		return invokeAttr(ctx.SetAttribute, a.Ref, a.Key, a.Value)
	case ActSetQuestValue:
		if ctx.SetQuestValue == nil {
			return nil
		}
		return ctx.SetQuestValue(a.Ref, a.QuestID, a.Value)
	case ActRetrieve:
		if ctx.Retrieve == nil {
			return nil
		}
		return ctx.Retrieve(a.FromDX, a.FromDY, a.DX, a.DY)
	case ActSendMail:
		if ctx.SendMail == nil {
			return nil
		}
		return ctx.SendMail()
	case ActDamage:
		if ctx.Damage == nil {
			return nil
		}
		return ctx.Damage(a.Value)
	case ActLogout:
		if ctx.Logout == nil {
			return nil
		}
		return ctx.Logout()
	case ActNOP:
		return nil
	default:
		return nil
	}
}

func invoke3(fn func(ObjRef, ids.ItemTypeId, int64) error, ref ObjRef, t ids.ItemTypeId, v int64) error {
	if fn == nil {
		return nil
	}
	return fn(ref, t, v)
}

func invoke2(fn func(ObjRef, ids.ItemTypeId) error, ref ObjRef, t ids.ItemTypeId) error {
	if fn == nil {
		return nil
	}
	return fn(ref, t)
}

func invokeAttr(fn func(ObjRef, string, int64) error, ref ObjRef, key string, v int64) error {
	if fn == nil {
		return nil
	}
	return fn(ref, key, v)
}

func invokeMove(fn func(dx, dy int, dz int8) error, a Action) error {
	if fn == nil {
		return nil
	}
	return fn(a.DX, a.DY, a.DZ)
}
