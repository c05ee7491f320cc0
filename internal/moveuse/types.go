// Package moveuse implements the move/use rule engine (spec §4.2 "MoveUse
// engine"): an ordered section tree of Event/Condition/Action rules,
// parsed from a textual DSL and matched depth-first, first-match-wins.
package moveuse

import "github.com/opentibia/worldcore/internal/ids"

// Event is the trigger kind a rule fires on.
type Event uint8

const (
	EventUse Event = iota
	EventMultiUse
	EventCollision
	EventSeparation
)

// ObjRef selects which participant a condition or action field refers to
// (spec §4.2 names "Obj1|Obj2" and a user/target split across actions).
type ObjRef uint8

const (
	RefNone ObjRef = iota
	RefObj1
	RefObj2
	RefUser
	RefTarget
)

// CompareOp is the operator `HasInstanceAttribute`/`HasQuestValue`/
// `TestSkill`-style numeric conditions compare with.
type CompareOp uint8

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

func (op CompareOp) Eval(lhs, rhs int64) bool {
	switch op {
	case OpEqual:
		return lhs == rhs
	case OpNotEqual:
		return lhs != rhs
	case OpLess:
		return lhs < rhs
	case OpLessEqual:
		return lhs <= rhs
	case OpGreater:
		return lhs > rhs
	case OpGreaterEqual:
		return lhs >= rhs
	default:
		return false
	}
}

// ConditionKind enumerates spec §4.2's named selection conditions.
type ConditionKind uint8

const (
	CondIsType ConditionKind = iota
	CondIsPosition
	CondIsObjectThere
	CondIsProtectionZone
	CondIsHouse
	CondIsHouseOwner
	CondIsPlayer
	CondIsCreature
	CondIsPlayerThere
	CondIsObjectInInventory
	CondCountObjects
	CondCountObjectsOnMap
	CondHasInstanceAttribute
	CondHasFlag
	CondIsDressed
	CondIsPeaceful
	CondHasQuestValue
	CondHasLevel
	CondHasProfession
	CondTestSkill
	CondHasRight
	CondMayLogout
	CondRandom
)

// Condition is one tagged-union selection test. Only the fields relevant
// to Kind are meaningful, everything else is zero (spec §9 "tagged unions
// everywhere ownership branches").
type Condition struct {
	Kind       ConditionKind
	Negate     bool // the leading `!`
	Ref        ObjRef
	TypeID     ids.ItemTypeId
	X, Y       int
	Z          int8
	Count      int
	Key        string
	Op         CompareOp
	Value      int64
	Flag       string
	Skill      string
	Right      string
	Chance     int // percent, for Random/TestSkill
	Profession string
	Level      int32
}

// ActionKind enumerates spec §4.2's named actions.
type ActionKind uint8

const (
	ActChange ActionKind = iota
	ActChangeRel
	ActChangeOnMap
	ActChangeAttribute
	ActCreate
	ActCreateOnMap
	ActDelete
	ActDeleteInInventory
	ActDeleteOnMap
	ActDeleteTopOnMap
	ActEffect
	ActEffectOnMap
	ActText
	ActDescription
	ActWriteName
	ActMonster
	ActMonsterOnMap
	ActMove
	ActMoveRel
	ActMoveTop
	ActMoveTopOnMap
	ActMoveTopRel
	ActLoadDepot
	ActSaveDepot
	ActSetStart
	ActSetAttribute
	ActChangeAttributeValue
	ActSetQuestValue
	ActRetrieve
	ActSendMail
	ActDamage
	ActLogout
	ActNOP
)

// Action is one tagged-union effect. Ignored marks an `!`-prefixed action:
// recorded but not applied (spec §4.2: "Actions prefixed `!` are ignored
// but recorded").
type Action struct {
	Kind           ActionKind
	Ignored        bool
	Ref            ObjRef
	TypeID         ids.ItemTypeId
	Count          int
	Value          int64
	Key            string
	Text           string
	DX, DY         int
	DZ             int8
	FromDX, FromDY int
	FromDZ         int8
	QuestID        int32
	DamageType     uint32
	Race           int32
}

// Rule is one `Event / [Condition…] → [Action…]` line (spec §4.2).
type Rule struct {
	Event      Event
	Conditions []Condition
	Actions    []Action
}

// Section is one node of the rule tree: its own rules plus nested child
// sections. Matching a trigger walks depth-first, first-match-wins, with
// rule search inherited through nested sections (spec §4.2).
type Section struct {
	Name     string
	Rules    []Rule
	Children []*Section
}
