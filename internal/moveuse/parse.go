package moveuse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opentibia/worldcore/internal/ids"
)

// lex splits the DSL text into a flat token stream: keywords, identifiers,
// numbers, and the punctuation `(`, `)`, `,` as their own tokens. Comments
// starting with `#` run to end of line.
func lex(src string) []string {
	var tokens []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}
	inComment := false
	for _, r := range src {
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case r == '#':
			inComment = true
			flush()
		case r == '(' || r == ')' || r == ',':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parser walks a flat token stream with one token of lookahead.
type parser struct {
	tokens []string
	pos    int
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(tok string) error {
	got := p.next()
	if !strings.EqualFold(got, tok) {
		return fmt.Errorf("moveuse: expected %q, got %q at token %d", tok, got, p.pos-1)
	}
	return nil
}

// ParseRules parses the full textual DSL (`dat/moveuse.dat`) into a root
// Section tree. Grammar:
//
//	section    := "SECTION" NAME body "END"
//	body       := { rule | section }
//	rule       := "RULE" event { "IF" cond } { "THEN" action } "END"
//	event      := "Use" | "MultiUse" | "Collision" | "Separation"
func ParseRules(src string) (*Section, error) {
	p := &parser{tokens: lex(src)}
	root := &Section{Name: "root"}
	for p.peek() != "" {
		child, err := p.parseSection()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

func (p *parser) parseSection() (*Section, error) {
	if err := p.expect("SECTION"); err != nil {
		return nil, err
	}
	name := p.next()
	sec := &Section{Name: name}
	for {
		tok := p.peek()
		switch strings.ToUpper(tok) {
		case "END":
			p.next()
			return sec, nil
		case "RULE":
			rule, err := p.parseRule()
			if err != nil {
				return nil, err
			}
			sec.Rules = append(sec.Rules, rule)
		case "SECTION":
			child, err := p.parseSection()
			if err != nil {
				return nil, err
			}
			sec.Children = append(sec.Children, child)
		case "":
			return nil, fmt.Errorf("moveuse: unexpected end of input inside section %q", name)
		default:
			return nil, fmt.Errorf("moveuse: unexpected token %q inside section %q", tok, name)
		}
	}
}

func (p *parser) parseRule() (Rule, error) {
	if err := p.expect("RULE"); err != nil {
		return Rule{}, err
	}
	event, err := parseEvent(p.next())
	if err != nil {
		return Rule{}, err
	}
	rule := Rule{Event: event}
	for {
		switch strings.ToUpper(p.peek()) {
		case "IF":
			p.next()
			cond, err := p.parseCondition()
			if err != nil {
				return Rule{}, err
			}
			rule.Conditions = append(rule.Conditions, cond)
		case "THEN":
			p.next()
			action, err := p.parseAction()
			if err != nil {
				return Rule{}, err
			}
			rule.Actions = append(rule.Actions, action)
		case "END":
			p.next()
			return rule, nil
		default:
			return Rule{}, fmt.Errorf("moveuse: unexpected token %q inside rule", p.peek())
		}
	}
}

func parseEvent(tok string) (Event, error) {
	switch tok {
	case "Use":
		return EventUse, nil
	case "MultiUse":
		return EventMultiUse, nil
	case "Collision":
		return EventCollision, nil
	case "Separation":
		return EventSeparation, nil
	default:
		return 0, fmt.Errorf("moveuse: unknown event %q", tok)
	}
}

func parseRef(tok string) ObjRef {
	switch tok {
	case "Obj1":
		return RefObj1
	case "Obj2":
		return RefObj2
	case "User":
		return RefUser
	case "Target":
		return RefTarget
	default:
		return RefNone
	}
}

func parseOp(tok string) CompareOp {
	switch tok {
	case "!=":
		return OpNotEqual
	case "<":
		return OpLess
	case "<=":
		return OpLessEqual
	case ">":
		return OpGreater
	case ">=":
		return OpGreaterEqual
	default:
		return OpEqual
	}
}

// parseCondition parses one `[!]Name[(arg, arg, ...)]` call into a
// Condition; a leading `!` negates it and the argument list may be omitted.
func (p *parser) parseCondition() (Condition, error) {
	negate := false
	name := p.next()
	if strings.HasPrefix(name, "!") && len(name) > 1 {
		negate = true
		name = name[1:]
	}
	args, err := p.parseArgs()
	if err != nil {
		return Condition{}, err
	}
	cond := Condition{Negate: negate}
	switch name {
	case "IsType":
		cond.Kind = CondIsType
		cond.Ref = parseRef(arg(args, 0))
		cond.TypeID = idsItemType(arg(args, 1))
	case "IsPosition":
		cond.Kind = CondIsPosition
		cond.X = atoi(arg(args, 0))
		cond.Y = atoi(arg(args, 1))
	case "IsObjectThere":
		cond.Kind = CondIsObjectThere
		cond.X = atoi(arg(args, 0))
		cond.Y = atoi(arg(args, 1))
		cond.TypeID = idsItemType(arg(args, 2))
	case "IsProtectionZone":
		cond.Kind = CondIsProtectionZone
	case "IsHouse":
		cond.Kind = CondIsHouse
	case "IsHouseOwner":
		cond.Kind = CondIsHouseOwner
	case "IsPlayer":
		cond.Kind = CondIsPlayer
	case "IsCreature":
		cond.Kind = CondIsCreature
	case "IsPlayerThere":
		cond.Kind = CondIsPlayerThere
		cond.X = atoi(arg(args, 0))
		cond.Y = atoi(arg(args, 1))
	case "IsObjectInInventory":
		cond.Kind = CondIsObjectInInventory
		cond.Ref = parseRef(arg(args, 0))
		cond.TypeID = idsItemType(arg(args, 1))
		cond.Count = atoi(arg(args, 2))
	case "CountObjects":
		cond.Kind = CondCountObjects
		cond.TypeID = idsItemType(arg(args, 0))
		cond.Count = atoi(arg(args, 1))
	case "CountObjectsOnMap":
		cond.Kind = CondCountObjectsOnMap
		cond.TypeID = idsItemType(arg(args, 0))
		cond.Count = atoi(arg(args, 1))
	case "HasInstanceAttribute":
		cond.Kind = CondHasInstanceAttribute
		cond.Ref = parseRef(arg(args, 0))
		cond.Key = arg(args, 1)
		cond.Op = parseOp(arg(args, 2))
		cond.Value = atoi64(arg(args, 3))
	case "HasFlag":
		cond.Kind = CondHasFlag
		cond.Ref = parseRef(arg(args, 0))
		cond.Flag = arg(args, 1)
	case "IsDressed":
		cond.Kind = CondIsDressed
	case "IsPeaceful":
		cond.Kind = CondIsPeaceful
	case "HasQuestValue":
		cond.Kind = CondHasQuestValue
		cond.Ref = parseRef(arg(args, 0))
		cond.QuestIDFromKey(arg(args, 1))
		cond.Op = parseOp(arg(args, 2))
		cond.Value = atoi64(arg(args, 3))
	case "HasLevel":
		cond.Kind = CondHasLevel
		cond.Level = int32(atoi(arg(args, 0)))
	case "HasProfession":
		cond.Kind = CondHasProfession
		cond.Profession = arg(args, 0)
	case "TestSkill":
		cond.Kind = CondTestSkill
		cond.Ref = parseRef(arg(args, 0))
		cond.Skill = arg(args, 1)
		cond.Value = atoi64(arg(args, 2))
		cond.Chance = atoi(arg(args, 3))
	case "HasRight":
		cond.Kind = CondHasRight
		cond.Ref = parseRef(arg(args, 0))
		cond.Right = arg(args, 1)
	case "MayLogout":
		cond.Kind = CondMayLogout
	case "Random":
		cond.Kind = CondRandom
		cond.Chance = atoi(arg(args, 0))
	default:
		return Condition{}, fmt.Errorf("moveuse: unknown condition %q", name)
	}
	return cond, nil
}

// QuestIDFromKey stores a quest key string into Key, leaving numeric quest
// ids to be resolved by the catalog at match time.
func (c *Condition) QuestIDFromKey(key string) { c.Key = key }

func (p *parser) parseArgs() ([]string, error) {
	if p.peek() != "(" {
		return nil, nil
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []string
	for p.peek() != ")" {
		if p.peek() == "" {
			return nil, fmt.Errorf("moveuse: unterminated argument list")
		}
		args = append(args, p.next())
		if p.peek() == "," {
			p.next()
		}
	}
	p.next() // consume ")"
	return args, nil
}

func (p *parser) parseAction() (Action, error) {
	ignored := false
	name := p.next()
	if strings.HasPrefix(name, "!") && len(name) > 1 {
		ignored = true
		name = name[1:]
	}
	args, err := p.parseArgs()
	if err != nil {
		return Action{}, err
	}
	act := Action{Ignored: ignored}
	switch name {
	case "Change":
		act.Kind = ActChange
		act.Ref = parseRef(arg(args, 0))
		act.TypeID = idsItemType(arg(args, 1))
		act.Value = atoi64(arg(args, 2))
	case "ChangeRel":
		act.Kind = ActChangeRel
		act.Ref = parseRef(arg(args, 0))
		act.TypeID = idsItemType(arg(args, 1))
	case "ChangeOnMap":
		act.Kind = ActChangeOnMap
		act.TypeID = idsItemType(arg(args, 0))
	case "ChangeAttribute":
		act.Kind = ActChangeAttribute
		act.Ref = parseRef(arg(args, 0))
		act.Key = arg(args, 1)
		act.Value = atoi64(arg(args, 2))
	case "Create":
		act.Kind = ActCreate
		act.TypeID = idsItemType(arg(args, 0))
		act.Count = atoi(arg(args, 1))
	case "CreateOnMap":
		act.Kind = ActCreateOnMap
		act.TypeID = idsItemType(arg(args, 0))
		act.Count = atoi(arg(args, 1))
	case "Delete":
		act.Kind = ActDelete
		act.Ref = parseRef(arg(args, 0))
	case "DeleteInInventory":
		act.Kind = ActDeleteInInventory
		act.TypeID = idsItemType(arg(args, 0))
		act.Count = atoi(arg(args, 1))
	case "DeleteOnMap":
		act.Kind = ActDeleteOnMap
	case "DeleteTopOnMap":
		act.Kind = ActDeleteTopOnMap
	case "Effect":
		act.Kind = ActEffect
		act.Value = atoi64(arg(args, 0))
	case "EffectOnMap":
		act.Kind = ActEffectOnMap
		act.Value = atoi64(arg(args, 0))
	case "Text":
		act.Kind = ActText
		act.Text = arg(args, 0)
	case "Description":
		act.Kind = ActDescription
		act.Text = arg(args, 0)
	case "WriteName":
		act.Kind = ActWriteName
	case "Monster":
		act.Kind = ActMonster
		act.Race = int32(atoi(arg(args, 0)))
	case "MonsterOnMap":
		act.Kind = ActMonsterOnMap
		act.Race = int32(atoi(arg(args, 0)))
	case "Move":
		act.Kind = ActMove
		act.DX = atoi(arg(args, 0))
		act.DY = atoi(arg(args, 1))
		act.DZ = int8(atoi(arg(args, 2)))
	case "MoveRel":
		act.Kind = ActMoveRel
		act.DX = atoi(arg(args, 0))
		act.DY = atoi(arg(args, 1))
		act.DZ = int8(atoi(arg(args, 2)))
	case "MoveTop":
		act.Kind = ActMoveTop
		act.DX = atoi(arg(args, 0))
		act.DY = atoi(arg(args, 1))
		act.DZ = int8(atoi(arg(args, 2)))
	case "MoveTopOnMap":
		act.Kind = ActMoveTopOnMap
		act.DX = atoi(arg(args, 0))
		act.DY = atoi(arg(args, 1))
		act.DZ = int8(atoi(arg(args, 2)))
	case "MoveTopRel":
		act.Kind = ActMoveTopRel
		act.DX = atoi(arg(args, 0))
		act.DY = atoi(arg(args, 1))
		act.DZ = int8(atoi(arg(args, 2)))
	case "LoadDepot":
		act.Kind = ActLoadDepot
	case "SaveDepot":
		act.Kind = ActSaveDepot
	case "SetStart":
		act.Kind = ActSetStart
	case "SetAttribute":
		act.Kind = ActSetAttribute
		act.Ref = parseRef(arg(args, 0))
		act.Key = arg(args, 1)
		act.Value = atoi64(arg(args, 2))
	case "SetQuestValue":
		act.Kind = ActSetQuestValue
		act.Ref = parseRef(arg(args, 0))
		act.QuestID = int32(atoi(arg(args, 1)))
		act.Value = atoi64(arg(args, 2))
	case "Retrieve":
		act.Kind = ActRetrieve
		act.FromDX = atoi(arg(args, 0))
		act.FromDY = atoi(arg(args, 1))
		act.DX = atoi(arg(args, 2))
		act.DY = atoi(arg(args, 3))
	case "SendMail":
		act.Kind = ActSendMail
	case "Damage":
		act.Kind = ActDamage
		act.Value = atoi64(arg(args, 0))
	case "Logout":
		act.Kind = ActLogout
	case "NOP":
		act.Kind = ActNOP
	default:
		return Action{}, fmt.Errorf("moveuse: unknown action %q", name)
	}
	return act, nil
}

func arg(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atoi64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func idsItemType(s string) ids.ItemTypeId {
	return ids.ItemTypeId(atoi(s))
}
