package npc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tokenize lower-cases a player utterance and splits it on runs of
// non-alphanumeric characters (spec §4.6: "Player speech is lower-cased
// and tokenised on non-alphanumerics").
func Tokenize(message string) []string {
	lower := strings.ToLower(message)
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// ConditionKind distinguishes the four condition shapes spec §4.6 names.
type ConditionKind uint8

const (
	CondString ConditionKind = iota
	CondComparison
	CondCall
	CondIdent
)

// Condition is one atomic test a BehaviourRule requires to fire.
//
// String conditions are matched structurally by Text/ExactSuffix.
// Comparison and Call conditions carry a predicate closure supplied by the
// script loader, since their operand grammar is NPC-script specific; this
// package only fixes the evaluation contract (a player-variable lookup
// table in, a bool out).
type Condition struct {
	Kind ConditionKind

	// CondString
	Text        string
	ExactSuffix bool // trailing "$" in the script: token must equal Text

	// CondIdent: which focus-dependent ident this rule requires
	// (spec §4.6: "required ident (address/busy/queue)").
	Ident FocusIdent

	// CondComparison / CondCall
	Predicate func(vars map[string]int32) bool
}

func (c Condition) matchesTokens(tokens []string) bool {
	for _, tok := range tokens {
		if c.ExactSuffix {
			if tok == c.Text {
				return true
			}
		} else if strings.HasPrefix(tok, c.Text) {
			return true
		}
	}
	return false
}

// ActionKind enumerates the planned (not-yet-applied) NPC actions spec
// §4.6 names.
type ActionKind uint8

const (
	ActionSetTopic ActionKind = iota
	ActionSetQuestValue
	ActionTeachSpell
	ActionSetProfession
	ActionSetHP
	ActionCreate
	ActionDelete
	ActionCreateMoney
	ActionDeleteMoney
	ActionTeleport
	ActionEffectOpp
	ActionEffectMe
	ActionQueue
	ActionIdle
	ActionSay
)

// Action is one effect a matched rule schedules; worldstate applies it
// against the concrete player/item/spell state (spec §4.6: "Actions
// planned (not yet applied)").
type Action struct {
	Kind ActionKind

	IntArg    int32  // topic/quest-value/HP/profession/spell id/item type, as Kind dictates
	Amount    int32  // honored by Create/Delete/CreateMoney/DeleteMoney
	Price     int32  // honored by CreateMoney/DeleteMoney
	X, Y      int32  // Teleport
	Z         int32  // Teleport
	QuestID   int32  // SetQuestValue
	SpeechKey string // ActionSay: template key, or "*" to reuse the previous rule's template
}

// BehaviourRule is one `[Condition] => [Action]` entry in an NPC script
// (spec §4.6).
type BehaviourRule struct {
	Conditions []Condition
	Actions    []Action
}

func (r BehaviourRule) hasStringCondition() bool {
	for _, c := range r.Conditions {
		if c.Kind == CondString {
			return true
		}
	}
	return false
}

func (r BehaviourRule) requiredIdent() FocusIdent {
	for _, c := range r.Conditions {
		if c.Kind == CondIdent && c.Ident != IdentNone {
			return c.Ident
		}
	}
	return IdentNone
}

func identSatisfied(ident FocusIdent, focused, busy, queued bool) bool {
	switch ident {
	case IdentNone:
		return true
	case IdentAddress:
		return focused
	case IdentBusy:
		return busy
	case IdentQueue:
		return queued
	default:
		return false
	}
}

func (r BehaviourRule) evaluate(tokens []string, vars map[string]int32) bool {
	for _, c := range r.Conditions {
		switch c.Kind {
		case CondString:
			if !c.matchesTokens(tokens) {
				return false
			}
		case CondIdent:
			// Ident conditions gate pass membership (see requiredIdent);
			// they do not themselves reject within a pass.
		case CondComparison, CondCall:
			if c.Predicate != nil && !c.Predicate(vars) {
				return false
			}
		}
	}
	return true
}

// FocusState is the subset of per-NPC/per-player focus bookkeeping the
// matcher needs, decoupled from Instance so MatchMessage stays pure.
type FocusState struct {
	Focused bool
	Busy    bool
	Queued  bool
}

// MatchMessage implements spec §4.6's two-pass rule search: Pass A only
// considers rules with a string condition whose required ident matches
// the current focus state; Pass B falls back to ident-less or non-string
// rules. Returns the first rule whose full condition set evaluates true,
// and the tokenized message.
func MatchMessage(rules []BehaviourRule, message string, focus FocusState, vars map[string]int32) (*BehaviourRule, []string) {
	tokens := Tokenize(message)

	for i := range rules {
		r := rules[i]
		if !r.hasStringCondition() {
			continue
		}
		if !identSatisfied(r.requiredIdent(), focus.Focused, focus.Busy, focus.Queued) {
			continue
		}
		if r.evaluate(tokens, vars) {
			return &rules[i], tokens
		}
	}

	for i := range rules {
		r := rules[i]
		if r.requiredIdent() != IdentNone && r.hasStringCondition() {
			continue // only in Pass A's remit
		}
		if r.evaluate(tokens, vars) {
			return &rules[i], tokens
		}
	}

	return nil, tokens
}

// ShopKeywords are the utterance tokens that open the shop window when
// the NPC is focused on the speaker (spec §4.6: "trade/offer/buy/sell/
// shop").
var ShopKeywords = map[string]bool{
	"trade": true, "offer": true, "buy": true, "sell": true, "shop": true,
}

// RequestsShop reports whether any token is a shop keyword.
func RequestsShop(tokens []string) bool {
	for _, t := range tokens {
		if ShopKeywords[t] {
			return true
		}
	}
	return false
}

// SubstitutionArgs bundles the four substitution values spec §4.6 names.
type SubstitutionArgs struct {
	PlayerName string
	Amount     int32
	Price      int32
	Now        time.Time
}

// Substitute replaces %N/%A/%P/%T in a reply template (spec §4.6: "Reply
// text substitutes %N=player-name, %A=amount, %P=price, %T=current
// HH:MM").
func Substitute(template string, args SubstitutionArgs) string {
	replacer := strings.NewReplacer(
		"%N", args.PlayerName,
		"%A", strconv.FormatInt(int64(args.Amount), 10),
		"%P", strconv.FormatInt(int64(args.Price), 10),
		"%T", args.Now.Format("15:04"),
	)
	return replacer.Replace(template)
}

// ResolveSpeech returns the template a Say action should render: the
// rule's own key, or the previous rule's key when the action's key is the
// literal "*" reuse marker (spec §4.6: "A rule whose only speech action
// is `*` re-uses the previous rule's speech template").
func ResolveSpeech(current, previous string) string {
	if current == "*" {
		return previous
	}
	return current
}

// MergeVars merges a rule's lower-cased assignment-action variables with
// the NPC's cached per-player variables, matching spec §4.6's "merged
// with cached per-npc variables" rule. New values win on key collision.
func MergeVars(cached map[string]int32, assigned map[string]int32) map[string]int32 {
	merged := make(map[string]int32, len(cached)+len(assigned))
	for k, v := range cached {
		merged[strings.ToLower(k)] = v
	}
	for k, v := range assigned {
		merged[strings.ToLower(k)] = v
	}
	return merged
}

// NumberedTokenVars extracts tokenised `%1,%2,...` numeric references from
// a tokenised utterance into the same variable space assignment-actions
// populate (spec §4.6: "tokenised %1,%2,… numbers").
func NumberedTokenVars(tokens []string) map[string]int32 {
	out := make(map[string]int32)
	n := 1
	for _, t := range tokens {
		if v, err := strconv.ParseInt(t, 10, 32); err == nil {
			out[fmt.Sprintf("%d", n)] = int32(v)
			n++
		}
	}
	return out
}
