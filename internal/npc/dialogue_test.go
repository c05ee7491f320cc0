package npc

import (
	"testing"
	"time"
)

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	got := Tokenize("Hello, I need a Sword!")
	want := []string{"hello", "i", "need", "a", "sword"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestConditionMatchesTokensPrefix(t *testing.T) {
	c := Condition{Kind: CondString, Text: "sword"}
	if !c.matchesTokens([]string{"a", "swordsman"}) {
		t.Fatal("expected prefix match on 'swordsman'")
	}
}

func TestConditionMatchesTokensExactSuffix(t *testing.T) {
	c := Condition{Kind: CondString, Text: "sword", ExactSuffix: true}
	if c.matchesTokens([]string{"swordsman"}) {
		t.Fatal("expected exact-suffix condition to reject a longer token")
	}
	if !c.matchesTokens([]string{"sword"}) {
		t.Fatal("expected exact-suffix condition to accept an exact token")
	}
}

func TestMatchMessagePassAPrefersFocusGatedStringRule(t *testing.T) {
	rules := []BehaviourRule{
		{
			Conditions: []Condition{
				{Kind: CondIdent, Ident: IdentAddress},
				{Kind: CondString, Text: "yes"},
			},
			Actions: []Action{{Kind: ActionSay, SpeechKey: "confirmed"}},
		},
		{
			Conditions: []Condition{{Kind: CondString, Text: "hello"}},
			Actions:    []Action{{Kind: ActionSay, SpeechKey: "greeting"}},
		},
	}
	got, _ := MatchMessage(rules, "yes", FocusState{Focused: true}, nil)
	if got == nil || got.Actions[0].SpeechKey != "confirmed" {
		t.Fatalf("expected focus-gated rule to win, got %+v", got)
	}
}

func TestMatchMessageSkipsFocusGatedRuleWhenNotAddressed(t *testing.T) {
	rules := []BehaviourRule{
		{
			Conditions: []Condition{
				{Kind: CondIdent, Ident: IdentAddress},
				{Kind: CondString, Text: "yes"},
			},
			Actions: []Action{{Kind: ActionSay, SpeechKey: "confirmed"}},
		},
	}
	got, _ := MatchMessage(rules, "yes", FocusState{Focused: false}, nil)
	if got != nil {
		t.Fatal("expected no match when required ident is not satisfied")
	}
}

func TestMatchMessagePassBFallsBackToIdentlessRule(t *testing.T) {
	rules := []BehaviourRule{
		{
			Conditions: []Condition{{Kind: CondString, Text: "hi"}},
			Actions:    []Action{{Kind: ActionSay, SpeechKey: "hi-reply"}},
		},
	}
	got, _ := MatchMessage(rules, "hi there", FocusState{}, nil)
	if got == nil || got.Actions[0].SpeechKey != "hi-reply" {
		t.Fatalf("expected ident-less string rule to match in pass B, got %+v", got)
	}
}

func TestMatchMessageComparisonConditionMustHold(t *testing.T) {
	rules := []BehaviourRule{
		{
			Conditions: []Condition{
				{Kind: CondString, Text: "buy"},
				{Kind: CondComparison, Predicate: func(vars map[string]int32) bool {
					return vars["gold"] >= 100
				}},
			},
			Actions: []Action{{Kind: ActionSay, SpeechKey: "sold"}},
		},
	}
	noMatch, _ := MatchMessage(rules, "buy sword", FocusState{}, map[string]int32{"gold": 10})
	if noMatch != nil {
		t.Fatal("expected comparison condition failure to reject the rule")
	}
	match, _ := MatchMessage(rules, "buy sword", FocusState{}, map[string]int32{"gold": 200})
	if match == nil {
		t.Fatal("expected comparison condition success to accept the rule")
	}
}

func TestRequestsShopDetectsKeywords(t *testing.T) {
	if !RequestsShop(Tokenize("I want to trade")) {
		t.Fatal("expected 'trade' to trigger shop request")
	}
	if RequestsShop(Tokenize("hello there")) {
		t.Fatal("expected ordinary greeting to not trigger shop request")
	}
}

func TestSubstituteReplacesAllPlaceholders(t *testing.T) {
	now := time.Date(2026, 7, 30, 14, 5, 0, 0, time.UTC)
	got := Substitute("Hello %N, that's %A gold for %P, now %T.", SubstitutionArgs{
		PlayerName: "Rashid", Amount: 5, Price: 250, Now: now,
	})
	want := "Hello Rashid, that's 5 gold for 250, now 14:05."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveSpeechReusesPreviousOnStar(t *testing.T) {
	if got := ResolveSpeech("*", "greeting"); got != "greeting" {
		t.Fatalf("expected reuse of previous template, got %q", got)
	}
	if got := ResolveSpeech("farewell", "greeting"); got != "farewell" {
		t.Fatalf("expected own template when not '*', got %q", got)
	}
}

func TestMergeVarsNewValuesWinAndKeysLowercase(t *testing.T) {
	cached := map[string]int32{"Gold": 10, "rep": 2}
	assigned := map[string]int32{"gold": 99}
	merged := MergeVars(cached, assigned)
	if merged["gold"] != 99 {
		t.Fatalf("expected assigned value to win, got %d", merged["gold"])
	}
	if merged["rep"] != 2 {
		t.Fatalf("expected cached-only key to survive, got %d", merged["rep"])
	}
}

func TestNumberedTokenVarsExtractsInOrder(t *testing.T) {
	tokens := Tokenize("give me 5 swords for 100 gold")
	vars := NumberedTokenVars(tokens)
	if vars["1"] != 5 || vars["2"] != 100 {
		t.Fatalf("expected numbered vars 1=5 2=100, got %+v", vars)
	}
}
