package moveuse

import (
	"testing"

	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/rng"
)

func TestFindRuleFirstMatchWinsDepthFirst(t *testing.T) {
	root, err := ParseRules(sampleDSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ctx := EvalContext{
		ObjType: func(ref ObjRef) ids.ItemTypeId {
			if ref == RefObj1 {
				return 1950
			}
			return 0
		},
		IsProtectionZone: func() bool { return false },
	}
	m, ok := FindRule(root, EventUse, ctx)
	if !ok {
		t.Fatal("expected a matching rule")
	}
	if m.Rule.Actions[0].Kind != ActChange {
		t.Fatalf("expected the outer Use rule to match first, got %+v", m.Rule)
	}
}

func TestFindRuleFallsThroughToNestedSection(t *testing.T) {
	root, err := ParseRules(sampleDSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ctx := EvalContext{
		ObjType: func(ref ObjRef) ids.ItemTypeId {
			if ref == RefObj1 {
				return 1024
			}
			return 0
		},
	}
	m, ok := FindRule(root, EventUse, ctx)
	if !ok {
		t.Fatal("expected a matching rule in nested section")
	}
	if m.Rule.Actions[0].Kind != ActMove {
		t.Fatalf("expected the doors-section Move rule to match, got %+v", m.Rule)
	}
}

func TestFindRuleNoMatchReturnsFalse(t *testing.T) {
	root, err := ParseRules(sampleDSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ctx := EvalContext{ObjType: func(ObjRef) ids.ItemTypeId { return 9999 }}
	if _, ok := FindRule(root, EventUse, ctx); ok {
		t.Fatal("expected no match")
	}
}

func TestEvalConditionRandomConsumesRNG(t *testing.T) {
	cond := Condition{Kind: CondRandom, Chance: 100}
	ctx := EvalContext{Stream: rng.NewStream(1)}
	ok, used := evalCondition(cond, ctx)
	if !ok || !used {
		t.Fatalf("expected Random(100) to always succeed and consume RNG, got ok=%v used=%v", ok, used)
	}
}

func TestEvalConditionTestSkillRequiresBothThresholdAndRoll(t *testing.T) {
	cond := Condition{Kind: CondTestSkill, Ref: RefUser, Skill: "sword", Value: 50, Chance: 0}
	ctx := EvalContext{
		Stream: rng.NewStream(1),
		Skill:  func(ref ObjRef, skill string) int64 { return 80 },
	}
	ok, used := evalCondition(cond, ctx)
	if ok || !used {
		t.Fatalf("expected Chance(0) to always fail while still consuming RNG, got ok=%v used=%v", ok, used)
	}
}

func TestApplyActionsStopsAtFirstError(t *testing.T) {
	actions := []Action{
		{Kind: ActEffect, Value: 1},
		{Kind: ActDamage, Value: 5},
		{Kind: ActText, Text: "never reached"},
	}
	calledText := false
	ctx := ApplyContext{
		Effect: func(id int64) error { return nil },
		Damage: func(amount int64) error { return errBoom },
		Text:   func(text string) error { calledText = true; return nil },
	}
	results := ApplyActions(actions, ctx)
	if len(results) != 2 {
		t.Fatalf("expected to stop after the failing action, got %d results", len(results))
	}
	if calledText {
		t.Fatal("expected Text action to never run after Damage failed")
	}
}

func TestApplyActionsSkipsIgnoredButRecords(t *testing.T) {
	actions := []Action{{Kind: ActDamage, Ignored: true, Value: 99}}
	called := false
	ctx := ApplyContext{Damage: func(amount int64) error { called = true; return nil }}
	results := ApplyActions(actions, ctx)
	if called {
		t.Fatal("expected ignored action to never invoke its callback")
	}
	if len(results) != 1 || !results[0].Skipped {
		t.Fatalf("expected one skipped result, got %+v", results)
	}
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
