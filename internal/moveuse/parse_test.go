package moveuse

import "testing"

const sampleDSL = `
SECTION root
  RULE Use
    IF IsType(Obj1, 1950)
    IF !IsProtectionZone
    THEN Change(Obj1, 1951, 0)
    THEN Effect(3)
  END
  SECTION doors
    RULE Use
      IF IsType(Obj1, 1024)
      THEN Move(Obj1, 1, 0, 0)
    END
  END
  RULE Collision
    IF Random(50)
    THEN !Damage(10)
    THEN NOP()
  END
END
`

func TestParseRulesBuildsSectionTree(t *testing.T) {
	root, err := ParseRules(sampleDSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected one top-level section, got %d", len(root.Children))
	}
	top := root.Children[0]
	if len(top.Rules) != 2 {
		t.Fatalf("expected 2 rules directly in root section, got %d", len(top.Rules))
	}
	if len(top.Children) != 1 || top.Children[0].Name != "doors" {
		t.Fatalf("expected nested 'doors' section, got %+v", top.Children)
	}
}

func TestParseRulesFirstRuleConditionsAndActions(t *testing.T) {
	root, err := ParseRules(sampleDSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	rule := root.Children[0].Rules[0]
	if rule.Event != EventUse {
		t.Fatalf("expected Use event, got %v", rule.Event)
	}
	if len(rule.Conditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(rule.Conditions))
	}
	if rule.Conditions[0].Kind != CondIsType || rule.Conditions[0].TypeID != 1950 {
		t.Fatalf("unexpected first condition: %+v", rule.Conditions[0])
	}
	if rule.Conditions[1].Kind != CondIsProtectionZone || !rule.Conditions[1].Negate {
		t.Fatalf("unexpected second condition: %+v", rule.Conditions[1])
	}
	if len(rule.Actions) != 2 || rule.Actions[0].Kind != ActChange || rule.Actions[0].TypeID != 1951 {
		t.Fatalf("unexpected actions: %+v", rule.Actions)
	}
}

func TestParseRulesHandlesIgnoredAction(t *testing.T) {
	root, err := ParseRules(sampleDSL)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	collisionRule := root.Children[0].Rules[1]
	if !collisionRule.Actions[0].Ignored || collisionRule.Actions[0].Kind != ActDamage {
		t.Fatalf("expected first action to be an ignored Damage, got %+v", collisionRule.Actions[0])
	}
}

func TestParseRulesRejectsUnknownCondition(t *testing.T) {
	_, err := ParseRules(`SECTION x
  RULE Use
    IF Bogus(1)
  END
END`)
	if err == nil {
		t.Fatal("expected error for unknown condition")
	}
}
