package npc

import (
	"testing"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
)

func TestNewParksAtHome(t *testing.T) {
	home := geom.Position{X: 100, Y: 100, Z: 7}
	n := New(1, "old-man", home, 3)
	if n.Pos != home {
		t.Fatalf("expected npc to start at home position, got %+v", n.Pos)
	}
}

func TestSetFocusAndIsFocusedOn(t *testing.T) {
	n := New(1, "old-man", geom.Position{}, 3)
	n.SetFocus(42, 1000)
	if !n.IsFocusedOn(42) || !n.IsBusy() {
		t.Fatal("expected npc to be focused and busy on player 42")
	}
	if n.IsFocusedOn(99) {
		t.Fatal("expected npc to not be focused on an unrelated player")
	}
}

func TestClearFocusResetsTopic(t *testing.T) {
	n := New(1, "old-man", geom.Position{}, 3)
	n.SetTopic(42, 5)
	n.SetFocus(42, 1000)
	n.ClearFocus()
	if n.IsBusy() {
		t.Fatal("expected focus cleared")
	}
	if n.TopicFor(42) != 0 {
		t.Fatalf("expected topic reset to 0 after Idle, got %d", n.TopicFor(42))
	}
}

func TestExpireFocusReleasesPastDeadline(t *testing.T) {
	n := New(1, "old-man", geom.Position{}, 3)
	n.SetFocus(42, 1000)
	n.ExpireFocus(500)
	if !n.IsBusy() {
		t.Fatal("expected focus to remain before deadline")
	}
	n.ExpireFocus(1000)
	if n.IsBusy() {
		t.Fatal("expected focus released at or after deadline")
	}
}

func TestEnqueueDequeueFIFONoDuplicates(t *testing.T) {
	n := New(1, "old-man", geom.Position{}, 3)
	n.Enqueue(1)
	n.Enqueue(2)
	n.Enqueue(1) // duplicate, ignored
	first, ok := n.DequeueNext()
	if !ok || first != ids.PlayerId(1) {
		t.Fatalf("expected player 1 first, got %v ok=%v", first, ok)
	}
	second, ok := n.DequeueNext()
	if !ok || second != ids.PlayerId(2) {
		t.Fatalf("expected player 2 second, got %v ok=%v", second, ok)
	}
	if _, ok := n.DequeueNext(); ok {
		t.Fatal("expected empty queue after both dequeued")
	}
}

func TestVarsForCreatesOnDemand(t *testing.T) {
	n := New(1, "old-man", geom.Position{}, 3)
	v := n.VarsFor(42)
	v["gold"] = 10
	if n.VarsFor(42)["gold"] != 10 {
		t.Fatal("expected per-player vars to persist across calls")
	}
}
