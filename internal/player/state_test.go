package player

import (
	"testing"

	"github.com/opentibia/worldcore/internal/geom"
)

func TestNewPlayerStartsOnlineAtSpawn(t *testing.T) {
	pos := geom.Position{X: 100, Y: 100, Z: 7}
	p := New(1, "Rashid", pos)
	if !p.Online {
		t.Fatal("expected new player to be online")
	}
	if p.Pos != pos || p.StartPos != pos {
		t.Fatal("expected spawn position to set both Pos and StartPos")
	}
	if p.Containers == nil || p.Inventory == nil || p.SkillTimers == nil || p.Effects == nil {
		t.Fatal("expected New to initialize all collections")
	}
}

func TestMarkPvPFightAndTick(t *testing.T) {
	p := New(1, "Rashid", geom.Position{})
	p.MarkPvPFight(10)
	if !p.InPvPFight() {
		t.Fatal("expected fight timer to be active after marking")
	}
	for i := 0; i < 10; i++ {
		p.TickFightTimers()
	}
	if p.InPvPFight() {
		t.Fatal("expected fight timer to expire after 10 ticks")
	}
}

func TestQuestValueDefaultsToZero(t *testing.T) {
	p := New(1, "Rashid", geom.Position{})
	if p.QuestValue(42) != 0 {
		t.Fatal("expected unset quest value to default to 0")
	}
	p.SetQuestValue(42, 7)
	if p.QuestValue(42) != 7 {
		t.Fatal("expected quest value to be retrievable after set")
	}
}

func TestDialogueStateCreatesOnDemand(t *testing.T) {
	p := New(1, "Rashid", geom.Position{})
	st := p.DialogueState("rashid")
	st.Topic = 3
	again := p.DialogueState("rashid")
	if again.Topic != 3 {
		t.Fatal("expected repeated DialogueState calls to return the same state")
	}
}

func TestAutowalkQueueFIFO(t *testing.T) {
	var q AutowalkQueue
	q.Push(geom.North)
	q.Push(geom.East)
	d, ok := q.Pop()
	if !ok || d != geom.North {
		t.Fatalf("expected FIFO order, got %v ok=%v", d, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 remaining step, got %d", q.Len())
	}
}
