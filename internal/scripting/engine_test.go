package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestNewEngineToleratesMissingScriptsDir(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	out := e.CalcDamageScale(DamageScaleContext{Base: 10, Offset: 2})
	if out.Amount != 12 {
		t.Fatalf("expected fallback amount base+offset=12, got %d", out.Amount)
	}
}

func TestCalcLevelUpFallsBackWithoutScript(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	out := e.CalcLevelUp(LevelUpContext{Profession: "mage", NewLevel: 10, Vitality: 20})
	if out.HPGain != 10 || out.MPGain != 5 {
		t.Fatalf("expected fallback HP=10/MP=5, got %+v", out)
	}
}

func TestCalcAITieBreakScoreFallsBackToDistanceOnly(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	score := e.CalcAITieBreakScore(AITieBreakContext{Distance: 5})
	if score != -5 {
		t.Fatalf("expected fallback score -distance=-5, got %d", score)
	}
}

func TestLoadDirSkipsNonLuaFiles(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua ("), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := e.loadDir(dir); err != nil {
		t.Fatalf("unexpected error loading dir with only a non-.lua file: %v", err)
	}
}
