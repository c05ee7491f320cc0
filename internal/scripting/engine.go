// Package scripting wraps a single gopher-lua VM exposing tunable
// combat/damage/level-up/AI-scoring formulas to data designers, the same
// embedded-script role the teacher's own scripting.Engine plays (SPEC_FULL
// "internal/scripting": "Embedded Lua engine exposing tunable
// combat/damage/level-up formulas ... used by combat & spell engines for
// ComputeDamage").
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine owns one gopher-lua VM. Single-goroutine access only, matching
// the core simulation's own no-internal-locking design (spec §9).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM and loads every .lua file under scriptsDir,
// core formulas first so feature scripts may call helpers core defines.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	corePath := filepath.Join(scriptsDir, "core")
	if err := e.loadDir(corePath); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load core scripts: %w", err)
	}
	for _, sub := range []string{"combat", "spell", "ai"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory; a missing directory is not
// an error (spec §6: "optional catalog failures are logged and the world
// starts with reduced functionality").
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DamageScaleContext packs the inputs combat.ComputeDamage's tunable
// scaling hook needs.
type DamageScaleContext struct {
	Base       int32
	Variance   int32
	MagicLevel int32
	Level      int32
	SkillLevel int32
	ScaleFlags uint8
	Offset     int32
}

// DamageScaleResult is the Lua-computed damage amount before protection.
type DamageScaleResult struct {
	Amount int32
}

// CalcDamageScale calls the Lua `calc_damage_scale` function, falling back
// to the base+offset sum if the script is missing or errors (spec §6:
// reduced functionality rather than a hard failure).
func (e *Engine) CalcDamageScale(ctx DamageScaleContext) DamageScaleResult {
	fn := e.vm.GetGlobal("calc_damage_scale")
	if fn == lua.LNil {
		return DamageScaleResult{Amount: ctx.Base + ctx.Offset}
	}

	t := e.vm.NewTable()
	t.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("variance", lua.LNumber(ctx.Variance))
	t.RawSetString("magic_level", lua.LNumber(ctx.MagicLevel))
	t.RawSetString("level", lua.LNumber(ctx.Level))
	t.RawSetString("skill_level", lua.LNumber(ctx.SkillLevel))
	t.RawSetString("scale_flags", lua.LNumber(ctx.ScaleFlags))
	t.RawSetString("offset", lua.LNumber(ctx.Offset))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_damage_scale error", zap.Error(err))
		return DamageScaleResult{Amount: ctx.Base + ctx.Offset}
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return DamageScaleResult{Amount: int32(lua.LVAsNumber(result))}
}

// LevelUpContext packs the inputs the HP/MP growth table hook needs.
type LevelUpContext struct {
	Profession string
	NewLevel   int32
	Vitality   int32
}

// LevelUpResult is the Lua-computed HP/MP gain for reaching NewLevel.
type LevelUpResult struct {
	HPGain int32
	MPGain int32
}

// CalcLevelUp calls the Lua `calc_level_up` function, falling back to a
// flat +10 HP/+5 MP if the script is missing or errors.
func (e *Engine) CalcLevelUp(ctx LevelUpContext) LevelUpResult {
	fn := e.vm.GetGlobal("calc_level_up")
	if fn == lua.LNil {
		return LevelUpResult{HPGain: 10, MPGain: 5}
	}

	t := e.vm.NewTable()
	t.RawSetString("profession", lua.LString(ctx.Profession))
	t.RawSetString("new_level", lua.LNumber(ctx.NewLevel))
	t.RawSetString("vitality", lua.LNumber(ctx.Vitality))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_level_up error", zap.Error(err))
		return LevelUpResult{HPGain: 10, MPGain: 5}
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	rt, ok := result.(*lua.LTable)
	if !ok {
		return LevelUpResult{HPGain: 10, MPGain: 5}
	}
	return LevelUpResult{
		HPGain: int32(lua.LVAsNumber(rt.RawGetString("hp_gain"))),
		MPGain: int32(lua.LVAsNumber(rt.RawGetString("mp_gain"))),
	}
}

// AITieBreakContext packs one candidate target's scoring inputs for the
// monster AI's strategy-weight tie-break (spec §4.5 step 1).
type AITieBreakContext struct {
	Distance      int32
	DamageDealt   int32
	IsAggroLeader bool
}

// CalcAITieBreakScore calls the Lua `calc_ai_tiebreak_score` function,
// falling back to a distance-only score (closer is better) if the script
// is missing or errors.
func (e *Engine) CalcAITieBreakScore(ctx AITieBreakContext) int32 {
	fn := e.vm.GetGlobal("calc_ai_tiebreak_score")
	if fn == lua.LNil {
		return -ctx.Distance
	}

	t := e.vm.NewTable()
	t.RawSetString("distance", lua.LNumber(ctx.Distance))
	t.RawSetString("damage_dealt", lua.LNumber(ctx.DamageDealt))
	aggro := lua.LFalse
	if ctx.IsAggroLeader {
		aggro = lua.LTrue
	}
	t.RawSetString("is_aggro_leader", aggro)

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_ai_tiebreak_score error", zap.Error(err))
		return -ctx.Distance
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int32(lua.LVAsNumber(result))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
