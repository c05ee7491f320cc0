// Package corepipeline orders the per-tick components the world core
// advances each game tick (spec §4.1: "advances that state on a
// fixed-cadence tick"). It is adapted from the teacher's
// internal/core/system phase runner: the teacher's Phase enum picks an
// execution order for pluggable, independently-registered ECS systems,
// while spec §4.1 instead mandates one fixed, named sequence of twelve
// steps, so Runner here runs a fixed ordered slice of named phases
// rather than sorting registered systems by a comparable Phase value.
package corepipeline

import (
	"time"

	"go.uber.org/zap"
)

// Phase names one step of the tick pipeline, in spec §4.1's exact order.
type Phase int

const (
	PhaseConditions Phase = iota
	PhaseStatusEffects
	PhaseSkillTimers
	PhaseFoodRegen
	PhasePlayerAutowalk
	PhasePlayerAttack
	PhaseMonsters
	PhaseNPCs
	PhaseMonsterHomes
	PhaseRaids
	PhaseMapRefresh
	PhaseCronSystem
	PhaseHouses
)

// String names the phase for logging.
func (p Phase) String() string {
	switch p {
	case PhaseConditions:
		return "conditions"
	case PhaseStatusEffects:
		return "status_effects"
	case PhaseSkillTimers:
		return "skill_timers"
	case PhaseFoodRegen:
		return "food_regen"
	case PhasePlayerAutowalk:
		return "player_autowalk"
	case PhasePlayerAttack:
		return "player_attack"
	case PhaseMonsters:
		return "monsters"
	case PhaseNPCs:
		return "npcs"
	case PhaseMonsterHomes:
		return "monster_homes"
	case PhaseRaids:
		return "raids"
	case PhaseMapRefresh:
		return "map_refresh"
	case PhaseCronSystem:
		return "cron_system"
	case PhaseHouses:
		return "houses"
	default:
		return "unknown"
	}
}

// Step is one registered unit of work for a phase. dt is the elapsed
// wall-clock time since the previous tick; now is the simulation's
// current GameTick-derived timestamp, left as int64 here so this
// package carries no dependency on any clock type upstream packages
// define.
type Step func(now int64, dt time.Duration) error

// Runner executes registered steps in the fixed §4.1 phase order every
// tick, logging each phase's duration and any error at Debug/Warn
// (matching the teacher's one-log-call-per-notable-branch idiom).
type Runner struct {
	steps []registeredStep
	log   *zap.Logger
}

type registeredStep struct {
	phase Phase
	fn    Step
}

// NewRunner returns an empty Runner. log may be nil, in which case a
// no-op logger is used.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Register appends fn to run under phase. Phases run in the fixed order
// above regardless of registration order; steps within the same phase
// run in registration order.
func (r *Runner) Register(phase Phase, fn Step) {
	r.steps = append(r.steps, registeredStep{phase: phase, fn: fn})
}

// Tick runs every registered step once, grouped by phase in §4.1 order.
// A step returning an error aborts only that phase's remaining steps;
// subsequent phases still run, matching spec §7's guidance that a
// failure in one subsystem should not stall the whole tick.
func (r *Runner) Tick(now int64, dt time.Duration) {
	for phase := PhaseConditions; phase <= PhaseHouses; phase++ {
		start := time.Now()
		ran := 0
		for _, s := range r.steps {
			if s.phase != phase {
				continue
			}
			ran++
			if err := s.fn(now, dt); err != nil {
				r.log.Warn("tick phase step failed",
					zap.Stringer("phase", phase),
					zap.Error(err),
				)
				break
			}
		}
		if ran > 0 {
			r.log.Debug("tick phase complete",
				zap.Stringer("phase", phase),
				zap.Int("steps", ran),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	}
}
