package game

import (
	"swarm-survivor/internal/config"
)

// DifficultyState is the time-driven ratchet: every step interval of playing
// time the multiplier rises, the spawn interval tightens and the population
// cap grows. Values never move the other way for the lifetime of a run.
type DifficultyState struct {
	Multiplier    float64 `json:"multiplier"`
	SpawnInterval float64 `json:"spawnInterval"` // ms, floor-bounded
	MaxPopulation int     `json:"maxPopulation"` // cap-bounded

	// accumulator counts playing-time ms since the last step. It is distinct
	// from the HUD survival clock and resets on every firing.
	accumulator float64

	cfg   config.DifficultyBalance
	spawn config.SpawnBalance
}

// NewDifficultyState returns the run-start difficulty.
func NewDifficultyState(bal config.Balance) DifficultyState {
	return DifficultyState{
		Multiplier:    1.0,
		SpawnInterval: bal.Spawn.InitialInterval,
		MaxPopulation: bal.Spawn.InitialMaxPop,
		cfg:           bal.Difficulty,
		spawn:         bal.Spawn,
	}
}

// Advance accumulates playing time and applies at most one ratchet step.
// Returns true when a step fired this call.
func (d *DifficultyState) Advance(dt float64) bool {
	d.accumulator += dt
	if d.accumulator < d.cfg.StepInterval {
		return false
	}
	d.accumulator = 0

	d.Multiplier += d.cfg.MultiplierStep

	d.SpawnInterval *= d.spawn.IntervalFactor
	if d.SpawnInterval < d.spawn.MinInterval {
		d.SpawnInterval = d.spawn.MinInterval
	}

	d.MaxPopulation += d.spawn.MaxPopStep
	if d.MaxPopulation > d.spawn.MaxPopCap {
		d.MaxPopulation = d.spawn.MaxPopCap
	}

	return true
}
