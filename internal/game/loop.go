package game

import (
	"log"
	"sync"
	"time"

	"swarm-survivor/internal/config"
)

// Loop drives the engine from a wall-clock ticker. The engine itself never
// clamps deltas, so the loop owns that: frame deltas are floored at zero and
// capped so a stalled host (GC pause, laptop sleep) never becomes a huge
// simulation skip.
type Loop struct {
	mu      sync.Mutex
	engine  *Engine
	running bool

	tickRate   int
	maxDeltaMS float64

	ticker   *time.Ticker
	stopChan chan struct{}
	lastTick time.Time

	// onTick observes every tick (dt fed to the engine, time the tick took).
	// Used for metrics; must be fast.
	onTick func(dtMS float64, took time.Duration)
}

// NewLoop creates a loop driving engine at cfg.TickRate.
func NewLoop(engine *Engine, cfg config.ServerConfig) *Loop {
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = config.DefaultServer().TickRate
	}
	maxDelta := cfg.MaxDeltaMS
	if maxDelta <= 0 {
		maxDelta = config.DefaultServer().MaxDeltaMS
	}

	return &Loop{
		engine:     engine,
		tickRate:   tickRate,
		maxDeltaMS: maxDelta,
		stopChan:   make(chan struct{}),
	}
}

// SetTickObserver installs the per-tick metrics hook.
func (l *Loop) SetTickObserver(fn func(dtMS float64, took time.Duration)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onTick = fn
}

// Start begins ticking. Safe to call once.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.lastTick = time.Now()
	l.ticker = time.NewTicker(time.Second / time.Duration(l.tickRate))
	l.mu.Unlock()

	go func() {
		for {
			select {
			case <-l.ticker.C:
				l.step()
			case <-l.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Simulation loop started at %d TPS (delta clamp %.0fms)", l.tickRate, l.maxDeltaMS)
}

// Stop halts the loop. The engine keeps its state; a stopped loop can not
// be restarted.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false
	l.ticker.Stop()
	close(l.stopChan)
	log.Println("🛑 Simulation loop stopped")
}

// step computes the clamped wall-clock delta and runs one engine tick.
func (l *Loop) step() {
	now := time.Now()

	l.mu.Lock()
	dt := now.Sub(l.lastTick).Seconds() * 1000
	l.lastTick = now
	observer := l.onTick
	l.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	if dt > l.maxDeltaMS {
		dt = l.maxDeltaMS
	}

	start := time.Now()
	l.engine.Tick(dt)

	if observer != nil {
		observer(dt, time.Since(start))
	}
}
