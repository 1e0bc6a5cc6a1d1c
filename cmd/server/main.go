package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"swarm-survivor/internal/api"
	"swarm-survivor/internal/config"
	"swarm-survivor/internal/game"
	"swarm-survivor/internal/score"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file, falling back to the repo root when run from cmd/server
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  SWARM SURVIVOR - SIM CORE")
	log.Println("🎮 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server
	limits := appConfig.Limits

	log.Printf("🎮 Config: %d TPS, %.0fms delta clamp, %dx%d world, snapshots at %d Hz",
		serverCfg.TickRate, serverCfg.MaxDeltaMS,
		int(appConfig.World.Width), int(appConfig.World.Height), serverCfg.SnapshotHz)
	log.Printf("🛡️ Resource limits: %d enemies, %d projectiles, %d orbs",
		limits.MaxEnemies, limits.MaxProjectiles, limits.MaxOrbs)

	// Score store: Badger on disk when a path is set, otherwise memory-only
	var scores score.Store
	if appConfig.Store.Path != "" {
		badgerStore, err := score.NewBadgerStore(appConfig.Store.Path)
		if err != nil {
			log.Printf("⚠️ Score DB unavailable, falling back to memory: %v", err)
			scores = score.NewMemoryStore()
		} else {
			scores = badgerStore
			log.Printf("💾 Score store: %s", appConfig.Store.Path)
		}
	} else {
		scores = score.NewMemoryStore()
		log.Println("💾 Score store: in-memory (set SCORE_DB_PATH to persist)")
	}

	// Create game engine with centralized config
	engine := game.NewEngine(game.EngineConfig{
		World:    appConfig.World,
		Balance:  appConfig.Balance,
		Limits:   limits,
		EventLog: appConfig.EventLog,
		Store:    scores,
	})

	// Start event log
	if err := engine.StartEventLog(); err != nil {
		log.Printf("⚠️ Event log journal disabled: %v", err)
	} else if appConfig.EventLog.Dir != "" {
		log.Printf("📝 Event log: %s", appConfig.EventLog.Dir)
	} else {
		log.Println("📝 Event log: memory ring only (set EVENT_LOG_DIR to persist)")
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Wire engine events into metrics
	engine.SetCallbacks(game.Callbacks{
		OnPhaseChange: func(from, to game.Phase) {
			if to == game.PhaseLevelUp {
				api.RecordLevelUp()
			}
		},
		OnSpawn: func(kind game.EnemyKind) {
			api.RecordSpawn(kind.String())
		},
		OnKill: func(kind game.EnemyKind) {
			api.RecordKill()
		},
		OnGameOver: func(rec score.RunRecord) {
			api.RecordRunEnded()
			api.UpdateHighScore(engine.HighScore())
		},
	})

	// The tick observer feeds the gauges; counts come from the lock-free snapshot
	loop := game.NewLoop(engine, serverCfg)
	var observed uint64
	loop.SetTickObserver(func(dtMS float64, took time.Duration) {
		api.RecordTick(took)

		snap := engine.Snapshot()
		api.UpdateEntityCounts(len(snap.Enemies), len(snap.Projectiles), len(snap.Orbs))

		observed++
		if observed%uint64(serverCfg.TickRate) == 0 {
			api.UpdateEventLogStats(engine.EventLogCounts())
		}
	})

	api.UpdateHighScore(engine.HighScore())

	// Create API server
	server := api.NewServer(engine, scores, serverCfg.SnapshotHz)

	// Start simulation loop
	loop.Start()

	// Start API server in goroutine
	addr := ":" + strconv.Itoa(serverCfg.Port)
	go func() {
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Optionally skip the menu for unattended runs
	if os.Getenv("AUTO_START") == "true" {
		engine.StartGame()
	}

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	loop.Stop()
	engine.StopEventLog()
	if err := scores.Close(); err != nil {
		log.Printf("⚠️ Score store close: %v", err)
	}
	log.Println("👋 Goodbye!")
}
