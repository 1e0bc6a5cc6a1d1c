// =============================================================================
// SWARM SURVIVOR - HEADLESS RENDERER
// =============================================================================
// This standalone tool runs a scripted, fully deterministic game and renders
// PNG frames from engine snapshots. No window, no server, no wall clock:
// ticks advance at a fixed delta, so the same seed always produces the same
// frames. Useful for eyeballing balance changes and for render regression
// diffs.
//
// USAGE:
//   go run ./cmd/render
//   RENDER_SECONDS=60 RENDER_SEED=7 go run ./cmd/render
// =============================================================================
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"swarm-survivor/internal/config"
	"swarm-survivor/internal/game"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}

	log.Println("================================")
	log.Println("  SWARM SURVIVOR - RENDERER")
	log.Println("  Scripted deterministic run")
	log.Println("================================")

	outDir := getEnvWithDefault("RENDER_OUT", "frames")
	seconds := getEnvInt("RENDER_SECONDS", 30)
	frameRate := getEnvInt("RENDER_FPS", 10)
	seed := int64(getEnvInt("RENDER_SEED", 42))
	tickRate := getEnvInt("TICK_RATE", 60)

	world := config.WorldFromEnv()
	balance := config.BalanceFromEnv()

	log.Printf("Output: %s (%d FPS for %ds, seed %d)", outDir, frameRate, seconds, seed)
	log.Printf("World: %dx%d @ %d TPS", int(world.Width), int(world.Height), tickRate)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	engine := game.NewEngine(game.EngineConfig{
		World:   world,
		Balance: balance,
		Seed:    seed,
	})

	if !engine.StartGame() {
		log.Fatal("Engine refused to start")
	}

	r := newRenderer(int(world.Width), int(world.Height))

	dt := 1000.0 / float64(tickRate)
	totalTicks := seconds * tickRate
	ticksPerFrame := tickRate / frameRate
	if ticksPerFrame < 1 {
		ticksPerFrame = 1
	}

	frames := 0
	for tick := 0; tick < totalTicks; tick++ {
		engine.SetInput(scriptedInput(tick, tickRate))
		engine.Tick(dt)

		// The script has no opinion on builds: take the first offer
		snap := engine.Snapshot()
		if snap.Phase == "LEVEL_UP" && len(snap.Offered) > 0 {
			engine.SelectUpgrade(snap.Offered[0].ID)
		}

		if snap.Phase == "GAME_OVER" {
			log.Printf("Run ended at tick %d", tick)
			break
		}

		if tick%ticksPerFrame == 0 {
			name := filepath.Join(outDir, fmt.Sprintf("frame-%05d.png", frames))
			if err := r.renderFrame(engine.Snapshot(), name); err != nil {
				log.Fatalf("Failed to write %s: %v", name, err)
			}
			frames++
		}
	}

	final := engine.Snapshot()
	log.Printf("Wrote %d frames to %s", frames, outDir)
	log.Printf("Final: score=%d kills=%d level=%d survived=%.1fs",
		final.HUD.Score, final.HUD.Kills, final.HUD.Level, final.HUD.SurvivalTime/1000)
}

// scriptedInput walks the player in a slow square so frames cover the arena.
// Deterministic by construction: it depends only on the tick index.
func scriptedInput(tick, tickRate int) game.InputState {
	// Change heading every 2.5 seconds
	leg := (tick / (tickRate * 5 / 2)) % 4
	switch leg {
	case 0:
		return game.InputState{Right: true}
	case 1:
		return game.InputState{Down: true}
	case 2:
		return game.InputState{Left: true}
	default:
		return game.InputState{Up: true}
	}
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
