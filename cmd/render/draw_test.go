package main

import (
	"os"
	"path/filepath"
	"testing"

	"swarm-survivor/internal/config"
	"swarm-survivor/internal/game"
)

// TestRenderFrameWritesPNG runs a short scripted slice of a run and renders
// one frame from the live snapshot
func TestRenderFrameWritesPNG(t *testing.T) {
	engine := game.NewEngine(game.EngineConfig{Seed: 42})
	if !engine.StartGame() {
		t.Fatal("Engine refused to start")
	}

	// A few seconds of sim so enemies and projectiles are on screen
	for tick := 0; tick < 200; tick++ {
		engine.SetInput(scriptedInput(tick, 60))
		engine.Tick(1000.0 / 60.0)
	}

	world := config.DefaultWorld()
	r := newRenderer(int(world.Width), int(world.Height))

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := r.renderFrame(engine.Snapshot(), path); err != nil {
		t.Fatalf("renderFrame failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected a frame on disk: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected a non-empty PNG")
	}
}

// TestParseHexColor verifies palette strings decode with a white fallback
func TestParseHexColor(t *testing.T) {
	c := parseHexColor("#e74c3c")
	if c.R != 0xe7 || c.G != 0x4c || c.B != 0x3c {
		t.Errorf("Expected e7/4c/3c, got %02x/%02x/%02x", c.R, c.G, c.B)
	}

	c = parseHexColor("red")
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Expected white fallback, got %v", c)
	}
}

// TestScriptedInputCycles verifies the walk script visits all four headings
// and wraps around
func TestScriptedInputCycles(t *testing.T) {
	tickRate := 60
	legTicks := tickRate * 5 / 2

	if in := scriptedInput(0, tickRate); !in.Right {
		t.Errorf("Expected leg 0 to head right, got %+v", in)
	}
	if in := scriptedInput(legTicks, tickRate); !in.Down {
		t.Errorf("Expected leg 1 to head down, got %+v", in)
	}
	if in := scriptedInput(legTicks*2, tickRate); !in.Left {
		t.Errorf("Expected leg 2 to head left, got %+v", in)
	}
	if in := scriptedInput(legTicks*3, tickRate); !in.Up {
		t.Errorf("Expected leg 3 to head up, got %+v", in)
	}
	if in := scriptedInput(legTicks*4, tickRate); !in.Right {
		t.Errorf("Expected the script to wrap back to right, got %+v", in)
	}
}
