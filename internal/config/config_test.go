package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultBalance spot-checks the shipped tuning
func TestDefaultBalance(t *testing.T) {
	bal := DefaultBalance()

	if bal.Player.MaxHealth != 100 {
		t.Errorf("Expected player max health 100, got %v", bal.Player.MaxHealth)
	}
	if bal.Player.AttackRange != 250 {
		t.Errorf("Expected attack range 250, got %v", bal.Player.AttackRange)
	}
	if bal.Spawn.InitialInterval != 2000 {
		t.Errorf("Expected initial spawn interval 2000ms, got %v", bal.Spawn.InitialInterval)
	}
	if bal.Difficulty.StepInterval != 30000 {
		t.Errorf("Expected difficulty step every 30s, got %v", bal.Difficulty.StepInterval)
	}
	if bal.Progression.InitialXPToNext != 10 {
		t.Errorf("Expected first level at 10 XP, got %v", bal.Progression.InitialXPToNext)
	}
	if bal.Boss.Health != 300 {
		t.Errorf("Expected boss health 300, got %v", bal.Boss.Health)
	}
}

// TestBalanceFromFileOverlay verifies a partial YAML file overrides only
// the fields it names
func TestBalanceFromFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	data := []byte("player:\n  max_health: 150\nfast:\n  speed: 180\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write balance file: %v", err)
	}

	bal, err := BalanceFromFile(path)
	if err != nil {
		t.Fatalf("BalanceFromFile failed: %v", err)
	}

	if bal.Player.MaxHealth != 150 {
		t.Errorf("Expected overridden max health 150, got %v", bal.Player.MaxHealth)
	}
	if bal.Player.MoveSpeed != 200 {
		t.Errorf("Expected untouched move speed 200, got %v", bal.Player.MoveSpeed)
	}
	if bal.Fast.Speed != 180 {
		t.Errorf("Expected overridden fast speed 180, got %v", bal.Fast.Speed)
	}
	if bal.Fast.Health != 15 {
		t.Errorf("Expected untouched fast health 15, got %v", bal.Fast.Health)
	}
}

// TestBalanceFromFileMissing verifies a missing file reports an error and
// keeps the defaults
func TestBalanceFromFileMissing(t *testing.T) {
	bal, err := BalanceFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Expected an error for a missing file")
	}
	if bal.Player.MaxHealth != 100 {
		t.Errorf("Expected defaults back, got max health %v", bal.Player.MaxHealth)
	}
}

// TestBalanceFromEnvBrokenFile verifies a broken overlay file falls back
// to the defaults instead of failing startup
func TestBalanceFromEnvBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("player: [not: a: mapping"), 0644); err != nil {
		t.Fatalf("write balance file: %v", err)
	}
	t.Setenv("SURVIVOR_BALANCE_FILE", path)

	bal := BalanceFromEnv()
	if bal.Player.MaxHealth != 100 {
		t.Errorf("Expected defaults on a broken file, got max health %v", bal.Player.MaxHealth)
	}
}

// TestWorldFromEnv verifies dimension overrides
func TestWorldFromEnv(t *testing.T) {
	t.Setenv("WORLD_WIDTH", "1920")

	cfg := WorldFromEnv()
	if cfg.Width != 1920 {
		t.Errorf("Expected width 1920, got %v", cfg.Width)
	}
	if cfg.Height != 720 {
		t.Errorf("Expected default height 720, got %v", cfg.Height)
	}
}

// TestServerFromEnv verifies env overrides and that junk values keep the
// defaults
func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TICK_RATE", "30")
	t.Setenv("MAX_DELTA_MS", "not-a-number")

	cfg := ServerFromEnv()
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.TickRate != 30 {
		t.Errorf("Expected tick rate 30, got %d", cfg.TickRate)
	}
	if cfg.MaxDeltaMS != 100 {
		t.Errorf("Expected default delta clamp 100, got %v", cfg.MaxDeltaMS)
	}
	if cfg.SnapshotHz != 10 {
		t.Errorf("Expected default snapshot rate 10, got %d", cfg.SnapshotHz)
	}
}

// TestEventLogFromEnv verifies the journal overrides, including disabling
// tick sampling with an explicit zero
func TestEventLogFromEnv(t *testing.T) {
	t.Setenv("EVENT_LOG_DIR", "/tmp/events")
	t.Setenv("EVENT_LOG_TICK_EVERY", "0")
	t.Setenv("EVENT_LOG_SEGMENT_MB", "16")

	cfg := EventLogFromEnv()
	if cfg.Dir != "/tmp/events" {
		t.Errorf("Expected dir /tmp/events, got %s", cfg.Dir)
	}
	if cfg.TickLogEvery != 0 {
		t.Errorf("Expected tick sampling disabled, got %d", cfg.TickLogEvery)
	}
	if cfg.MaxSegmentBytes != 16<<20 {
		t.Errorf("Expected 16MiB segments, got %d", cfg.MaxSegmentBytes)
	}
	if cfg.RetainSegments != 8 {
		t.Errorf("Expected default retention 8, got %d", cfg.RetainSegments)
	}
}

// TestLoad verifies the aggregate loader wires every section
func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SCORE_DB_PATH", "/tmp/scores")

	cfg := Load()
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Store.Path != "/tmp/scores" {
		t.Errorf("Expected store path /tmp/scores, got %s", cfg.Store.Path)
	}
	if cfg.World.Width != 1280 {
		t.Errorf("Expected default world width 1280, got %v", cfg.World.Width)
	}
	if cfg.Limits.MaxEnemies != 200 {
		t.Errorf("Expected enemy cap 200, got %d", cfg.Limits.MaxEnemies)
	}
}
