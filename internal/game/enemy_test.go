package game

import (
	"math"
	"testing"

	"swarm-survivor/internal/config"
)

// TestEnemyKindString verifies the variant names used in snapshots and events
func TestEnemyKindString(t *testing.T) {
	tests := []struct {
		kind EnemyKind
		want string
	}{
		{EnemyBasic, "basic"},
		{EnemyFast, "fast"},
		{EnemyTank, "tank"},
		{EnemyBoss, "boss"},
		{EnemyKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

// TestBaseStatsFor verifies each variant maps to its configured stats
func TestBaseStatsFor(t *testing.T) {
	bal := config.DefaultBalance()

	if got := BaseStatsFor(EnemyBasic, bal); got.Health != 30 {
		t.Errorf("Expected basic health 30, got %v", got.Health)
	}
	if got := BaseStatsFor(EnemyFast, bal); got.Speed != 150 {
		t.Errorf("Expected fast speed 150, got %v", got.Speed)
	}
	if got := BaseStatsFor(EnemyTank, bal); got.Health != 80 {
		t.Errorf("Expected tank health 80, got %v", got.Health)
	}
	if got := BaseStatsFor(EnemyBoss, bal); got.XP != 50 {
		t.Errorf("Expected boss XP 50, got %v", got.XP)
	}
}

// TestNewEnemyBaseStats verifies a multiplier of 1.0 leaves base stats intact
func TestNewEnemyBaseStats(t *testing.T) {
	bal := config.DefaultBalance()
	e := NewEnemy(EnemyBasic, Vector2{X: 100, Y: 200}, bal, 1.0)

	if e.Health != 30 || e.MaxHealth != 30 {
		t.Errorf("Expected health 30/30, got %v/%v", e.Health, e.MaxHealth)
	}
	if e.Damage != 10 {
		t.Errorf("Expected damage 10, got %v", e.Damage)
	}
	if e.XPValue != 5 {
		t.Errorf("Expected XP value 5, got %v", e.XPValue)
	}
	if e.Speed != 80 {
		t.Errorf("Expected speed 80, got %v", e.Speed)
	}
	if e.Size != 15 {
		t.Errorf("Expected size 15, got %v", e.Size)
	}
	if e.Color != "#e74c3c" {
		t.Errorf("Expected color #e74c3c, got %s", e.Color)
	}
}

// TestNewEnemyDifficultyScaling verifies health/damage/xp scale linearly
// while size and speed scale by the square root
func TestNewEnemyDifficultyScaling(t *testing.T) {
	bal := config.DefaultBalance()
	e := NewEnemy(EnemyBasic, Vector2{}, bal, 4.0)

	if e.Health != 120 {
		t.Errorf("Expected health 30*4=120, got %v", e.Health)
	}
	if e.Damage != 40 {
		t.Errorf("Expected damage 10*4=40, got %v", e.Damage)
	}
	if e.XPValue != 20 {
		t.Errorf("Expected XP 5*4=20, got %v", e.XPValue)
	}
	// sqrt(4) = 2
	if e.Size != 30 {
		t.Errorf("Expected size 15*2=30, got %v", e.Size)
	}
	if e.Speed != 160 {
		t.Errorf("Expected speed 80*2=160, got %v", e.Speed)
	}
}

// TestEnemySteerToward verifies homing points the velocity at the target
func TestEnemySteerToward(t *testing.T) {
	bal := config.DefaultBalance()
	e := NewEnemy(EnemyBasic, Vector2{X: 0, Y: 0}, bal, 1.0)

	e.SteerToward(Vector2{X: 100, Y: 0})
	if math.Abs(e.Vel.X-e.Speed) > 1e-9 || math.Abs(e.Vel.Y) > 1e-9 {
		t.Errorf("Expected velocity (%v, 0), got (%v, %v)", e.Speed, e.Vel.X, e.Vel.Y)
	}

	e.Move(1000)
	if math.Abs(e.Pos.X-e.Speed) > 1e-9 {
		t.Errorf("Expected to travel %vpx in one second, got %v", e.Speed, e.Pos.X)
	}
}

// TestEnemyTakeDamageKillsOnce verifies death fires exactly once even if
// more damage arrives afterwards
func TestEnemyTakeDamageKillsOnce(t *testing.T) {
	bal := config.DefaultBalance()
	e := NewEnemy(EnemyBasic, Vector2{}, bal, 1.0)

	if killed := e.TakeDamage(10); killed {
		t.Error("10 damage on 30 health should not kill")
	}
	if e.Health != 20 {
		t.Errorf("Expected health 20, got %v", e.Health)
	}

	if killed := e.TakeDamage(25); !killed {
		t.Error("Lethal damage should report the kill")
	}
	if e.Health != 0 {
		t.Errorf("Expected health clamped at 0, got %v", e.Health)
	}

	if killed := e.TakeDamage(100); killed {
		t.Error("A dead enemy must not report a second kill")
	}
}
