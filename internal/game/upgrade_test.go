package game

import (
	"math"
	"math/rand"
	"testing"

	"swarm-survivor/internal/config"
)

// TestUpgradeCatalog verifies the catalog is consistent with its keys and
// the draft order covers it
func TestUpgradeCatalog(t *testing.T) {
	if len(Upgrades) != 6 {
		t.Errorf("Expected 6 upgrades in the catalog, got %d", len(Upgrades))
	}
	if len(draftOrder) != len(Upgrades) {
		t.Errorf("Draft order lists %d ids, catalog has %d", len(draftOrder), len(Upgrades))
	}

	for id, u := range Upgrades {
		if u.ID != id {
			t.Errorf("Catalog key %q holds upgrade with ID %q", id, u.ID)
		}
		if u.Name == "" || u.Description == "" {
			t.Errorf("Upgrade %q is missing display strings", id)
		}
	}

	if _, ok := GetUpgrade("damage"); !ok {
		t.Error("Expected to find the damage upgrade")
	}
	if _, ok := GetUpgrade("nothing"); ok {
		t.Error("Unknown id should not resolve")
	}
}

// TestDraftUpgrades verifies a draft has three distinct catalog entries
func TestDraftUpgrades(t *testing.T) {
	offered := DraftUpgrades(rand.New(rand.NewSource(21)))

	if len(offered) != DraftSize {
		t.Fatalf("Expected %d upgrades, got %d", DraftSize, len(offered))
	}
	seen := make(map[string]bool)
	for _, u := range offered {
		if seen[u.ID] {
			t.Errorf("Duplicate %q in draft", u.ID)
		}
		seen[u.ID] = true
	}
}

// TestDraftUpgradesDeterministic verifies equal seeds draft equal cards,
// which replay depends on
func TestDraftUpgradesDeterministic(t *testing.T) {
	a := DraftUpgrades(rand.New(rand.NewSource(42)))
	b := DraftUpgrades(rand.New(rand.NewSource(42)))

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("Draft diverged at slot %d: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

// TestApplyUpgrade verifies each upgrade's exact stat mutation
func TestApplyUpgrade(t *testing.T) {
	bal := config.DefaultBalance()
	base := NewPlayer(Vector2{X: 640, Y: 360}, bal.Player, bal.Progression)

	tests := []struct {
		name  string
		kind  UpgradeKind
		check func(t *testing.T, p Player)
	}{
		{"damage +25%", UpgradeDamage, func(t *testing.T, p Player) {
			if math.Abs(p.AttackDamage-31.25) > 1e-9 {
				t.Errorf("Expected attack damage 31.25, got %v", p.AttackDamage)
			}
		}},
		{"attack speed +20%", UpgradeAttackSpeed, func(t *testing.T, p Player) {
			if math.Abs(p.AttackSpeed-2.4) > 1e-9 {
				t.Errorf("Expected attack speed 2.4, got %v", p.AttackSpeed)
			}
		}},
		{"move speed +15%", UpgradeMoveSpeed, func(t *testing.T, p Player) {
			if math.Abs(p.MoveSpeed-230) > 1e-9 {
				t.Errorf("Expected move speed 230, got %v", p.MoveSpeed)
			}
		}},
		{"max health +25", UpgradeMaxHealth, func(t *testing.T, p Player) {
			if p.MaxHealth != 125 {
				t.Errorf("Expected max health 125, got %v", p.MaxHealth)
			}
			if p.Health != 125 {
				t.Errorf("Expected the gained health granted too, got %v", p.Health)
			}
		}},
		{"attack range +20%", UpgradeAttackRange, func(t *testing.T, p Player) {
			if math.Abs(p.AttackRange-300) > 1e-9 {
				t.Errorf("Expected attack range 300, got %v", p.AttackRange)
			}
		}},
		{"pickup radius +30%", UpgradeMagnet, func(t *testing.T, p Player) {
			if math.Abs(p.PickupRadius-97.5) > 1e-9 {
				t.Errorf("Expected pickup radius 97.5, got %v", p.PickupRadius)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ApplyUpgrade(tt.kind, base))
		})
	}
}

// TestApplyUpgradeIsPure verifies the input player is never modified
func TestApplyUpgradeIsPure(t *testing.T) {
	bal := config.DefaultBalance()
	base := NewPlayer(Vector2{X: 640, Y: 360}, bal.Player, bal.Progression)
	snapshot := base

	ApplyUpgrade(UpgradeDamage, base)
	ApplyUpgrade(UpgradeMaxHealth, base)

	if base != snapshot {
		t.Error("ApplyUpgrade must not mutate its input")
	}
}

// TestMaxHealthUpgradeOnDamagedPlayer verifies the heal portion stacks on
// current health rather than topping it off
func TestMaxHealthUpgradeOnDamagedPlayer(t *testing.T) {
	bal := config.DefaultBalance()
	p := NewPlayer(Vector2{X: 640, Y: 360}, bal.Player, bal.Progression)
	p.Health = 40

	got := ApplyUpgrade(UpgradeMaxHealth, p)
	if got.MaxHealth != 125 {
		t.Errorf("Expected max health 125, got %v", got.MaxHealth)
	}
	if got.Health != 65 {
		t.Errorf("Expected health 40+25=65, got %v", got.Health)
	}
}
