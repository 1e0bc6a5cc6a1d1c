package game

import (
	"math"
	"math/rand"
	"testing"

	"swarm-survivor/internal/config"
)

func newProgressionFixture(seed int64) (*ProgressionSystem, *EntityStore) {
	bal := config.DefaultBalance()
	limits := config.DefaultLimits()
	store := NewEntityStore(limits)
	store.Player = NewPlayer(Vector2{X: 640, Y: 360}, bal.Player, bal.Progression)
	return NewProgressionSystem(bal, limits, rand.New(rand.NewSource(seed))), store
}

// TestKillScoring verifies a kill counts, scores floor(xp*10) and drops
// one orb at the death position
func TestKillScoring(t *testing.T) {
	ps, store := newProgressionFixture(1)
	e := stationaryEnemy(Vector2{X: 500, Y: 300}, 30)

	ps.OnEnemyKilled(&e, store)

	if ps.Kills != 1 {
		t.Errorf("Expected 1 kill, got %d", ps.Kills)
	}
	if ps.Score != 50 {
		t.Errorf("Expected score 50 for a 5 XP kill, got %d", ps.Score)
	}
	if len(store.Orbs) != 1 {
		t.Fatalf("Expected 1 orb dropped, got %d", len(store.Orbs))
	}
	if store.Orbs[0].Pos != e.Pos {
		t.Errorf("Expected orb at the death position (%v, %v), got (%v, %v)",
			e.Pos.X, e.Pos.Y, store.Orbs[0].Pos.X, store.Orbs[0].Pos.Y)
	}
	if store.Orbs[0].Value != 5 {
		t.Errorf("Expected orb value 5, got %v", store.Orbs[0].Value)
	}
}

// TestOrbPickupRadius verifies orbs outside the pickup radius sit still
// and orbs inside start homing
func TestOrbPickupRadius(t *testing.T) {
	ps, store := newProgressionFixture(1)

	far := NewXPOrb(Vector2{X: 640 + 80, Y: 360}, 5, config.DefaultBalance().Orb)  // outside 75px
	near := NewXPOrb(Vector2{X: 640 + 60, Y: 360}, 5, config.DefaultBalance().Orb) // inside
	store.SpawnOrb(far)
	store.SpawnOrb(near)

	ps.UpdateOrbs(16.0, store)

	if store.Orbs[0].IsBeingCollected {
		t.Error("Orb outside the pickup radius should not be collecting")
	}
	if store.Orbs[0].Pos.X != 720 {
		t.Errorf("Idle orb should not move, got X %v", store.Orbs[0].Pos.X)
	}
	if !store.Orbs[1].IsBeingCollected {
		t.Error("Orb inside the pickup radius should be collecting")
	}
	if store.Orbs[1].Pos.X >= 700 {
		t.Errorf("Collecting orb should home toward the player, got X %v", store.Orbs[1].Pos.X)
	}
}

// TestOrbStickyCollection verifies an orb keeps chasing once triggered,
// even after the player leaves the radius
func TestOrbStickyCollection(t *testing.T) {
	ps, store := newProgressionFixture(1)
	store.SpawnOrb(NewXPOrb(Vector2{X: 640 + 60, Y: 360}, 5, config.DefaultBalance().Orb))

	ps.UpdateOrbs(16.0, store)
	if !store.Orbs[0].IsBeingCollected {
		t.Fatal("Orb should be collecting")
	}

	// Player teleports far away; the orb keeps coming
	store.Player.Pos = Vector2{X: 100, Y: 100}
	before := store.Orbs[0].Pos.DistanceTo(store.Player.Pos)
	ps.UpdateOrbs(16.0, store)

	if !store.Orbs[0].IsBeingCollected {
		t.Error("Collection is sticky; the orb should still be chasing")
	}
	after := store.Orbs[0].Pos.DistanceTo(store.Player.Pos)
	if after >= before {
		t.Errorf("Expected the orb to close distance, %v -> %v", before, after)
	}
}

// TestOrbCollection verifies touching an orb credits its XP and tombstones it
func TestOrbCollection(t *testing.T) {
	ps, store := newProgressionFixture(1)
	store.SpawnOrb(NewXPOrb(store.Player.Pos, 5, config.DefaultBalance().Orb))

	collected := ps.UpdateOrbs(16.0, store)

	if collected != 5 {
		t.Errorf("Expected 5 XP collected, got %v", collected)
	}
	if store.Player.XP != 5 {
		t.Errorf("Expected player XP 5, got %v", store.Player.XP)
	}
	if !store.Orbs[0].Collected() {
		t.Error("Touched orb should be tombstoned")
	}

	store.SweepDead()
	if len(store.Orbs) != 0 {
		t.Errorf("Expected the collected orb swept, got %d orbs", len(store.Orbs))
	}
}

// TestLevelUpOverflowAndThreshold verifies one level per call, XP carry-over
// and the growing threshold
func TestLevelUpOverflowAndThreshold(t *testing.T) {
	ps, store := newProgressionFixture(1)
	store.Player.XP = 27 // enough for two levels (10, then 15)

	if !ps.CheckLevelUp(&store.Player) {
		t.Fatal("Expected a level-up at 27 XP")
	}
	if store.Player.Level != 2 {
		t.Errorf("Expected level 2, got %d", store.Player.Level)
	}
	if store.Player.XP != 17 {
		t.Errorf("Expected 17 XP carried over, got %v", store.Player.XP)
	}
	if store.Player.XPToNextLevel != 15 {
		t.Errorf("Expected threshold 15, got %v", store.Player.XPToNextLevel)
	}

	// The surplus pays for the next level on the following check
	if !ps.CheckLevelUp(&store.Player) {
		t.Fatal("Expected a second level-up from the carried XP")
	}
	if store.Player.Level != 3 {
		t.Errorf("Expected level 3, got %d", store.Player.Level)
	}
	if store.Player.XP != 2 {
		t.Errorf("Expected 2 XP left, got %v", store.Player.XP)
	}
	if store.Player.XPToNextLevel != 22.5 {
		t.Errorf("Expected threshold 22.5, got %v", store.Player.XPToNextLevel)
	}

	if ps.CheckLevelUp(&store.Player) {
		t.Error("2 XP should not level up again")
	}
}

// TestLevelUpHeal verifies the flat heal on level-up, capped at max health
func TestLevelUpHeal(t *testing.T) {
	ps, store := newProgressionFixture(1)
	store.Player.Health = 65
	store.Player.XP = 10

	ps.CheckLevelUp(&store.Player)
	if store.Player.Health != 85 {
		t.Errorf("Expected health 65+20=85, got %v", store.Player.Health)
	}

	store.Player.Health = 95
	store.Player.XP = store.Player.XPToNextLevel
	ps.CheckLevelUp(&store.Player)
	if store.Player.Health != 100 {
		t.Errorf("Expected heal capped at 100, got %v", store.Player.Health)
	}
}

// TestLevelUpDraft verifies each level-up offers three distinct upgrades
func TestLevelUpDraft(t *testing.T) {
	ps, store := newProgressionFixture(3)
	store.Player.XP = 10

	ps.CheckLevelUp(&store.Player)
	offered := ps.Offered()

	if len(offered) != DraftSize {
		t.Fatalf("Expected %d offered upgrades, got %d", DraftSize, len(offered))
	}
	seen := make(map[string]bool)
	for _, u := range offered {
		if seen[u.ID] {
			t.Errorf("Duplicate upgrade %q in the draft", u.ID)
		}
		seen[u.ID] = true
		if _, ok := GetUpgrade(u.ID); !ok {
			t.Errorf("Offered upgrade %q is not in the catalog", u.ID)
		}
	}
}

// TestSelectUpgrade verifies applying an offered upgrade and the stale-id
// rejection
func TestSelectUpgrade(t *testing.T) {
	ps, store := newProgressionFixture(5)
	store.Player.XP = 10
	ps.CheckLevelUp(&store.Player)

	// A stale or bogus id leaves the draft open
	if _, ok := ps.SelectUpgrade("not_a_real_upgrade", &store.Player); ok {
		t.Error("Unknown upgrade id should be rejected")
	}
	if len(ps.Offered()) != DraftSize {
		t.Error("Rejected selection should leave the draft intact")
	}

	pick := ps.Offered()[0]
	want := ApplyUpgrade(pick.Kind, store.Player)

	chosen, ok := ps.SelectUpgrade(pick.ID, &store.Player)
	if !ok {
		t.Fatalf("Expected selection of %q to succeed", pick.ID)
	}
	if chosen.ID != pick.ID {
		t.Errorf("Expected chosen %q, got %q", pick.ID, chosen.ID)
	}
	if store.Player != want {
		t.Error("Player stats do not match the upgrade's effect")
	}
	if ps.Offered() != nil {
		t.Error("Draft should be cleared after a selection")
	}
	if got := ps.Chosen(); len(got) != 1 || got[0] != pick.ID {
		t.Errorf("Expected chosen history [%q], got %v", pick.ID, got)
	}

	// The draft is gone; a second selection has nothing to apply
	if _, ok := ps.SelectUpgrade(pick.ID, &store.Player); ok {
		t.Error("Selection without an open draft should fail")
	}
}

// TestProgressionReset verifies run-scoped state clears for a new run
func TestProgressionReset(t *testing.T) {
	ps, store := newProgressionFixture(7)
	store.Player.XP = 10
	ps.CheckLevelUp(&store.Player)
	ps.SelectUpgrade(ps.Offered()[0].ID, &store.Player)
	ps.Score = 123
	ps.Kills = 4

	ps.Reset()

	if ps.Score != 0 || ps.Kills != 0 {
		t.Errorf("Expected score and kills reset, got %d / %d", ps.Score, ps.Kills)
	}
	if ps.Offered() != nil {
		t.Error("Expected no open draft after reset")
	}
	if ps.Chosen() != nil {
		t.Error("Expected empty upgrade history after reset")
	}
}

// TestScoreFloors verifies fractional XP values floor when scored
func TestScoreFloors(t *testing.T) {
	ps, store := newProgressionFixture(1)
	e := stationaryEnemy(Vector2{X: 500, Y: 300}, 30)
	e.XPValue = 5 * 1.3 // a difficulty-scaled drop

	ps.OnEnemyKilled(&e, store)

	want := int(math.Floor(e.XPValue * 10))
	if ps.Score != want {
		t.Errorf("Expected score %d, got %d", want, ps.Score)
	}
}
