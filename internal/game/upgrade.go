package game

import (
	"math/rand"
)

// UpgradeKind tags one of the fixed stat boosts. Keeping the mutation as a
// tagged kind plus a pure dispatch (instead of a closure on the upgrade)
// keeps upgrades serializable and trivially testable.
type UpgradeKind int

const (
	UpgradeDamage UpgradeKind = iota
	UpgradeAttackSpeed
	UpgradeMoveSpeed
	UpgradeMaxHealth
	UpgradeAttackRange
	UpgradeMagnet
)

// Upgrade balance factors
const (
	DraftSize = 3 // upgrades offered per level-up

	damageFactor       = 1.25
	attackSpeedFactor  = 1.20
	moveSpeedFactor    = 1.15
	maxHealthBonus     = 25.0 // also heals the gained amount
	attackRangeFactor  = 1.20
	pickupRadiusFactor = 1.30
)

// Upgrade describes one entry of the level-up draft.
type Upgrade struct {
	ID          string      `json:"id"`
	Kind        UpgradeKind `json:"-"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
}

// Upgrades is the map of all available upgrades
var Upgrades = map[string]Upgrade{
	"damage": {
		ID:          "damage",
		Kind:        UpgradeDamage,
		Name:        "Sharpened Rounds",
		Description: "+25% attack damage",
		Icon:        "⚔️",
	},
	"attack_speed": {
		ID:          "attack_speed",
		Kind:        UpgradeAttackSpeed,
		Name:        "Rapid Fire",
		Description: "+20% attack speed",
		Icon:        "🔥",
	},
	"move_speed": {
		ID:          "move_speed",
		Kind:        UpgradeMoveSpeed,
		Name:        "Swift Boots",
		Description: "+15% movement speed",
		Icon:        "👟",
	},
	"max_health": {
		ID:          "max_health",
		Kind:        UpgradeMaxHealth,
		Name:        "Iron Heart",
		Description: "+25 max health",
		Icon:        "❤️",
	},
	"attack_range": {
		ID:          "attack_range",
		Kind:        UpgradeAttackRange,
		Name:        "Eagle Eye",
		Description: "+20% attack range",
		Icon:        "🎯",
	},
	"magnet": {
		ID:          "magnet",
		Kind:        UpgradeMagnet,
		Name:        "XP Magnet",
		Description: "+30% pickup radius",
		Icon:        "🧲",
	},
}

// draftOrder fixes the catalog order for seeded drafts (map iteration order
// is randomized per process).
var draftOrder = []string{
	"damage",
	"attack_speed",
	"move_speed",
	"max_health",
	"attack_range",
	"magnet",
}

// GetUpgrade returns an upgrade by ID.
func GetUpgrade(id string) (Upgrade, bool) {
	u, ok := Upgrades[id]
	return u, ok
}

// DraftUpgrades draws DraftSize distinct upgrades from the catalog without
// replacement (shuffle-and-slice).
func DraftUpgrades(rng *rand.Rand) []Upgrade {
	ids := make([]string, len(draftOrder))
	copy(ids, draftOrder)

	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	offered := make([]Upgrade, 0, DraftSize)
	for _, id := range ids[:DraftSize] {
		offered = append(offered, Upgrades[id])
	}
	return offered
}

// ApplyUpgrade returns the player with one upgrade's stat mutation applied.
// Pure: the input player is not modified.
func ApplyUpgrade(kind UpgradeKind, p Player) Player {
	switch kind {
	case UpgradeDamage:
		p.AttackDamage *= damageFactor
	case UpgradeAttackSpeed:
		p.AttackSpeed *= attackSpeedFactor
	case UpgradeMoveSpeed:
		p.MoveSpeed *= moveSpeedFactor
	case UpgradeMaxHealth:
		p.MaxHealth += maxHealthBonus
		p.Health += maxHealthBonus
		if p.Health > p.MaxHealth {
			p.Health = p.MaxHealth
		}
	case UpgradeAttackRange:
		p.AttackRange *= attackRangeFactor
	case UpgradeMagnet:
		p.PickupRadius *= pickupRadiusFactor
	}
	return p
}
