package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with RNG seed
	EventTypePhaseChange
	EventTypeSpawn
	EventTypeKill
	EventTypeLevelUp
	EventTypeUpgrade
	EventTypeOrbCollect
	EventTypeGameOver
	EventTypeHighScore
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the run journal
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Game tick this occurred in
	RunID     string    `json:"runId"`     // Run this event belongs to
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypePhaseChange:
		return "phase_change"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeKill:
		return "kill"
	case EventTypeLevelUp:
		return "level_up"
	case EventTypeUpgrade:
		return "upgrade"
	case EventTypeOrbCollect:
		return "orb_collect"
	case EventTypeGameOver:
		return "game_over"
	case EventTypeHighScore:
		return "high_score"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	RNGSeed     int64   `json:"rngSeed"`
	EnemyCount  int     `json:"enemyCount"`
	DeltaTimeMS float64 `json:"deltaTimeMs"`
}

// PhaseChangePayload records a state machine transition
type PhaseChangePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SpawnPayload contains enemy spawn details
type SpawnPayload struct {
	Kind       string  `json:"kind"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Health     float64 `json:"health"`
	Multiplier float64 `json:"multiplier"`
}

// KillPayload contains enemy kill details
type KillPayload struct {
	Kind    string  `json:"kind"`
	XPValue float64 `json:"xpValue"`
	Score   int     `json:"score"`
	Kills   int     `json:"kills"`
}

// LevelUpPayload contains level-up details
type LevelUpPayload struct {
	Level     int      `json:"level"`
	XPToNext  float64  `json:"xpToNext"`
	OfferedID []string `json:"offered"`
}

// UpgradePayload contains the chosen upgrade
type UpgradePayload struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// OrbCollectPayload contains orb pickup details
type OrbCollectPayload struct {
	Value float64 `json:"value"`
	XP    float64 `json:"xp"`
}

// GameOverPayload contains the run's final tally
type GameOverPayload struct {
	Score        int     `json:"score"`
	Kills        int     `json:"kills"`
	Level        int     `json:"level"`
	SurvivalTime float64 `json:"survivalTimeMs"`
}

// HighScorePayload records a beaten high score
type HighScorePayload struct {
	Score    int `json:"score"`
	Previous int `json:"previous"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, runID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		RunID:     runID,
		Payload:   EncodePayload(payload),
	}
}
