package game

// Phase represents the game's lifecycle state
type Phase int

const (
	PhaseMenu     Phase = iota // Initial state, no run in progress
	PhasePlaying               // Simulation advancing
	PhasePaused                // Run frozen, resumes exactly where it left off
	PhaseLevelUp               // Frozen pending an upgrade choice
	PhaseGameOver              // Terminal until the player returns to the menu
)

// String returns the phase name for logs and snapshots.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "MENU"
	case PhasePlaying:
		return "PLAYING"
	case PhasePaused:
		return "PAUSED"
	case PhaseLevelUp:
		return "LEVEL_UP"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}
