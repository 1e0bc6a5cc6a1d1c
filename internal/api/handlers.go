package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"swarm-survivor/internal/game"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.Snapshot()
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"phase":  snapshot.Phase,
		"tick":   snapshot.TickNumber,
	})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	// The snapshot is the complete render payload: phase, player, entities, HUD.
	// Lock-free read, no engine mutex contention from polling clients.
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Stats())
}

func (h *routerHandlers) handleGetHighScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"highScore": h.engine.HighScore()})
}

func (h *routerHandlers) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	if limit > 50 {
		limit = 50
	}

	runs, err := h.scores.Runs(limit)
	if err != nil {
		writeError(w, "Failed to read run history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, runs)
}

func (h *routerHandlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 32)
	if limit > game.RecentBufferSize {
		limit = game.RecentBufferSize
	}

	writeJSON(w, h.engine.RecentEvents(limit))
}

func (h *routerHandlers) handleGameStart(w http.ResponseWriter, r *http.Request) {
	if !h.engine.StartGame() {
		writeError(w, "Can only start from the menu", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleGamePause(w http.ResponseWriter, r *http.Request) {
	if !h.engine.PauseGame() {
		writeError(w, "Nothing to pause", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleGameResume(w http.ResponseWriter, r *http.Request) {
	if !h.engine.ResumeGame() {
		writeError(w, "Nothing to resume", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleGameMenu(w http.ResponseWriter, r *http.Request) {
	if !h.engine.ReturnToMenu() {
		writeError(w, "Can only return to menu after game over", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleGameUpgrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		writeError(w, "Upgrade id is required", http.StatusBadRequest)
		return
	}

	if !h.engine.SelectUpgrade(req.ID) {
		writeError(w, "Upgrade not available", http.StatusConflict)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSetInput(w http.ResponseWriter, r *http.Request) {
	var input game.InputState

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.engine.SetInput(input)
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}
