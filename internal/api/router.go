package api

import (
	"net/http"

	"swarm-survivor/internal/game"
	"swarm-survivor/internal/score"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the game engine methods used by the API.
// This interface enables mocking for tests without spinning up the full game loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// Snapshot returns the latest lock-free immutable snapshot (preferred for reads)
	Snapshot() *game.Snapshot
	// StartGame begins a fresh run from the menu
	StartGame() bool
	// PauseGame freezes the simulation
	PauseGame() bool
	// ResumeGame unfreezes the simulation
	ResumeGame() bool
	// ReturnToMenu leaves the game-over screen
	ReturnToMenu() bool
	// SelectUpgrade picks one of the offered level-up choices
	SelectUpgrade(id string) bool
	// SetInput replaces the held input state for the next ticks
	SetInput(input game.InputState)
	// HighScore returns the best score on record
	HighScore() int
	// Stats returns a coarse stats map for dashboards
	Stats() map[string]interface{}
	// RecentEvents returns the newest entries from the event log
	RecentEvents(limit int) []game.Event
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    Scores: score.NewMemoryStore(),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the game engine (required)
	Engine EngineInterface

	// Scores is the persistent run/high-score store (required)
	Scores score.Store

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local-dev origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
// This is used internally to pass handlers to route setup.
type routerHandlers struct {
	engine EngineInterface
	scores score.Store
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
//
// Example:
//
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/state")
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Create handlers struct
	h := &routerHandlers{
		engine: cfg.Engine,
		scores: cfg.Scores,
	}

	r.Get("/health", h.handleHealth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Read side
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/highscore", h.handleGetHighScore)
		r.Get("/runs", h.handleGetRuns)
		r.Get("/events", h.handleGetEvents)

		// Run lifecycle
		r.Post("/game/start", h.handleGameStart)
		r.Post("/game/pause", h.handleGamePause)
		r.Post("/game/resume", h.handleGameResume)
		r.Post("/game/menu", h.handleGameMenu)
		r.Post("/game/upgrade", h.handleGameUpgrade)

		// Input
		r.Post("/input", h.handleSetInput)
	})

	return r
}
