// Package score persists the high score and per-run records. The engine
// talks to the Store interface only; the host picks the BadgerDB-backed
// implementation or the in-memory one (tests, ephemeral hosts).
package score

import (
	"sort"
	"sync"
	"time"
)

// RunRecord is one finished run's tally.
type RunRecord struct {
	ID             string    `json:"id"` // run UUID
	Score          int       `json:"score"`
	Kills          int       `json:"kills"`
	Level          int       `json:"level"`
	SurvivalTimeMS float64   `json:"survivalTimeMs"`
	EndedAt        time.Time `json:"endedAt"`
}

// Store is the persistence surface the engine depends on. HighScore is read
// once at construction; SetHighScore and RecordRun fire once per game over.
type Store interface {
	HighScore() (int, error)
	SetHighScore(score int) error
	RecordRun(rec RunRecord) error
	Runs(limit int) ([]RunRecord, error)
	Close() error
}

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	highScore int
	runs      []RunRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// HighScore returns the best score seen so far.
func (s *MemoryStore) HighScore() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highScore, nil
}

// SetHighScore stores the new best score.
func (s *MemoryStore) SetHighScore(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highScore = score
	return nil
}

// RecordRun appends a finished run.
func (s *MemoryStore) RecordRun(rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, rec)
	return nil
}

// Runs returns up to limit runs, most recent first.
func (s *MemoryStore) Runs(limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RunRecord, len(s.runs))
	copy(out, s.runs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndedAt.After(out[j].EndedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
