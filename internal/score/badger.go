package score

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/dgraph-io/badger/v3"
)

const (
	highScoreKey = "highscore"
	runKeyPrefix = "run:"
)

// BadgerStore persists scores in an embedded BadgerDB directory.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the store at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // BadgerDB's own logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open score db: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// HighScore returns the stored best score, zero when none exists yet.
func (s *BadgerStore) HighScore() (int, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(highScoreKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})

	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}

	score, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("corrupt high score value %q: %w", data, err)
	}
	return score, nil
}

// SetHighScore stores the new best score.
func (s *BadgerStore) SetHighScore(score int) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(highScoreKey), []byte(strconv.Itoa(score)))
	})
	if err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	return nil
}

// RecordRun stores one finished run keyed by its run UUID.
func (s *BadgerStore) RecordRun(rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKeyPrefix+rec.ID), data)
	})
	if err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

// Runs returns up to limit recorded runs, most recent first.
func (s *BadgerStore) Runs(limit int) ([]RunRecord, error) {
	var runs []RunRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec RunRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return nil // skip corrupt record, keep listing
				}
				runs = append(runs, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].EndedAt.After(runs[j].EndedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
