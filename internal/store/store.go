// Package store persists completed analysis runs in an embedded bbolt
// database so a later CLI or API call can retrieve a report by run id
// without re-running the pipeline.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/arya-s-cmd/financial-forensic-engine"
)

var bucketRuns = []byte("runs")

// RunRecord is what gets persisted for a completed run: the report plus the
// inputs needed to locate and describe it later.
type RunRecord struct {
	RunID       string                `json:"run_id"`
	CompletedAt time.Time             `json:"completed_at"`
	Report      mulegraph.Report      `json:"report"`
	Graph       mulegraph.GraphExport `json:"graph"`
}

// Store wraps a bbolt database holding one bucket of run records.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the bbolt file at path and ensures the
// runs bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init bucket: %w", err)
	}

	return s, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a completed run keyed by its run id.
func (s *Store) SaveRun(rec RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal run %s: %w", rec.RunID, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.Put([]byte(rec.RunID), data)
	})
}

// GetRun retrieves a previously saved run by id.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord
	var found bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data := b.Get([]byte(runID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return RunRecord{}, fmt.Errorf("store: get run %s: %w", runID, err)
	}
	if !found {
		return RunRecord{}, fmt.Errorf("store: run not found: %s", runID)
	}

	return rec, nil
}

// ListRunIDs returns every stored run id in byte-lexicographic key order
// (not insertion order).
func (s *Store) ListRunIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return ids, nil
}
