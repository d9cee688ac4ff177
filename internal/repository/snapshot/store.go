// Package snapshot persists autosave snapshots as expiring KV entries, one
// key per snapshot, so that a crashed session can be recovered.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/verimetric/dimtol/internal/db"
	"github.com/verimetric/dimtol/internal/domain"
	domrec "github.com/verimetric/dimtol/internal/domain/record"
)

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Snapshot is one saved copy of a lot's in-memory state.
type Snapshot struct {
	ID      string             `json:"id"`
	Lot     string             `json:"lot"`
	Trigger string             `json:"trigger"` // interval, shutdown, manual
	TakenAt time.Time          `json:"taken_at"`
	Records []domrec.Character `json:"records"`
}

// Store persists snapshots with a retention TTL.
type Store struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a snapshot store. Snapshots expire after ttl.
func New(s store, prefix string, ttl time.Duration) *Store {
	return &Store{store: s, prefix: prefix, ttl: ttl}
}

// Save writes a snapshot under a timestamp-ordered key.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	key := s.key(snap.Lot, snap.TakenAt)
	if err := s.store.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Latest returns the most recent unexpired snapshot for a lot.
func (s *Store) Latest(ctx context.Context, lot string) (Snapshot, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"snapshot:"+lot+":*")
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshots %s: %w", lot, err)
	}
	if len(keys) == 0 {
		return Snapshot{}, domain.ErrSnapshotNotFound
	}

	// Keys embed an RFC3339 UTC timestamp, so the lexicographic maximum is
	// the newest snapshot.
	sort.Strings(keys)
	for i := len(keys) - 1; i >= 0; i-- {
		data, err := s.store.Get(ctx, keys[i])
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // expired between SCAN and GET
			}
			return Snapshot{}, fmt.Errorf("get %s: %w", keys[i], err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("unmarshal %s: %w", keys[i], err)
		}
		return snap, nil
	}
	return Snapshot{}, domain.ErrSnapshotNotFound
}

func (s *Store) key(lot string, takenAt time.Time) string {
	return s.prefix + "snapshot:" + lot + ":" + takenAt.UTC().Format(time.RFC3339)
}
