// Package record persists inspection records as JSON documents keyed by lot
// and item number.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/verimetric/dimtol/internal/db"
	"github.com/verimetric/dimtol/internal/domain"
	domrec "github.com/verimetric/dimtol/internal/domain/record"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the usecase record repositories.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. prefix namespaces all keys, e.g. "dimtol:".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Upsert creates or replaces a record within a lot.
func (r *Repo) Upsert(ctx context.Context, lot string, rec *domrec.Character) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	key := r.recordKey(lot, rec.ItemNo)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a record by lot and item number.
func (r *Repo) Get(ctx context.Context, lot, itemNo string) (domrec.Character, error) {
	key := r.recordKey(lot, itemNo)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.Character{}, domain.ErrRecordNotFound
		}
		return domrec.Character{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeRecord(raw)
}

// List returns all records of a lot ordered by item number.
func (r *Repo) List(ctx context.Context, lot string) ([]domrec.Character, error) {
	keys, err := r.store.Scan(ctx, r.recordKey(lot, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan lot %s: %w", lot, err)
	}
	sort.Strings(keys)

	recs := make([]domrec.Character, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				// Key expired between SCAN and GET.
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Delete removes a record.
func (r *Repo) Delete(ctx context.Context, lot, itemNo string) error {
	key := r.recordKey(lot, itemNo)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrRecordNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Lots returns the distinct lot identifiers that have stored records.
func (r *Repo) Lots(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"record:*")
	if err != nil {
		return nil, fmt.Errorf("scan lots: %w", err)
	}

	seen := make(map[string]struct{})
	var lots []string
	for _, key := range keys {
		rest := strings.TrimPrefix(key, r.prefix+"record:")
		lot, _, ok := strings.Cut(rest, ":")
		if !ok || lot == "" {
			continue
		}
		if _, dup := seen[lot]; dup {
			continue
		}
		seen[lot] = struct{}{}
		lots = append(lots, lot)
	}
	sort.Strings(lots)
	return lots, nil
}

// decodeRecord handles both the bare object and the single-element array that
// JSON.GET returns for the "$" path.
func decodeRecord(raw []byte) (domrec.Character, error) {
	var arr []domrec.Character
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) == 0 {
			return domrec.Character{}, domain.ErrRecordNotFound
		}
		return arr[0], nil
	}
	var rec domrec.Character
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domrec.Character{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

func (r *Repo) recordKey(lot, itemNo string) string {
	return r.prefix + "record:" + lot + ":" + itemNo
}
