package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/domain"
	"github.com/verimetric/dimtol/internal/domain/record"
	"github.com/verimetric/dimtol/internal/repository/snapshot"
)

// mockRecords implements Records for tests.
type mockRecords struct {
	lotsFn func(ctx context.Context) ([]string, error)
	listFn func(ctx context.Context, lot string) ([]record.Character, error)
}

func (m *mockRecords) Lots(ctx context.Context) ([]string, error) {
	if m.lotsFn != nil {
		return m.lotsFn(ctx)
	}
	return nil, nil
}

func (m *mockRecords) List(ctx context.Context, lot string) ([]record.Character, error) {
	if m.listFn != nil {
		return m.listFn(ctx, lot)
	}
	return nil, nil
}

// mockSnapshots implements Snapshots for tests.
type mockSnapshots struct {
	mu       sync.Mutex
	saved    []snapshot.Snapshot
	saveFn   func(ctx context.Context, snap snapshot.Snapshot) error
	latestFn func(ctx context.Context, lot string) (snapshot.Snapshot, error)
}

func (m *mockSnapshots) Save(ctx context.Context, snap snapshot.Snapshot) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, snap)
	return nil
}

func (m *mockSnapshots) Latest(ctx context.Context, lot string) (snapshot.Snapshot, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, lot)
	}
	return snapshot.Snapshot{}, domain.ErrSnapshotNotFound
}

func (m *mockSnapshots) all() []snapshot.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]snapshot.Snapshot, len(m.saved))
	copy(out, m.saved)
	return out
}

func TestSnapshotLot(t *testing.T) {
	records := &mockRecords{
		listFn: func(_ context.Context, lot string) ([]record.Character, error) {
			return []record.Character{{ItemNo: "1"}, {ItemNo: "2"}}, nil
		},
	}
	snaps := &mockSnapshots{}
	svc := New(records, snaps, time.Minute, zap.NewNop())

	snap, err := svc.SnapshotLot(context.Background(), "L-042", "manual")
	if err != nil {
		t.Fatalf("SnapshotLot: %v", err)
	}
	if snap.ID == "" {
		t.Error("snapshot has no ID")
	}
	if snap.Lot != "L-042" || snap.Trigger != "manual" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Records) != 2 {
		t.Errorf("records = %d, want 2", len(snap.Records))
	}
	if len(snaps.all()) != 1 {
		t.Errorf("saved snapshots = %d, want 1", len(snaps.all()))
	}
}

func TestSnapshotLot_EmptyLotSkipped(t *testing.T) {
	snaps := &mockSnapshots{}
	svc := New(&mockRecords{}, snaps, time.Minute, zap.NewNop())

	snap, err := svc.SnapshotLot(context.Background(), "L-042", "manual")
	if err != nil {
		t.Fatalf("SnapshotLot: %v", err)
	}
	if snap.ID != "" {
		t.Errorf("empty lot produced snapshot %+v", snap)
	}
	if len(snaps.all()) != 0 {
		t.Error("empty lot was written to the store")
	}
}

func TestSnapshotAll(t *testing.T) {
	records := &mockRecords{
		lotsFn: func(_ context.Context) ([]string, error) {
			return []string{"L-042", "L-043", "L-empty"}, nil
		},
		listFn: func(_ context.Context, lot string) ([]record.Character, error) {
			if lot == "L-empty" {
				return nil, nil
			}
			return []record.Character{{ItemNo: "1"}}, nil
		},
	}
	snaps := &mockSnapshots{}
	svc := New(records, snaps, time.Minute, zap.NewNop())

	if err := svc.SnapshotAll(context.Background(), "interval"); err != nil {
		t.Fatalf("SnapshotAll: %v", err)
	}
	saved := snaps.all()
	if len(saved) != 2 {
		t.Fatalf("saved snapshots = %d, want 2", len(saved))
	}
	for _, snap := range saved {
		if snap.Trigger != "interval" {
			t.Errorf("trigger = %q", snap.Trigger)
		}
	}
}

func TestStartStop_WritesShutdownSnapshot(t *testing.T) {
	records := &mockRecords{
		lotsFn: func(_ context.Context) ([]string, error) { return []string{"L-042"}, nil },
		listFn: func(_ context.Context, _ string) ([]record.Character, error) {
			return []record.Character{{ItemNo: "1"}}, nil
		},
	}
	snaps := &mockSnapshots{}
	svc := New(records, snaps, time.Hour, zap.NewNop())

	svc.Start(context.Background())
	svc.Stop(context.Background())

	saved := snaps.all()
	if len(saved) != 1 {
		t.Fatalf("saved snapshots = %d, want 1", len(saved))
	}
	if saved[0].Trigger != "shutdown" {
		t.Errorf("trigger = %q, want shutdown", saved[0].Trigger)
	}

	// A second Stop is a no-op.
	svc.Stop(context.Background())
	if len(snaps.all()) != 1 {
		t.Error("repeated Stop wrote another snapshot")
	}
}

func TestRecover(t *testing.T) {
	snaps := &mockSnapshots{
		latestFn: func(_ context.Context, lot string) (snapshot.Snapshot, error) {
			return snapshot.Snapshot{ID: "snap-9", Lot: lot}, nil
		},
	}
	svc := New(&mockRecords{}, snaps, time.Minute, zap.NewNop())

	snap, err := svc.Recover(context.Background(), "L-042")
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if snap.ID != "snap-9" {
		t.Errorf("snapshot ID = %q", snap.ID)
	}
}

func TestRecover_NotFound(t *testing.T) {
	svc := New(&mockRecords{}, &mockSnapshots{}, time.Minute, zap.NewNop())

	_, err := svc.Recover(context.Background(), "L-042")
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}
