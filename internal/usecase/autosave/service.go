// Package autosave periodically snapshots every lot's records to the store
// so that a crashed or killed session can be recovered. Snapshots also fire
// once on shutdown.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/domain/record"
	"github.com/verimetric/dimtol/internal/metrics"
	"github.com/verimetric/dimtol/internal/repository/snapshot"
)

// Records lists the lots and records to snapshot.
type Records interface {
	Lots(ctx context.Context) ([]string, error)
	List(ctx context.Context, lot string) ([]record.Character, error)
}

// Snapshots persists and recovers snapshots.
type Snapshots interface {
	Save(ctx context.Context, snap snapshot.Snapshot) error
	Latest(ctx context.Context, lot string) (snapshot.Snapshot, error)
}

// Service runs the autosave loop.
type Service struct {
	records   Records
	snapshots Snapshots
	interval  time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates an autosave service with the given snapshot interval.
func New(records Records, snapshots Snapshots, interval time.Duration, logger *zap.Logger) *Service {
	return &Service{
		records:   records,
		snapshots: snapshots,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the background snapshot loop. It is a no-op when the loop
// is already running.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.loop(loopCtx)
	s.logger.Info("autosave started", zap.Duration("interval", s.interval))
}

// Stop halts the loop and writes a final shutdown snapshot of every lot.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	<-stopped

	if err := s.SnapshotAll(ctx, "shutdown"); err != nil {
		s.logger.Warn("shutdown snapshot failed", zap.Error(err))
	}
	s.logger.Info("autosave stopped")
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SnapshotAll(ctx, "interval"); err != nil {
				s.logger.Warn("autosave snapshot failed", zap.Error(err))
			}
		}
	}
}

// SnapshotAll writes one snapshot per lot that currently has records.
func (s *Service) SnapshotAll(ctx context.Context, trigger string) error {
	lots, err := s.records.Lots(ctx)
	if err != nil {
		return fmt.Errorf("list lots: %w", err)
	}

	for _, lot := range lots {
		if _, err := s.SnapshotLot(ctx, lot, trigger); err != nil {
			return err
		}
	}
	return nil
}

// SnapshotLot writes one snapshot of a single lot. A lot without records
// yields an empty Snapshot and no store write.
func (s *Service) SnapshotLot(ctx context.Context, lot, trigger string) (snapshot.Snapshot, error) {
	recs, err := s.records.List(ctx, lot)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("list lot %s: %w", lot, err)
	}
	if len(recs) == 0 {
		return snapshot.Snapshot{}, nil
	}

	snap := snapshot.Snapshot{
		ID:      uuid.NewString(),
		Lot:     lot,
		Trigger: trigger,
		TakenAt: time.Now(),
		Records: recs,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("save snapshot %s: %w", lot, err)
	}
	metrics.SnapshotsTotal.WithLabelValues(trigger).Inc()
	s.logger.Debug("snapshot saved",
		zap.String("lot", lot),
		zap.String("trigger", trigger),
		zap.Int("records", len(recs)),
	)
	return snap, nil
}

// Recover returns the most recent snapshot for a lot.
func (s *Service) Recover(ctx context.Context, lot string) (snapshot.Snapshot, error) {
	snap, err := s.snapshots.Latest(ctx, lot)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("latest snapshot %s: %w", lot, err)
	}
	return snap, nil
}
