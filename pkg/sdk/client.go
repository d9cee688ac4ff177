package dimtol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/db"
	dbRedis "github.com/verimetric/dimtol/internal/db/redis"
	recordrepo "github.com/verimetric/dimtol/internal/repository/record"
	healthuc "github.com/verimetric/dimtol/internal/usecase/health"
	ingestuc "github.com/verimetric/dimtol/internal/usecase/ingest"
	inspectionuc "github.com/verimetric/dimtol/internal/usecase/inspection"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "dimtol:"
)

// Client is the dimtol SDK entry point.
type Client struct {
	store      db.Store
	ingest     *ingestuc.Service
	inspection *inspectionuc.Service
	health     *healthuc.Service
}

// New creates a dimtol Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: defaultKeyPrefix,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("dimtol: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("dimtol: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dimtol: database not ready: %w", err)
	}

	repo := recordrepo.New(store, cfg.keyPrefix)
	return &Client{
		store:      store,
		ingest:     ingestuc.New(repo, cfg.logger),
		inspection: inspectionuc.New(repo, cfg.logger),
		health:     healthuc.New(store),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Lots lists the lot identifiers that have stored records.
func (c *Client) Lots(ctx context.Context) ([]string, error) {
	lots, err := c.inspection.Lots(ctx)
	if err != nil {
		return nil, fmt.Errorf("dimtol: %w", err)
	}
	return lots, nil
}

// Lot returns the per-lot record service.
func (c *Client) Lot(lot string) *LotService {
	return &LotService{
		lot:        lot,
		ingest:     c.ingest,
		inspection: c.inspection,
	}
}
