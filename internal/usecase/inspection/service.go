// Package inspection implements the interactive measurement flow: committing
// measured values, re-evaluating tolerance compliance, the operator's manual
// out-of-tolerance override, and lot summaries.
package inspection

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/domain/measure"
	"github.com/verimetric/dimtol/internal/domain/record"
	"github.com/verimetric/dimtol/internal/metrics"
)

// Repository is the record persistence the service needs.
type Repository interface {
	Get(ctx context.Context, lot, itemNo string) (record.Character, error)
	Upsert(ctx context.Context, lot string, rec *record.Character) error
	List(ctx context.Context, lot string) ([]record.Character, error)
	Delete(ctx context.Context, lot, itemNo string) error
	Lots(ctx context.Context) ([]string, error)
}

// Service drives the measurement workflow.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates an inspection service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RecordMeasurement commits a measured cell for a record and re-evaluates
// compliance. A violating reading sets the record's out-of-tolerance flag; a
// compliant re-evaluation never clears a previously set flag.
func (s *Service) RecordMeasurement(ctx context.Context, lot, itemNo, actual string) (record.Character, measure.Outcome, error) {
	rec, err := s.repo.Get(ctx, lot, itemNo)
	if err != nil {
		return record.Character{}, measure.Outcome{}, fmt.Errorf("load record %s: %w", itemNo, err)
	}

	rec.Actual = strings.TrimSpace(actual)
	outcome := rec.Evaluate(rec.Actual)

	verdict := "compliant"
	if !outcome.Compliant {
		verdict = "out_of_tolerance"
	}
	metrics.EvaluationsTotal.WithLabelValues(verdict).Inc()

	if err := s.repo.Upsert(ctx, lot, &rec); err != nil {
		return record.Character{}, measure.Outcome{}, fmt.Errorf("store record %s: %w", itemNo, err)
	}

	s.logger.Info("measurement recorded",
		zap.String("lot", lot),
		zap.String("item", itemNo),
		zap.Bool("compliant", outcome.Compliant),
		zap.String("summary", outcome.Summary),
	)
	return rec, outcome, nil
}

// ToggleOverride flips the operator's manual out-of-tolerance flag.
func (s *Service) ToggleOverride(ctx context.Context, lot, itemNo string) (record.Character, error) {
	rec, err := s.repo.Get(ctx, lot, itemNo)
	if err != nil {
		return record.Character{}, fmt.Errorf("load record %s: %w", itemNo, err)
	}

	rec.ToggleOutOfTolerance()
	if err := s.repo.Upsert(ctx, lot, &rec); err != nil {
		return record.Character{}, fmt.Errorf("store record %s: %w", itemNo, err)
	}

	s.logger.Info("out-of-tolerance override toggled",
		zap.String("lot", lot),
		zap.String("item", itemNo),
		zap.Bool("out_of_tolerance", rec.OutOfTolerance),
	)
	return rec, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, lot, itemNo string) (record.Character, error) {
	rec, err := s.repo.Get(ctx, lot, itemNo)
	if err != nil {
		return record.Character{}, fmt.Errorf("load record %s: %w", itemNo, err)
	}
	return rec, nil
}

// List returns all records of a lot.
func (s *Service) List(ctx context.Context, lot string) ([]record.Character, error) {
	recs, err := s.repo.List(ctx, lot)
	if err != nil {
		return nil, fmt.Errorf("list lot %s: %w", lot, err)
	}
	return recs, nil
}

// Delete removes one record.
func (s *Service) Delete(ctx context.Context, lot, itemNo string) error {
	if err := s.repo.Delete(ctx, lot, itemNo); err != nil {
		return fmt.Errorf("delete record %s: %w", itemNo, err)
	}
	s.logger.Info("record deleted", zap.String("lot", lot), zap.String("item", itemNo))
	return nil
}

// Lots returns the lot identifiers that have stored records.
func (s *Service) Lots(ctx context.Context) ([]string, error) {
	lots, err := s.repo.Lots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// Summary computes lot statistics.
func (s *Service) Summary(ctx context.Context, lot string) (record.Summary, error) {
	recs, err := s.repo.List(ctx, lot)
	if err != nil {
		return record.Summary{}, fmt.Errorf("list lot %s: %w", lot, err)
	}
	return record.Summarize(recs), nil
}
