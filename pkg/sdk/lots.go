package dimtol

import (
	"context"
	"fmt"

	"github.com/verimetric/dimtol/internal/domain/measure"
	"github.com/verimetric/dimtol/internal/domain/record"
	ingestuc "github.com/verimetric/dimtol/internal/usecase/ingest"
)

// Row is one extracted drawing-table row to ingest.
type Row = ingestuc.Row

// IngestStats summarizes one ingestion run.
type IngestStats = ingestuc.Stats

// Character is one persisted inspection record.
type Character = record.Character

// Outcome is the evaluation of a measured-value cell.
type Outcome = measure.Outcome

// LotSummary aggregates lot statistics.
type LotSummary = record.Summary

// LotService operates on the records of one lot.
type LotService struct {
	lot        string
	ingest     ingestService
	inspection inspectionService
}

// Внутренние интерфейсы для подмены в тестах.
type ingestService interface {
	Ingest(ctx context.Context, lot string, rows []Row) ([]Character, IngestStats, error)
}

type inspectionService interface {
	RecordMeasurement(ctx context.Context, lot, itemNo, actual string) (Character, Outcome, error)
	ToggleOverride(ctx context.Context, lot, itemNo string) (Character, error)
	Get(ctx context.Context, lot, itemNo string) (Character, error)
	List(ctx context.Context, lot string) ([]Character, error)
	Delete(ctx context.Context, lot, itemNo string) error
	Summary(ctx context.Context, lot string) (LotSummary, error)
}

// Ingest parses and persists table rows, running the notation recognizer over
// each dimension callout.
func (s *LotService) Ingest(ctx context.Context, rows []Row) ([]Character, IngestStats, error) {
	recs, stats, err := s.ingest.Ingest(ctx, s.lot, rows)
	if err != nil {
		return nil, stats, fmt.Errorf("dimtol: %w", err)
	}
	return recs, stats, nil
}

// RecordMeasurement commits a measured value for a record and re-evaluates
// compliance.
func (s *LotService) RecordMeasurement(ctx context.Context, itemNo, actual string) (Character, Outcome, error) {
	rec, out, err := s.inspection.RecordMeasurement(ctx, s.lot, itemNo, actual)
	if err != nil {
		return Character{}, Outcome{}, fmt.Errorf("dimtol: %w", err)
	}
	return rec, out, nil
}

// ToggleOverride flips the operator's manual out-of-tolerance flag.
func (s *LotService) ToggleOverride(ctx context.Context, itemNo string) (Character, error) {
	rec, err := s.inspection.ToggleOverride(ctx, s.lot, itemNo)
	if err != nil {
		return Character{}, fmt.Errorf("dimtol: %w", err)
	}
	return rec, nil
}

// Record returns one record by item number.
func (s *LotService) Record(ctx context.Context, itemNo string) (Character, error) {
	rec, err := s.inspection.Get(ctx, s.lot, itemNo)
	if err != nil {
		return Character{}, fmt.Errorf("dimtol: %w", err)
	}
	return rec, nil
}

// Records returns all records of the lot.
func (s *LotService) Records(ctx context.Context) ([]Character, error) {
	recs, err := s.inspection.List(ctx, s.lot)
	if err != nil {
		return nil, fmt.Errorf("dimtol: %w", err)
	}
	return recs, nil
}

// Delete removes one record.
func (s *LotService) Delete(ctx context.Context, itemNo string) error {
	if err := s.inspection.Delete(ctx, s.lot, itemNo); err != nil {
		return fmt.Errorf("dimtol: %w", err)
	}
	return nil
}

// Summary computes lot statistics.
func (s *LotService) Summary(ctx context.Context) (LotSummary, error) {
	sum, err := s.inspection.Summary(ctx, s.lot)
	if err != nil {
		return LotSummary{}, fmt.Errorf("dimtol: %w", err)
	}
	return sum, nil
}
