// Package ingest converts extracted drawing-table rows into persisted
// inspection records, running the notation recognizer over each dimension
// callout.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/domain/notation"
	"github.com/verimetric/dimtol/internal/domain/record"
	"github.com/verimetric/dimtol/internal/metrics"
)

// Row is one extracted drawing-table row in the fixed 8-column layout the
// document-extraction collaborator produces.
type Row struct {
	ItemNo          string `json:"item_no"`
	Dimension       string `json:"dimension"`
	Actual          string `json:"actual"`
	Badge           string `json:"badge"`
	Tooling         string `json:"tooling"`
	Remarks         string `json:"remarks"`
	BPZone          string `json:"bp_zone"`
	InspectionLevel string `json:"inspection_level"`
}

// Repository persists inspection records per lot.
type Repository interface {
	Upsert(ctx context.Context, lot string, rec *record.Character) error
}

// Stats summarizes one ingestion run.
type Stats struct {
	Ingested   int `json:"ingested"`
	Skipped    int `json:"skipped"`
	Recognized int `json:"recognized"`
}

// Service ingests table rows.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates an ingestion service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Ingest parses and persists rows for a lot. Rows with an empty item number
// or dimension are skipped. An unrecognized dimension callout is not an
// error: the record is stored with its derived tolerance fields empty.
func (s *Service) Ingest(ctx context.Context, lot string, rows []Row) ([]record.Character, Stats, error) {
	var stats Stats
	recs := make([]record.Character, 0, len(rows))

	for i, row := range rows {
		itemNo := strings.TrimSpace(row.ItemNo)
		dimension := strings.TrimSpace(row.Dimension)
		if itemNo == "" || dimension == "" {
			stats.Skipped++
			s.logger.Debug("skipping incomplete row",
				zap.String("lot", lot),
				zap.Int("row", i+1),
			)
			continue
		}

		rec := record.Character{
			ItemNo:          itemNo,
			Dimension:       dimension,
			Actual:          strings.TrimSpace(row.Actual),
			Badge:           strings.TrimSpace(row.Badge),
			Tooling:         strings.TrimSpace(row.Tooling),
			Remarks:         strings.TrimSpace(row.Remarks),
			BPZone:          strings.TrimSpace(row.BPZone),
			InspectionLevel: strings.TrimSpace(row.InspectionLevel),
		}
		if rec.InspectionLevel == "" {
			rec.InspectionLevel = record.DefaultInspectionLevel
		}

		if res, ok := notation.Recognize(dimension); ok {
			rec.ApplyNotation(res)
			stats.Recognized++
			metrics.RecognizeTotal.WithLabelValues(string(res.Format)).Inc()
			s.logger.Debug("dimension recognized",
				zap.String("lot", lot),
				zap.String("item", itemNo),
				zap.String("format", string(res.Format)),
			)
		} else {
			metrics.RecognizeTotal.WithLabelValues("none").Inc()
			s.logger.Debug("dimension not recognized",
				zap.String("lot", lot),
				zap.String("item", itemNo),
				zap.String("dimension", dimension),
			)
		}

		if err := s.repo.Upsert(ctx, lot, &rec); err != nil {
			return nil, stats, fmt.Errorf("store record %s: %w", itemNo, err)
		}
		stats.Ingested++
		recs = append(recs, rec)
	}

	s.logger.Info("lot ingested",
		zap.String("lot", lot),
		zap.Int("ingested", stats.Ingested),
		zap.Int("skipped", stats.Skipped),
		zap.Int("recognized", stats.Recognized),
	)
	return recs, stats, nil
}
