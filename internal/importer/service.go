package importer

import (
	"context"
	"fmt"

	"aquafold/adapters/excel"
	"aquafold/internal"
	"aquafold/internal/errors"
	"aquafold/ports"
)

// Service loads operator measurement workbooks into the measurement store.
// Imports are append-only; re-importing a workbook duplicates facts, so
// operators hand over each workbook once.
type Service struct {
	reader *excel.MeasurementReader
	store  ports.MeasurementWriter
	log    *internal.Logger
}

// NewService creates an import service
func NewService(reader *excel.MeasurementReader, store ports.MeasurementWriter, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{reader: reader, store: store, log: logger}
}

// Summary counts what one workbook import inserted
type Summary struct {
	Readings        int `json:"readings"`
	MortalityEvents int `json:"mortality_events"`
	WeightSamples   int `json:"weight_samples"`
}

// ImportFile parses a workbook and inserts every parsed fact
func (s *Service) ImportFile(ctx context.Context, path string) (*Summary, error) {
	parsed, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, errors.ImportError(fmt.Sprintf("failed to parse workbook %s", path), err)
	}

	summary := &Summary{}
	for i := range parsed.Readings {
		if err := s.store.InsertReading(ctx, &parsed.Readings[i]); err != nil {
			return summary, errors.ImportError("failed to insert reading", err)
		}
		summary.Readings++
	}
	for i := range parsed.MortalityEvents {
		if err := s.store.InsertMortalityEvent(ctx, &parsed.MortalityEvents[i]); err != nil {
			return summary, errors.ImportError("failed to insert mortality event", err)
		}
		summary.MortalityEvents++
	}
	for i := range parsed.WeightSamples {
		if err := s.store.InsertWeightSample(ctx, &parsed.WeightSamples[i]); err != nil {
			return summary, errors.ImportError("failed to insert weight sample", err)
		}
		summary.WeightSamples++
	}

	s.log.Info("imported %s: %d readings, %d mortality events, %d weight samples",
		path, summary.Readings, summary.MortalityEvents, summary.WeightSamples)
	return summary, nil
}
