package ports

import (
	"context"

	"aquafold/domain/core"
	"aquafold/domain/measurement"
)

// MeasurementReader queries operator/sensor facts by container or
// assignment and date. All engine resolvers read through this port.
type MeasurementReader interface {
	// TemperatureReadings returns all temperature readings recorded for a
	// container on a calendar date. Empty slice and nil error when none.
	TemperatureReadings(ctx context.Context, containerID core.ContainerID, date core.Date) ([]measurement.EnvironmentalReading, error)

	// MortalityEvents returns the recorded deaths for an assignment on a date.
	MortalityEvents(ctx context.Context, assignmentID core.AssignmentID, date core.Date) ([]measurement.MortalityEvent, error)

	// WeightSamples returns any operator weight samples for an assignment
	// on a date.
	WeightSamples(ctx context.Context, assignmentID core.AssignmentID, date core.Date) ([]measurement.WeightSample, error)
}

// MeasurementWriter appends new measurement facts. Used by the spreadsheet
// importer, never by the engine.
type MeasurementWriter interface {
	InsertReading(ctx context.Context, reading *measurement.EnvironmentalReading) error
	InsertMortalityEvent(ctx context.Context, event *measurement.MortalityEvent) error
	InsertWeightSample(ctx context.Context, sample *measurement.WeightSample) error
}

// MeasurementRepository combines read and write access
type MeasurementRepository interface {
	MeasurementReader
	MeasurementWriter
}
