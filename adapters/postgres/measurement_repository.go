package postgres

import (
	"context"
	"time"

	"aquafold/domain/core"
	"aquafold/domain/measurement"
	"aquafold/ports"

	"github.com/jmoiron/sqlx"
)

// MeasurementRepositoryImpl implements MeasurementRepository for PostgreSQL.
// Readings, mortality events, and weight samples are append-only fact
// tables; the engine only reads them, the importer only inserts.
type MeasurementRepositoryImpl struct {
	db *sqlx.DB
}

// NewMeasurementRepository creates a new PostgreSQL measurement repository
func NewMeasurementRepository(db *sqlx.DB) ports.MeasurementRepository {
	return &MeasurementRepositoryImpl{db: db}
}

type readingRow struct {
	ID          string    `db:"id"`
	ContainerID string    `db:"container_id"`
	Parameter   string    `db:"parameter"`
	Value       float64   `db:"value"`
	RecordedAt  time.Time `db:"recorded_at"`
}

type mortalityEventRow struct {
	ID           string    `db:"id"`
	AssignmentID string    `db:"assignment_id"`
	EventDate    time.Time `db:"event_date"`
	Count        int       `db:"count"`
	Cause        string    `db:"cause"`
}

type weightSampleRow struct {
	ID           string    `db:"id"`
	AssignmentID string    `db:"assignment_id"`
	SampleDate   time.Time `db:"sample_date"`
	AvgWeightG   float64   `db:"avg_weight_g"`
	SampleSize   int       `db:"sample_size"`
	Method       string    `db:"method"`
}

// TemperatureReadings returns all temperature readings for a container on a date
func (r *MeasurementRepositoryImpl) TemperatureReadings(ctx context.Context, containerID core.ContainerID, date core.Date) ([]measurement.EnvironmentalReading, error) {
	var rows []readingRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, container_id, parameter, value, recorded_at
		FROM environmental_readings
		WHERE container_id = $1
		  AND parameter = $2
		  AND recorded_at >= $3 AND recorded_at < $4
		ORDER BY recorded_at ASC`,
		containerID.String(), string(measurement.ParameterTemperature),
		date.Time(), date.Next().Time())
	if err != nil {
		return nil, err
	}

	readings := make([]measurement.EnvironmentalReading, len(rows))
	for i, row := range rows {
		readings[i] = measurement.EnvironmentalReading{
			ID:          core.ID(row.ID),
			ContainerID: core.ContainerID(row.ContainerID),
			Parameter:   measurement.Parameter(row.Parameter),
			Value:       row.Value,
			RecordedAt:  row.RecordedAt,
		}
	}
	return readings, nil
}

// MortalityEvents returns the recorded deaths for an assignment on a date
func (r *MeasurementRepositoryImpl) MortalityEvents(ctx context.Context, assignmentID core.AssignmentID, date core.Date) ([]measurement.MortalityEvent, error) {
	var rows []mortalityEventRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, assignment_id, event_date, count, cause
		FROM mortality_events
		WHERE assignment_id = $1 AND event_date = $2
		ORDER BY id`,
		assignmentID.String(), date.Time())
	if err != nil {
		return nil, err
	}

	events := make([]measurement.MortalityEvent, len(rows))
	for i, row := range rows {
		events[i] = measurement.MortalityEvent{
			ID:           core.ID(row.ID),
			AssignmentID: core.AssignmentID(row.AssignmentID),
			EventDate:    core.DateOf(row.EventDate),
			Count:        row.Count,
			Cause:        row.Cause,
		}
	}
	return events, nil
}

// WeightSamples returns operator weight samples for an assignment on a date
func (r *MeasurementRepositoryImpl) WeightSamples(ctx context.Context, assignmentID core.AssignmentID, date core.Date) ([]measurement.WeightSample, error) {
	var rows []weightSampleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, assignment_id, sample_date, avg_weight_g, sample_size, method
		FROM weight_samples
		WHERE assignment_id = $1 AND sample_date = $2
		ORDER BY id`,
		assignmentID.String(), date.Time())
	if err != nil {
		return nil, err
	}

	samples := make([]measurement.WeightSample, len(rows))
	for i, row := range rows {
		samples[i] = measurement.WeightSample{
			ID:           core.ID(row.ID),
			AssignmentID: core.AssignmentID(row.AssignmentID),
			SampleDate:   core.DateOf(row.SampleDate),
			AvgWeightG:   row.AvgWeightG,
			SampleSize:   row.SampleSize,
			Method:       measurement.SamplingMethod(row.Method),
		}
	}
	return samples, nil
}

// InsertReading appends one environmental reading
func (r *MeasurementRepositoryImpl) InsertReading(ctx context.Context, reading *measurement.EnvironmentalReading) error {
	if reading.ID.IsEmpty() {
		reading.ID = core.NewID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO environmental_readings (id, container_id, parameter, value, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		reading.ID.String(), reading.ContainerID.String(), string(reading.Parameter),
		reading.Value, reading.RecordedAt)
	return err
}

// InsertMortalityEvent appends one mortality event
func (r *MeasurementRepositoryImpl) InsertMortalityEvent(ctx context.Context, event *measurement.MortalityEvent) error {
	if event.ID.IsEmpty() {
		event.ID = core.NewID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mortality_events (id, assignment_id, event_date, count, cause)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID.String(), event.AssignmentID.String(), event.EventDate.Time(),
		event.Count, event.Cause)
	return err
}

// InsertWeightSample appends one weight sample
func (r *MeasurementRepositoryImpl) InsertWeightSample(ctx context.Context, sample *measurement.WeightSample) error {
	if sample.ID.IsEmpty() {
		sample.ID = core.NewID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_samples (id, assignment_id, sample_date, avg_weight_g, sample_size, method)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sample.ID.String(), sample.AssignmentID.String(), sample.SampleDate.Time(),
		sample.AvgWeightG, sample.SampleSize, string(sample.Method))
	return err
}
