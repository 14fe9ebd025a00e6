package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"aquafold/domain/core"
	"aquafold/domain/measurement"

	"github.com/xuri/excelize/v2"
)

// MeasurementReader parses operator-logged measurement workbooks into
// domain facts ready for insertion into the measurement store.
//
// Expected columns (first row is a header):
//
//	Temperatures:  container_id | date | temperature_c
//	Mortalities:   assignment_id | date | count | cause
//	WeightSamples: assignment_id | date | avg_weight_g | sample_size | method
type MeasurementReader struct {
	config ImportConfig
}

// NewMeasurementReader creates a reader with the given sheet layout
func NewMeasurementReader(config ImportConfig) *MeasurementReader {
	return &MeasurementReader{config: config}
}

// ImportedMeasurements bundles everything parsed from one workbook
type ImportedMeasurements struct {
	Readings        []measurement.EnvironmentalReading
	MortalityEvents []measurement.MortalityEvent
	WeightSamples   []measurement.WeightSample
}

// ReadFile parses a workbook from disk
func (r *MeasurementReader) ReadFile(path string) (*ImportedMeasurements, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return r.read(f)
}

// Read parses a workbook from a stream
func (r *MeasurementReader) Read(reader io.Reader) (*ImportedMeasurements, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return r.read(f)
}

func (r *MeasurementReader) read(f *excelize.File) (*ImportedMeasurements, error) {
	out := &ImportedMeasurements{}

	if rows, err := sheetRows(f, r.config.TemperatureSheet); err == nil {
		readings, err := parseTemperatureRows(rows)
		if err != nil {
			return nil, err
		}
		out.Readings = readings
	}

	if rows, err := sheetRows(f, r.config.MortalitySheet); err == nil {
		events, err := parseMortalityRows(rows)
		if err != nil {
			return nil, err
		}
		out.MortalityEvents = events
	}

	if rows, err := sheetRows(f, r.config.WeightSampleSheet); err == nil {
		samples, err := parseWeightSampleRows(rows)
		if err != nil {
			return nil, err
		}
		out.WeightSamples = samples
	}

	if len(out.Readings) == 0 && len(out.MortalityEvents) == 0 && len(out.WeightSamples) == 0 {
		return nil, fmt.Errorf("workbook contains no recognizable measurement sheets")
	}
	return out, nil
}

// sheetRows returns a sheet's data rows, skipping the header
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}
	return rows[1:], nil
}

func parseTemperatureRows(rows [][]string) ([]measurement.EnvironmentalReading, error) {
	var readings []measurement.EnvironmentalReading
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("temperature row %d: expected 3 columns, got %d", i+2, len(row))
		}
		containerID, err := core.ParseContainerID(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("temperature row %d: %w", i+2, err)
		}
		date, err := core.ParseDate(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("temperature row %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("temperature row %d: invalid temperature: %w", i+2, err)
		}
		readings = append(readings, measurement.EnvironmentalReading{
			ID:          core.NewID(),
			ContainerID: containerID,
			Parameter:   measurement.ParameterTemperature,
			Value:       value,
			RecordedAt:  date.Time().Add(12 * time.Hour), // logged as daily readings at midday
		})
	}
	return readings, nil
}

func parseMortalityRows(rows [][]string) ([]measurement.MortalityEvent, error) {
	var events []measurement.MortalityEvent
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("mortality row %d: expected at least 3 columns, got %d", i+2, len(row))
		}
		assignmentID, err := core.ParseAssignmentID(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("mortality row %d: %w", i+2, err)
		}
		date, err := core.ParseDate(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("mortality row %d: %w", i+2, err)
		}
		count, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("mortality row %d: invalid count %q", i+2, row[2])
		}
		cause := ""
		if len(row) > 3 {
			cause = strings.TrimSpace(row[3])
		}
		events = append(events, measurement.MortalityEvent{
			ID:           core.NewID(),
			AssignmentID: assignmentID,
			EventDate:    date,
			Count:        count,
			Cause:        cause,
		})
	}
	return events, nil
}

func parseWeightSampleRows(rows [][]string) ([]measurement.WeightSample, error) {
	var samples []measurement.WeightSample
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("weight sample row %d: expected 5 columns, got %d", i+2, len(row))
		}
		assignmentID, err := core.ParseAssignmentID(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("weight sample row %d: %w", i+2, err)
		}
		date, err := core.ParseDate(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("weight sample row %d: %w", i+2, err)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil || weight <= 0 {
			return nil, fmt.Errorf("weight sample row %d: invalid weight %q", i+2, row[2])
		}
		size, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil || size < 0 {
			return nil, fmt.Errorf("weight sample row %d: invalid sample size %q", i+2, row[3])
		}
		method, err := measurement.ParseSamplingMethod(strings.ToUpper(strings.TrimSpace(row[4])))
		if err != nil {
			return nil, fmt.Errorf("weight sample row %d: %w", i+2, err)
		}
		samples = append(samples, measurement.WeightSample{
			ID:           core.NewID(),
			AssignmentID: assignmentID,
			SampleDate:   date,
			AvgWeightG:   weight,
			SampleSize:   size,
			Method:       method,
		})
	}
	return samples, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
