package importer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aquafold/adapters/excel"
	"aquafold/domain/measurement"
	"aquafold/internal/errors"
)

type recordingWriter struct {
	readings []measurement.EnvironmentalReading
	events   []measurement.MortalityEvent
	samples  []measurement.WeightSample
	fail     bool
}

func (w *recordingWriter) InsertReading(ctx context.Context, reading *measurement.EnvironmentalReading) error {
	if w.fail {
		return assert.AnError
	}
	w.readings = append(w.readings, *reading)
	return nil
}

func (w *recordingWriter) InsertMortalityEvent(ctx context.Context, event *measurement.MortalityEvent) error {
	if w.fail {
		return assert.AnError
	}
	w.events = append(w.events, *event)
	return nil
}

func (w *recordingWriter) InsertWeightSample(ctx context.Context, sample *measurement.WeightSample) error {
	if w.fail {
		return assert.AnError
	}
	w.samples = append(w.samples, *sample)
	return nil
}

func writeTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheets := map[string][][]string{
		"Temperatures": {
			{"container_id", "date", "temperature_c"},
			{"tank-1", "2025-03-01", "10.2"},
		},
		"Mortalities": {
			{"assignment_id", "date", "count", "cause"},
			{"asg-1", "2025-03-01", "3", ""},
		},
	}
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "measurements.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportFileInsertsEverything(t *testing.T) {
	path := writeTestWorkbook(t)
	writer := &recordingWriter{}
	service := NewService(excel.NewMeasurementReader(excel.DefaultImportConfig()), writer, nil)

	summary, err := service.ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Readings)
	assert.Equal(t, 1, summary.MortalityEvents)
	assert.Equal(t, 0, summary.WeightSamples)
	require.Len(t, writer.readings, 1)
	assert.Equal(t, 10.2, writer.readings[0].Value)
	require.Len(t, writer.events, 1)
	assert.Equal(t, 3, writer.events[0].Count)
}

func TestImportFileMissingWorkbook(t *testing.T) {
	service := NewService(excel.NewMeasurementReader(excel.DefaultImportConfig()), &recordingWriter{}, nil)

	_, err := service.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))
}

func TestImportFileInsertFailureStops(t *testing.T) {
	path := writeTestWorkbook(t)
	writer := &recordingWriter{fail: true}
	service := NewService(excel.NewMeasurementReader(excel.DefaultImportConfig()), writer, nil)

	summary, err := service.ImportFile(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, 0, summary.Readings)
}
