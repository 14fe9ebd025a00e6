package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aquafold/domain/core"
	"aquafold/domain/measurement"
)

func buildWorkbook(t *testing.T, sheets map[string][][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

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

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadFullWorkbook(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Temperatures": {
			{"container_id", "date", "temperature_c"},
			{"tank-7", "2025-03-01", "10.5"},
			{"tank-7", "2025-03-02", "10.9"},
		},
		"Mortalities": {
			{"assignment_id", "date", "count", "cause"},
			{"asg-1", "2025-03-01", "5", "handling"},
		},
		"WeightSamples": {
			{"assignment_id", "date", "avg_weight_g", "sample_size", "method"},
			{"asg-1", "2025-03-02", "120.5", "30", "largest"},
		},
	})

	reader := NewMeasurementReader(DefaultImportConfig())
	imported, err := reader.Read(buf)
	require.NoError(t, err)

	require.Len(t, imported.Readings, 2)
	assert.Equal(t, core.ContainerID("tank-7"), imported.Readings[0].ContainerID)
	assert.Equal(t, measurement.ParameterTemperature, imported.Readings[0].Parameter)
	assert.Equal(t, 10.5, imported.Readings[0].Value)
	assert.Equal(t, core.NewDate(2025, 3, 1), core.DateOf(imported.Readings[0].RecordedAt))
	assert.False(t, imported.Readings[0].ID.IsEmpty())

	require.Len(t, imported.MortalityEvents, 1)
	assert.Equal(t, core.AssignmentID("asg-1"), imported.MortalityEvents[0].AssignmentID)
	assert.Equal(t, 5, imported.MortalityEvents[0].Count)
	assert.Equal(t, "handling", imported.MortalityEvents[0].Cause)

	require.Len(t, imported.WeightSamples, 1)
	assert.Equal(t, 120.5, imported.WeightSamples[0].AvgWeightG)
	assert.Equal(t, 30, imported.WeightSamples[0].SampleSize)
	assert.Equal(t, measurement.SamplingLargest, imported.WeightSamples[0].Method)
}

func TestReadSkipsBlankRowsAndMissingSheets(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Temperatures": {
			{"container_id", "date", "temperature_c"},
			{"", "", ""},
			{"tank-3", "2025-03-01", "8.2"},
		},
	})

	reader := NewMeasurementReader(DefaultImportConfig())
	imported, err := reader.Read(buf)
	require.NoError(t, err)

	assert.Len(t, imported.Readings, 1)
	assert.Empty(t, imported.MortalityEvents)
	assert.Empty(t, imported.WeightSamples)
}

func TestReadRejectsMalformedRows(t *testing.T) {
	cases := []struct {
		name string
		row  []string
	}{
		{"bad date", []string{"tank-1", "03/01/2025", "10.0"}},
		{"bad temperature", []string{"tank-1", "2025-03-01", "warm"}},
		{"empty container", []string{"", "2025-03-01", "10.0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := buildWorkbook(t, map[string][][]string{
				"Temperatures": {
					{"container_id", "date", "temperature_c"},
					tc.row,
				},
			})
			reader := NewMeasurementReader(DefaultImportConfig())
			_, err := reader.Read(buf)
			assert.Error(t, err)
		})
	}
}

func TestReadRejectsUnknownSamplingMethod(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"WeightSamples": {
			{"assignment_id", "date", "avg_weight_g", "sample_size", "method"},
			{"asg-1", "2025-03-01", "100.0", "25", "median"},
		},
	})

	reader := NewMeasurementReader(DefaultImportConfig())
	_, err := reader.Read(buf)
	assert.Error(t, err)
}

func TestReadEmptyWorkbookFails(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Notes": {{"freeform"}},
	})

	reader := NewMeasurementReader(DefaultImportConfig())
	_, err := reader.Read(buf)
	assert.Error(t, err)
}
