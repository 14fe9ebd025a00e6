package assimilation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquafold/domain/core"
)

func validDayState() *DayState {
	s := &DayState{
		AssignmentID: core.AssignmentID("a-1"),
		StateDate:    core.NewDate(2025, time.March, 1),
		DayNumber:    1,
		AvgWeightG:   2.0,
		Population:   1000,
		BiomassKG:    2.0,
	}
	s.SetResolution(FieldTemperature, SourceMeasured, 1.0)
	s.SetResolution(FieldMortality, SourceModel, 0.4)
	s.SetResolution(FieldWeight, SourceCalculated, 1.0)
	return s
}

func TestDayStateValidateAccepts(t *testing.T) {
	require.NoError(t, validDayState().Validate())
}

func TestDayStateValidateRejections(t *testing.T) {
	t.Run("zero day number", func(t *testing.T) {
		s := validDayState()
		s.DayNumber = 0
		assert.Error(t, s.Validate())
	})

	t.Run("negative population", func(t *testing.T) {
		s := validDayState()
		s.Population = -1
		s.BiomassKG = -0.002
		assert.ErrorIs(t, s.Validate(), core.ErrNegativePopulation)
	})

	t.Run("biomass mismatch", func(t *testing.T) {
		s := validDayState()
		s.BiomassKG = 3.5
		err := s.Validate()
		require.Error(t, err)
		assert.True(t, core.IsComputationError(err))
	})

	t.Run("invalid source tag", func(t *testing.T) {
		s := validDayState()
		s.Sources[FieldTemperature] = SourceTag("guessed")
		assert.Error(t, s.Validate())
	})

	t.Run("confidence out of range", func(t *testing.T) {
		s := validDayState()
		s.Confidence[FieldWeight] = 1.3
		assert.Error(t, s.Validate())
	})
}

func TestSourceTagValid(t *testing.T) {
	for _, tag := range []SourceTag{SourceMeasured, SourceProfile, SourceActual, SourceModel, SourceSampled, SourceCalculated} {
		assert.True(t, tag.Valid(), string(tag))
	}
	assert.False(t, SourceTag("").Valid())
	assert.False(t, SourceTag("guessed").Valid())
}

func TestRecomputeResultAccessors(t *testing.T) {
	r := &RecomputeResult{RowsCreated: 2, RowsUpdated: 3}
	assert.Equal(t, 5, r.Days())
	assert.False(t, r.Failed())

	r.Errors = append(r.Errors, DayError{Date: core.NewDate(2025, time.March, 4), Reason: "gap"})
	assert.True(t, r.Failed())
	assert.Equal(t, "2025-03-04: gap", r.Errors[0].String())
}
