package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors - fatal at engine construction, never retried
	ErrConfiguration = errors.New("engine configuration invalid")
	ErrNoScenario    = fmt.Errorf("%w: no scenario available", ErrConfiguration)

	// Data gap errors - a required prior day's state is missing
	ErrDataGap = errors.New("assimilation chain gap")

	// Data source errors - a measurement/profile lookup itself failed
	ErrDataSource = errors.New("data source failure")

	// Computation errors - invalid numeric inputs reached the daily math
	ErrComputation        = errors.New("computation invalid")
	ErrNegativePopulation = fmt.Errorf("%w: negative population", ErrComputation)
	ErrNegativeWeight     = fmt.Errorf("%w: negative weight", ErrComputation)
	ErrMortalityRange     = fmt.Errorf("%w: mortality count out of range", ErrComputation)

	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrAssignmentNotFound = fmt.Errorf("%w: assignment", ErrNotFound)
	ErrScenarioNotFound   = fmt.Errorf("%w: scenario", ErrNotFound)
	ErrDayStateNotFound   = fmt.Errorf("%w: daily state", ErrNotFound)
)

// Error constructors with context
func NewDataGapError(assignmentID AssignmentID, missing Date) error {
	return fmt.Errorf("%w: assignment %s has no state for %s", ErrDataGap, assignmentID, missing)
}

func NewDataSourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataSource, source, err)
}

func NewComputationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrComputation, field, reason)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDataGapError(err error) bool {
	return errors.Is(err, ErrDataGap)
}

func IsDataSourceError(err error) bool {
	return errors.Is(err, ErrDataSource)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
