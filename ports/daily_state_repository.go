package ports

import (
	"context"

	"aquafold/domain/assimilation"
	"aquafold/domain/core"
)

// DailyStateRepository is the engine's output store: one row per
// (assignment, date), upserted in place so recomputes are idempotent.
type DailyStateRepository interface {
	// Upsert writes a daily row keyed on (assignment, date). Returns true
	// when a new row was inserted, false when an existing row was updated.
	Upsert(ctx context.Context, state *assimilation.DayState) (created bool, err error)

	// GetDayState reads the row for one date. Returns
	// core.ErrDayStateNotFound when absent.
	GetDayState(ctx context.Context, assignmentID core.AssignmentID, date core.Date) (*assimilation.DayState, error)

	// ListRange returns an assignment's rows for [start, end] in date order.
	ListRange(ctx context.Context, assignmentID core.AssignmentID, start, end core.Date) ([]*assimilation.DayState, error)
}
