package ports

import (
	"context"

	"aquafold/domain/batch"
	"aquafold/domain/core"
)

// AssignmentRepository provides read access to fish-holding assignments.
// The engine never creates or mutates assignments; their live fields seed
// day one of a recompute and nothing more.
type AssignmentRepository interface {
	GetAssignment(ctx context.Context, id core.AssignmentID) (*batch.Assignment, error)
	ListByBatch(ctx context.Context, batchID core.BatchID) ([]*batch.Assignment, error)
	ListActive(ctx context.Context) ([]*batch.Assignment, error)
}
