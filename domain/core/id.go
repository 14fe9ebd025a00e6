package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	BatchID         ID
	ContainerID     ID
	AssignmentID    ID
	ScenarioID      ID
	ProjectionRunID ID
)

// String conversions for domain IDs
func (id BatchID) String() string         { return ID(id).String() }
func (id ContainerID) String() string     { return ID(id).String() }
func (id AssignmentID) String() string    { return ID(id).String() }
func (id ScenarioID) String() string      { return ID(id).String() }
func (id ProjectionRunID) String() string { return ID(id).String() }

// ParseAssignmentID parses a string into AssignmentID
func ParseAssignmentID(s string) (AssignmentID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("assignment ID cannot be empty")
	}
	return AssignmentID(s), nil
}

// ParseContainerID parses a string into ContainerID
func ParseContainerID(s string) (ContainerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("container ID cannot be empty")
	}
	return ContainerID(s), nil
}

// ParseScenarioID parses a string into ScenarioID
func ParseScenarioID(s string) (ScenarioID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("scenario ID cannot be empty")
	}
	return ScenarioID(s), nil
}
