package types

import (
	"github.com/google/uuid"
)

// SessionID identifies one browser session holding a live filter selection
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID using UUID v7
func NewSessionID() (SessionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return SessionID(id.String()), nil
}

// SnapshotID identifies one fetched generation of the issue snapshot
type SnapshotID string

// String returns the string representation
func (id SnapshotID) String() string {
	return string(id)
}

// NewSnapshotID creates a new SnapshotID
func NewSnapshotID() SnapshotID {
	return SnapshotID(uuid.New().String())
}

// IssueKey is the tracker key of an issue (e.g. "PROJ-123")
type IssueKey string

// String returns the string representation
func (k IssueKey) String() string {
	return string(k)
}

// Dimension names one of the global filter dimensions
type Dimension string

const (
	DimensionProjects Dimension = "projects"
	DimensionStatuses Dimension = "statuses"
	DimensionTypes    Dimension = "types"
	DimensionPeriod   Dimension = "period"
)

// String returns the string representation of the dimension
func (d Dimension) String() string {
	return string(d)
}

// IsValid checks if the dimension is one of the known filter dimensions
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionProjects, DimensionStatuses, DimensionTypes, DimensionPeriod:
		return true
	default:
		return false
	}
}
