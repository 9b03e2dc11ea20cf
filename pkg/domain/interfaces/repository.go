package interfaces

//go:generate moq -out mocks/source_mock.go -pkg mocks . IssueSource

import (
	"context"

	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// Snapshot operations
	PutSnapshot(ctx context.Context, info *model.SnapshotInfo, issues []*model.Issue) error
	GetSnapshotInfo(ctx context.Context) (*model.SnapshotInfo, error)
	// ListIssues returns the issues of snapshot id, failing with
	// model.ErrSnapshotNotFound once id is no longer the current snapshot
	ListIssues(ctx context.Context, id types.SnapshotID) ([]*model.Issue, error)

	// Session selection operations
	SaveSelection(ctx context.Context, selection *model.SessionSelection) error
	GetSelection(ctx context.Context, id types.SessionID) (*model.SessionSelection, error)
	DeleteSelection(ctx context.Context, id types.SessionID) error

	// Close closes the repository connection
	Close() error
}

// IssueSource fetches the full issue snapshot from an external tracker
type IssueSource interface {
	Name() string
	FetchIssues(ctx context.Context) ([]*model.Issue, error)
}
