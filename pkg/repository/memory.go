package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu         sync.RWMutex
	snapshot   *model.SnapshotInfo
	issues     []*model.Issue
	selections map[types.SessionID]*model.SessionSelection
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		selections: make(map[types.SessionID]*model.SessionSelection),
	}
}

// PutSnapshot replaces the stored issue snapshot
func (m *Memory) PutSnapshot(ctx context.Context, info *model.SnapshotInfo, issues []*model.Issue) error {
	if info == nil {
		return goerr.New("snapshot info is nil")
	}
	if info.ID == "" {
		return goerr.New("snapshot ID is empty")
	}

	copied := make([]*model.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue == nil {
			continue
		}
		copied = append(copied, copyIssue(issue))
	}

	infoCopy := *info
	infoCopy.IssueCount = len(copied)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = &infoCopy
	m.issues = copied
	return nil
}

// GetSnapshotInfo returns metadata of the stored snapshot
func (m *Memory) GetSnapshotInfo(ctx context.Context) (*model.SnapshotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot stored")
	}

	infoCopy := *m.snapshot
	return &infoCopy, nil
}

// ListIssues returns the issues of snapshot id
func (m *Memory) ListIssues(ctx context.Context, id types.SnapshotID) ([]*model.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot stored")
	}
	if m.snapshot.ID != id {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "snapshot was replaced",
			goerr.V("snapshot_id", id),
			goerr.V("current_id", m.snapshot.ID))
	}

	issues := make([]*model.Issue, 0, len(m.issues))
	for _, issue := range m.issues {
		issues = append(issues, copyIssue(issue))
	}
	return issues, nil
}

// SaveSelection saves the filter selection of a session
func (m *Memory) SaveSelection(ctx context.Context, selection *model.SessionSelection) error {
	if selection == nil {
		return goerr.New("selection is nil")
	}
	if selection.SessionID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.selections[selection.SessionID] = selection.Copy()
	return nil
}

// GetSelection retrieves the filter selection of a session
func (m *Memory) GetSelection(ctx context.Context, id types.SessionID) (*model.SessionSelection, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	selection, exists := m.selections[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSelectionNotFound, "selection not found", goerr.V("session_id", id))
	}

	return selection.Copy(), nil
}

// DeleteSelection deletes the filter selection of a session
func (m *Memory) DeleteSelection(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.selections, id)
	return nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}

func copyIssue(issue *model.Issue) *model.Issue {
	c := *issue
	if issue.Resolved != nil {
		resolved := *issue.Resolved
		c.Resolved = &resolved
	}
	if issue.DueDate != nil {
		due := *issue.DueDate
		c.DueDate = &due
	}
	if issue.Labels != nil {
		c.Labels = append([]string{}, issue.Labels...)
	}
	return &c
}
var _ interfaces.Repository = (*Memory)(nil)
