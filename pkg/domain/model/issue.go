package model

import (
	"time"

	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// Placeholder values used when the tracker leaves a field empty
const (
	UnassignedName  = "Não Atribuído"
	DefaultPriority = "Medium"
	DefaultSprint   = "Backlog"
	DefaultModule   = "Geral"
)

// Issue is one tracked work item from the portfolio snapshot
type Issue struct {
	Key         types.IssueKey `json:"key" firestore:"key"`
	Summary     string         `json:"summary" firestore:"summary"`
	Type        string         `json:"type" firestore:"type"`
	Status      string         `json:"status" firestore:"status"`
	Priority    string         `json:"priority" firestore:"priority"`
	Assignee    string         `json:"assignee" firestore:"assignee"`
	Project     string         `json:"project" firestore:"project"`
	Created     time.Time      `json:"created" firestore:"created"`
	Resolved    *time.Time     `json:"resolved,omitempty" firestore:"resolved"`
	DueDate     *time.Time     `json:"due_date,omitempty" firestore:"due_date"`
	StoryPoints float64        `json:"story_points" firestore:"story_points"`
	Sprint      string         `json:"sprint" firestore:"sprint"`
	Module      string         `json:"module" firestore:"module"`
	Labels      []string       `json:"labels,omitempty" firestore:"labels"`
}

// ApplyDefaults fills empty descriptive fields with their placeholder values
func (i *Issue) ApplyDefaults() {
	if i.Assignee == "" {
		i.Assignee = UnassignedName
	}
	if i.Priority == "" {
		i.Priority = DefaultPriority
	}
	if i.Sprint == "" {
		i.Sprint = DefaultSprint
	}
	if i.Module == "" {
		i.Module = DefaultModule
	}
}

// IsOverdue reports whether an active issue has passed its due date
func (i *Issue) IsOverdue(vocab *StatusVocabulary, now time.Time) bool {
	if vocab.IsTerminal(i.Status) || i.DueDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return i.DueDate.Before(today)
}

// SnapshotInfo describes the stored issue snapshot
type SnapshotInfo struct {
	ID         types.SnapshotID `json:"id" firestore:"id"`
	FetchedAt  time.Time        `json:"fetched_at" firestore:"fetched_at"`
	IssueCount int              `json:"issue_count" firestore:"issue_count"`
	Source     string           `json:"source" firestore:"source"`
}
