package model

import (
	"slices"
	"time"

	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// SessionSelection is the persisted filter state of one browser session
type SessionSelection struct {
	SessionID       types.SessionID  `json:"session_id" firestore:"session_id"`
	Selection       *FilterSelection `json:"selection" firestore:"selection"`
	LastRawProjects []string         `json:"last_raw_projects,omitempty" firestore:"last_raw_projects"`
	UpdatedAt       time.Time        `json:"updated_at" firestore:"updated_at"`
}

// NewSessionSelection captures the current state of a FilterState
func NewSessionSelection(id types.SessionID, state *FilterState, now time.Time) *SessionSelection {
	return &SessionSelection{
		SessionID:       id,
		Selection:       state.Snapshot(),
		LastRawProjects: state.LastRawProjects(),
		UpdatedAt:       now,
	}
}

// State rebuilds the live FilterState from the persisted record
func (s *SessionSelection) State() *FilterState {
	return RestoreFilterState(s.Selection, s.LastRawProjects)
}

// Copy returns a deep copy of the record
func (s *SessionSelection) Copy() *SessionSelection {
	c := *s
	if s.Selection != nil {
		c.Selection = s.Selection.Copy()
	}
	c.LastRawProjects = slices.Clone(s.LastRawProjects)
	return &c
}
