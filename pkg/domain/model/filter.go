package model

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// AllProjects is the sentinel project value meaning "no specific project filter"
const AllProjects = "Todos"

// FilterSelection is the set of currently selected values per filter dimension
type FilterSelection struct {
	Projects []string     `json:"projects" firestore:"projects"`
	Statuses []string     `json:"statuses" firestore:"statuses"`
	Types    []string     `json:"types" firestore:"types"`
	Period   types.Period `json:"period" firestore:"period"`
}

// NewFilterSelection creates an empty selection with the default period
func NewFilterSelection() *FilterSelection {
	return &FilterSelection{
		Projects: []string{},
		Statuses: []string{},
		Types:    []string{},
		Period:   types.DefaultPeriod,
	}
}

// Copy returns a deep copy of the selection
func (s *FilterSelection) Copy() *FilterSelection {
	return &FilterSelection{
		Projects: cloneValues(s.Projects),
		Statuses: cloneValues(s.Statuses),
		Types:    cloneValues(s.Types),
		Period:   s.Period,
	}
}

// AllProjectsSelected reports whether the "all projects" sentinel is active
func (s *FilterSelection) AllProjectsSelected() bool {
	return slices.Contains(s.Projects, AllProjects)
}

// FilterState owns one live FilterSelection and applies the project
// mutual-exclusivity rule on every projects update. It is not safe for
// concurrent use; callers own a single instance per session.
type FilterState struct {
	selection   *FilterSelection
	lastRawPick []string
}

// NewFilterState creates a state with an empty selection
func NewFilterState() *FilterState {
	return &FilterState{selection: NewFilterSelection()}
}

// RestoreFilterState wraps a previously persisted selection
func RestoreFilterState(selection *FilterSelection, lastRawProjects []string) *FilterState {
	if selection == nil {
		return NewFilterState()
	}
	restored := selection.Copy()
	if restored.Period == "" {
		restored.Period = types.DefaultPeriod
	}
	return &FilterState{
		selection:   restored,
		lastRawPick: slices.Clone(lastRawProjects),
	}
}

// Selection returns the current selection. The returned value must not be modified.
func (s *FilterState) Selection() *FilterSelection {
	return s.selection
}

// LastRawProjects returns the last raw projects input accepted by SetDimension,
// or nil when projects were never set through this state
func (s *FilterState) LastRawProjects() []string {
	return slices.Clone(s.lastRawPick)
}

// Snapshot returns a deep copy of the selection for handing to the data fetch
func (s *FilterState) Snapshot() *FilterSelection {
	return s.selection.Copy()
}

// SetDimension atomically replaces the selection of one dimension. For
// DimensionPeriod the first value becomes the period and an empty input
// restores the default period. Values are not validated against any catalog.
func (s *FilterState) SetDimension(dim types.Dimension, values []string) error {
	switch dim {
	case types.DimensionProjects:
		if s.lastRawPick != nil && slices.Equal(s.lastRawPick, values) {
			return nil
		}
		s.selection.Projects = ResolveProjectSelection(s.selection.Projects, values)
		s.lastRawPick = cloneValues(values)

	case types.DimensionStatuses:
		s.selection.Statuses = cloneValues(values)

	case types.DimensionTypes:
		s.selection.Types = cloneValues(values)

	case types.DimensionPeriod:
		if len(values) == 0 {
			s.selection.Period = types.DefaultPeriod
		} else {
			s.selection.Period = types.Period(values[0])
		}

	default:
		return goerr.New("invalid filter dimension",
			goerr.V("dimension", dim),
			goerr.T(ErrTagInvalidDimension))
	}

	return nil
}

// ToggleType adds or removes one issue type from the types dimension
func (s *FilterState) ToggleType(issueType string, included bool) error {
	current := s.selection.Types
	var next []string

	if included {
		next = cloneValues(current)
		if !slices.Contains(next, issueType) {
			next = append(next, issueType)
		}
	} else {
		next = make([]string, 0, len(current))
		for _, t := range current {
			if t != issueType {
				next = append(next, t)
			}
		}
	}

	return s.SetDimension(types.DimensionTypes, next)
}

// ResolveProjectSelection computes the stored projects selection from the
// previous stored selection and a raw new selection:
//   - activating the sentinel discards every other value
//   - adding a project while the sentinel is active drops the sentinel
//   - anything else is stored unchanged
func ResolveProjectSelection(previous, raw []string) []string {
	wasAllSelected := slices.Contains(previous, AllProjects)
	isAllInNewSelection := slices.Contains(raw, AllProjects)

	switch {
	case isAllInNewSelection && !wasAllSelected:
		return []string{AllProjects}

	case isAllInNewSelection && len(raw) > 1:
		resolved := make([]string, 0, len(raw)-1)
		for _, v := range raw {
			if v != AllProjects {
				resolved = append(resolved, v)
			}
		}
		return resolved

	default:
		return cloneValues(raw)
	}
}

func cloneValues(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
