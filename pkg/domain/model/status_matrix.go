package model

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// StatusCountRecord is one (project, status, count) tuple of the flat input
type StatusCountRecord struct {
	Project string `json:"project"`
	Status  string `json:"status"`
	Count   int    `json:"count"`
}

// PivotedRow holds the per-status counts of one project. A status missing
// from Counts means a zero count for that project. In JSON a status named
// "name" is shadowed by the project name.
type PivotedRow struct {
	Name   string
	Counts map[string]int
}

// MarshalJSON flattens the row into {"name": ..., "<status>": count}
func (r PivotedRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Counts)+1)
	for status, count := range r.Counts {
		flat[status] = count
	}
	flat["name"] = r.Name
	return json.Marshal(flat)
}

// StatusMatrix is the chart-ready project x status pivot
type StatusMatrix struct {
	Rows    []PivotedRow `json:"rows"`
	Columns []string     `json:"columns"`
}

// StatusVocabulary is the static domain vocabulary used by the pivot
type StatusVocabulary struct {
	// Terminal lists done-like status labels, matched exactly
	Terminal []string `yaml:"terminal" json:"terminal"`
	// PreferredOrder lists known statuses in triage order, matched after trim and lower-case
	PreferredOrder []string `yaml:"preferred_order" json:"preferred_order"`
}

// DefaultStatusVocabulary returns the built-in vocabulary
func DefaultStatusVocabulary() *StatusVocabulary {
	return &StatusVocabulary{
		Terminal: []string{
			"Concluído",
			"Done",
			"Finalizado",
			"Resolvido",
			"Closed",
		},
		PreferredOrder: []string{
			"Tarefas pendentes",
			"Escalated",
			"Em andamento",
			"Pronto para QA",
			"Aguardando aprovação",
			"Bug report",
		},
	}
}

// Validate validates the vocabulary
func (v *StatusVocabulary) Validate() error {
	if len(v.Terminal) == 0 {
		return goerr.New("at least one terminal status is required")
	}
	for i, status := range v.Terminal {
		if status == "" {
			return goerr.New("terminal status is empty", goerr.V("index", i))
		}
	}
	for i, status := range v.PreferredOrder {
		if normalizeStatus(status) == "" {
			return goerr.New("preferred status is empty", goerr.V("index", i))
		}
	}
	return nil
}

// IsTerminal reports whether the status is done-equivalent
func (v *StatusVocabulary) IsTerminal(status string) bool {
	return slices.Contains(v.Terminal, status)
}

// Pivot converts flat records into a project x status matrix, dropping
// terminal statuses. Rows keep first-occurrence order of projects; a
// repeated (project, status) pair overwrites the earlier count.
func (v *StatusVocabulary) Pivot(records []StatusCountRecord) *StatusMatrix {
	rows := make([]PivotedRow, 0)
	rowIndex := make(map[string]int)
	seen := make(map[string]struct{})
	columns := make([]string, 0)

	for _, rec := range records {
		if v.IsTerminal(rec.Status) {
			continue
		}

		idx, ok := rowIndex[rec.Project]
		if !ok {
			idx = len(rows)
			rowIndex[rec.Project] = idx
			rows = append(rows, PivotedRow{
				Name:   rec.Project,
				Counts: make(map[string]int),
			})
		}
		rows[idx].Counts[rec.Status] = rec.Count

		if _, ok := seen[rec.Status]; !ok {
			seen[rec.Status] = struct{}{}
			columns = append(columns, rec.Status)
		}
	}

	v.sortColumns(columns)

	return &StatusMatrix{
		Rows:    rows,
		Columns: columns,
	}
}

// sortColumns orders statuses by preferred rank, then unmatched statuses
// lexicographically. Equal ranks fall back to the original label.
func (v *StatusVocabulary) sortColumns(columns []string) {
	rank := make(map[string]int, len(v.PreferredOrder))
	for i, status := range v.PreferredOrder {
		key := normalizeStatus(status)
		if _, dup := rank[key]; !dup {
			rank[key] = i
		}
	}

	unmatched := len(v.PreferredOrder)
	rankOf := func(status string) int {
		if r, ok := rank[normalizeStatus(status)]; ok {
			return r
		}
		return unmatched
	}

	slices.SortFunc(columns, func(a, b string) int {
		ra, rb := rankOf(a), rankOf(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
}

// PivotStatusMatrix pivots records with the default vocabulary
func PivotStatusMatrix(records []StatusCountRecord) *StatusMatrix {
	return DefaultStatusVocabulary().Pivot(records)
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
