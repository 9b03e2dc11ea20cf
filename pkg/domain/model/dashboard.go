package model

import (
	"time"

	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// FilterCatalog enumerates selectable filter values
type FilterCatalog struct {
	Projects  []string `json:"projects"`
	Statuses  []string `json:"statuses"`
	Types     []string `json:"types"`
	Assignees []string `json:"assignees"`
}

// DashboardRequest is a filter snapshot plus fetch options
type DashboardRequest struct {
	FilterSelection
	ForceRefresh bool `json:"force_refresh"`
}

// KPIs holds the headline counters of the dashboard
type KPIs struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Done     int `json:"done"`
	Bugs     int `json:"bugs"`
	Overdue  int `json:"overdue"`
	Critical int `json:"critical"`

	// LeadTimeDays is the mean of whole days from creation to resolution
	// over delivered issues, 0 when none was delivered
	LeadTimeDays float64 `json:"lead_time_days"`
}

// BurnupPoint is one day of cumulative scope and delivery. Date is YYYY-MM-DD.
type BurnupPoint struct {
	Date      string `json:"date"`
	Scope     int    `json:"scope"`
	Delivered int    `json:"delivered"`
}

// TypeCount holds the number of issues of one type
type TypeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TeamLoad holds the active workload of one assignee
type TeamLoad struct {
	Assignee   string  `json:"assignee"`
	Issues     int     `json:"issues"`
	Points     float64 `json:"points"`
	Overloaded bool    `json:"overloaded"`
}

// SprintProgress holds story points committed and delivered in one sprint.
// Progress is a percentage.
type SprintProgress struct {
	Sprint    string  `json:"sprint"`
	Points    float64 `json:"points"`
	Delivered float64 `json:"delivered"`
	Progress  float64 `json:"progress"`
}

// SprintSummary holds per-sprint progress plus the total over every sprint
// except the backlog
type SprintSummary struct {
	Sprints []SprintProgress `json:"sprints"`
	Total   SprintProgress   `json:"total"`
}

// StaleIssue is an open issue ranked by age
type StaleIssue struct {
	Key      types.IssueKey `json:"key"`
	Summary  string         `json:"summary"`
	Assignee string         `json:"assignee"`
	Status   string         `json:"status"`
	Created  time.Time      `json:"created"`
	DaysOpen int            `json:"days_open"`
}

// StaleIssueLimit caps the stale issue list
const StaleIssueLimit = 10

// ModuleRisk counts overdue issues of one (module, status) cell
type ModuleRisk struct {
	Module string `json:"module"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ProjectCount counts issues of one project
type ProjectCount struct {
	Project string `json:"project"`
	Count   int    `json:"count"`
}

// OverdueProjectLimit caps the overdue-by-project ranking
const OverdueProjectLimit = 10

// Charts holds chart-ready series
type Charts struct {
	StatusByProject  []StatusCountRecord `json:"status_by_project"`
	StatusMatrix     *StatusMatrix       `json:"status_matrix"`
	Burndown         []BurnupPoint       `json:"burndown"`
	TypeDistribution []TypeCount         `json:"type_distribution"`
	TeamLoad         []TeamLoad          `json:"team_load"`
	Sprints          SprintSummary       `json:"sprints"`
	StaleIssues      []StaleIssue        `json:"stale_issues"`
	RiskHeatmap      []ModuleRisk        `json:"risk_heatmap"`
	OverdueProjects  []ProjectCount      `json:"overdue_projects"`
	CriticalIssues   []*Issue            `json:"critical_issues"`
}

// RawSubsetLimit caps the issue preview attached to a dashboard
const RawSubsetLimit = 50

// Dashboard is the full response for one filter snapshot
type Dashboard struct {
	KPIs      KPIs          `json:"kpis"`
	Charts    Charts        `json:"charts"`
	RawSubset []*Issue      `json:"raw_subset"`
	Snapshot  *SnapshotInfo `json:"snapshot,omitempty"`
	Generated time.Time     `json:"generated_at"`
}
