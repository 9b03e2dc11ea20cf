package usecase

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
)

// Workload thresholds above which an assignee counts as overloaded
const (
	OverloadIssues = 10
	OverloadPoints = 20.0
)

var (
	bugTypes         = []string{"Bug", "Bug Report"}
	criticalPriority = []string{"Highest", "High", "Critical"}
	criticalStatuses = []string{"Escalated", "Blocked", "Impediment"}
)

// DashboardUseCase aggregates the issue snapshot into KPIs and chart series
type DashboardUseCase struct {
	cache *IssueCache
	vocab *model.StatusVocabulary
	now   func() time.Time
}

// NewDashboardUseCase creates a new DashboardUseCase. A nil vocabulary uses the default one.
func NewDashboardUseCase(cache *IssueCache, vocab *model.StatusVocabulary) *DashboardUseCase {
	if vocab == nil {
		vocab = model.DefaultStatusVocabulary()
	}
	return &DashboardUseCase{
		cache: cache,
		vocab: vocab,
		now:   time.Now,
	}
}

// SetClock replaces time.Now, for tests
func (uc *DashboardUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Catalog returns the sorted distinct filter values of the snapshot
func (uc *DashboardUseCase) Catalog(ctx context.Context) (*model.FilterCatalog, error) {
	issues, _, err := uc.cache.Issues(ctx, false)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load issues for catalog")
	}

	return &model.FilterCatalog{
		Projects:  distinct(issues, func(i *model.Issue) string { return i.Project }),
		Statuses:  distinct(issues, func(i *model.Issue) string { return i.Status }),
		Types:     distinct(issues, func(i *model.Issue) string { return i.Type }),
		Assignees: distinct(issues, func(i *model.Issue) string { return i.Assignee }),
	}, nil
}

// Build filters the snapshot by req and computes the dashboard
func (uc *DashboardUseCase) Build(ctx context.Context, req *model.DashboardRequest) (*model.Dashboard, error) {
	if req == nil {
		req = &model.DashboardRequest{FilterSelection: *model.NewFilterSelection()}
	}

	issues, info, err := uc.cache.Issues(ctx, req.ForceRefresh)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load issues for dashboard")
	}

	now := uc.now()
	filtered := uc.Filter(issues, &req.FilterSelection, now)
	statusByProject := StatusByProject(filtered)

	return &model.Dashboard{
		KPIs: uc.KPIs(filtered, now),
		Charts: model.Charts{
			StatusByProject:  statusByProject,
			StatusMatrix:     uc.vocab.Pivot(statusByProject),
			Burndown:         uc.Burnup(filtered),
			TypeDistribution: TypeDistribution(filtered),
			TeamLoad:         uc.TeamLoad(filtered),
			Sprints:          uc.Sprints(filtered),
			StaleIssues:      uc.StaleIssues(filtered, now),
			RiskHeatmap:      uc.RiskHeatmap(filtered, now),
			OverdueProjects:  uc.OverdueProjects(filtered, now),
			CriticalIssues:   uc.CriticalIssues(filtered),
		},
		RawSubset: filtered[:min(len(filtered), model.RawSubsetLimit)],
		Snapshot:  info,
		Generated: now,
	}, nil
}

// StatusMatrix pivots caller-provided flat records with the configured vocabulary
func (uc *DashboardUseCase) StatusMatrix(records []model.StatusCountRecord) *model.StatusMatrix {
	return uc.vocab.Pivot(records)
}

// Filter keeps the issues matching sel. The projects filter is ignored when
// empty or when it holds the all-projects sentinel; statuses and types
// filter only when non-empty.
func (uc *DashboardUseCase) Filter(issues []*model.Issue, sel *model.FilterSelection, now time.Time) []*model.Issue {
	filterProjects := len(sel.Projects) > 0 && !sel.AllProjectsSelected()

	filtered := make([]*model.Issue, 0, len(issues))
	for _, issue := range issues {
		if filterProjects && !slices.Contains(sel.Projects, issue.Project) {
			continue
		}
		if len(sel.Statuses) > 0 && !slices.Contains(sel.Statuses, issue.Status) {
			continue
		}
		if len(sel.Types) > 0 && !slices.Contains(sel.Types, issue.Type) {
			continue
		}
		if !sel.Period.Contains(now, issue.Created) {
			continue
		}
		filtered = append(filtered, issue)
	}
	return filtered
}

// KPIs computes the headline counters
func (uc *DashboardUseCase) KPIs(issues []*model.Issue, now time.Time) model.KPIs {
	var k model.KPIs
	k.Total = len(issues)

	var leadTimeSum, delivered int
	for _, issue := range issues {
		if uc.vocab.IsTerminal(issue.Status) {
			k.Done++
			if issue.Resolved != nil {
				leadTimeSum += daysBetween(issue.Created, *issue.Resolved)
				delivered++
			}
		} else {
			k.Active++
			if issue.IsOverdue(uc.vocab, now) {
				k.Overdue++
			}
			if isCritical(issue) {
				k.Critical++
			}
		}
		if slices.Contains(bugTypes, issue.Type) {
			k.Bugs++
		}
	}

	if delivered > 0 {
		k.LeadTimeDays = float64(leadTimeSum) / float64(delivered)
	}
	return k
}

// StatusByProject counts issues per (project, status), sorted by project then status
func StatusByProject(issues []*model.Issue) []model.StatusCountRecord {
	type key struct{ project, status string }
	counts := make(map[key]int)
	for _, issue := range issues {
		counts[key{issue.Project, issue.Status}]++
	}

	records := make([]model.StatusCountRecord, 0, len(counts))
	for k, n := range counts {
		records = append(records, model.StatusCountRecord{Project: k.project, Status: k.status, Count: n})
	}
	slices.SortFunc(records, func(a, b model.StatusCountRecord) int {
		return cmp.Or(cmp.Compare(a.Project, b.Project), cmp.Compare(a.Status, b.Status))
	})
	return records
}

// Burnup builds daily cumulative created (scope) and resolved (delivered)
// series. A day is present when it lies within the created range or the
// resolved range; counts carry forward across days without events.
func (uc *DashboardUseCase) Burnup(issues []*model.Issue) []model.BurnupPoint {
	created := make(map[time.Time]int)
	delivered := make(map[time.Time]int)
	var scopeRange, deliveredRange dayRange

	for _, issue := range issues {
		day := truncateDay(issue.Created)
		created[day]++
		scopeRange.add(day)

		if uc.vocab.IsTerminal(issue.Status) && issue.Resolved != nil {
			day := truncateDay(*issue.Resolved)
			delivered[day]++
			deliveredRange.add(day)
		}
	}

	points := make([]model.BurnupPoint, 0)
	if !scopeRange.valid && !deliveredRange.valid {
		return points
	}

	first, last := scopeRange.union(deliveredRange)
	scope, done := 0, 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		scope += created[day]
		done += delivered[day]
		if !scopeRange.contains(day) && !deliveredRange.contains(day) {
			continue
		}
		points = append(points, model.BurnupPoint{
			Date:      day.Format(time.DateOnly),
			Scope:     scope,
			Delivered: done,
		})
	}
	return points
}

// TypeDistribution counts issues per type, most frequent first
func TypeDistribution(issues []*model.Issue) []model.TypeCount {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.Type]++
	}

	dist := make([]model.TypeCount, 0, len(counts))
	for name, n := range counts {
		dist = append(dist, model.TypeCount{Name: name, Value: n})
	}
	slices.SortFunc(dist, func(a, b model.TypeCount) int {
		return cmp.Or(cmp.Compare(b.Value, a.Value), cmp.Compare(a.Name, b.Name))
	})
	return dist
}

// TeamLoad sums active issues and story points per assignee, heaviest first
func (uc *DashboardUseCase) TeamLoad(issues []*model.Issue) []model.TeamLoad {
	index := make(map[string]int)
	loads := make([]model.TeamLoad, 0)

	for _, issue := range issues {
		if uc.vocab.IsTerminal(issue.Status) {
			continue
		}
		i, ok := index[issue.Assignee]
		if !ok {
			i = len(loads)
			index[issue.Assignee] = i
			loads = append(loads, model.TeamLoad{Assignee: issue.Assignee})
		}
		loads[i].Issues++
		loads[i].Points += issue.StoryPoints
	}

	for i := range loads {
		loads[i].Overloaded = loads[i].Issues > OverloadIssues || loads[i].Points > OverloadPoints
	}
	slices.SortFunc(loads, func(a, b model.TeamLoad) int {
		return cmp.Or(cmp.Compare(b.Points, a.Points), cmp.Compare(a.Assignee, b.Assignee))
	})
	return loads
}

// Sprints sums story points per sprint, sorted by sprint name. The total
// leaves out the backlog.
func (uc *DashboardUseCase) Sprints(issues []*model.Issue) model.SprintSummary {
	index := make(map[string]int)
	sprints := make([]model.SprintProgress, 0)
	total := model.SprintProgress{}

	for _, issue := range issues {
		i, ok := index[issue.Sprint]
		if !ok {
			i = len(sprints)
			index[issue.Sprint] = i
			sprints = append(sprints, model.SprintProgress{Sprint: issue.Sprint})
		}

		done := 0.0
		if uc.vocab.IsTerminal(issue.Status) {
			done = issue.StoryPoints
		}
		sprints[i].Points += issue.StoryPoints
		sprints[i].Delivered += done
		if issue.Sprint != model.DefaultSprint {
			total.Points += issue.StoryPoints
			total.Delivered += done
		}
	}

	for i := range sprints {
		sprints[i].Progress = progress(sprints[i].Delivered, sprints[i].Points)
	}
	total.Progress = progress(total.Delivered, total.Points)
	slices.SortFunc(sprints, func(a, b model.SprintProgress) int {
		return cmp.Compare(a.Sprint, b.Sprint)
	})

	return model.SprintSummary{Sprints: sprints, Total: total}
}

// StaleIssues returns the oldest open issues, oldest first
func (uc *DashboardUseCase) StaleIssues(issues []*model.Issue, now time.Time) []model.StaleIssue {
	open := make([]*model.Issue, 0)
	for _, issue := range issues {
		if !uc.vocab.IsTerminal(issue.Status) {
			open = append(open, issue)
		}
	}
	slices.SortStableFunc(open, func(a, b *model.Issue) int {
		return a.Created.Compare(b.Created)
	})

	stale := make([]model.StaleIssue, 0, min(len(open), model.StaleIssueLimit))
	for _, issue := range open[:min(len(open), model.StaleIssueLimit)] {
		stale = append(stale, model.StaleIssue{
			Key:      issue.Key,
			Summary:  issue.Summary,
			Assignee: issue.Assignee,
			Status:   issue.Status,
			Created:  issue.Created,
			DaysOpen: daysBetween(issue.Created, now),
		})
	}
	return stale
}

// RiskHeatmap counts overdue issues per (module, status), sorted by module then status
func (uc *DashboardUseCase) RiskHeatmap(issues []*model.Issue, now time.Time) []model.ModuleRisk {
	type key struct{ module, status string }
	counts := make(map[key]int)
	for _, issue := range issues {
		if issue.IsOverdue(uc.vocab, now) {
			counts[key{issue.Module, issue.Status}]++
		}
	}

	cells := make([]model.ModuleRisk, 0, len(counts))
	for k, n := range counts {
		cells = append(cells, model.ModuleRisk{Module: k.module, Status: k.status, Count: n})
	}
	slices.SortFunc(cells, func(a, b model.ModuleRisk) int {
		return cmp.Or(cmp.Compare(a.Module, b.Module), cmp.Compare(a.Status, b.Status))
	})
	return cells
}

// OverdueProjects ranks projects by overdue issues, most first
func (uc *DashboardUseCase) OverdueProjects(issues []*model.Issue, now time.Time) []model.ProjectCount {
	counts := make(map[string]int)
	for _, issue := range issues {
		if issue.IsOverdue(uc.vocab, now) {
			counts[issue.Project]++
		}
	}

	ranking := make([]model.ProjectCount, 0, len(counts))
	for project, n := range counts {
		ranking = append(ranking, model.ProjectCount{Project: project, Count: n})
	}
	slices.SortFunc(ranking, func(a, b model.ProjectCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Project, b.Project))
	})
	return ranking[:min(len(ranking), model.OverdueProjectLimit)]
}

// CriticalIssues lists open issues with a critical priority or a blocking status
func (uc *DashboardUseCase) CriticalIssues(issues []*model.Issue) []*model.Issue {
	critical := make([]*model.Issue, 0)
	for _, issue := range issues {
		if !uc.vocab.IsTerminal(issue.Status) && isCritical(issue) {
			critical = append(critical, issue)
		}
	}
	return critical
}

func isCritical(issue *model.Issue) bool {
	return slices.Contains(criticalPriority, issue.Priority) || slices.Contains(criticalStatuses, issue.Status)
}

func progress(done, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return done / total * 100
}

// daysBetween returns the whole days elapsed from start to end
func daysBetween(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Hours() / 24))
}

func distinct(issues []*model.Issue, field func(*model.Issue) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, issue := range issues {
		v := field(issue)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

type dayRange struct {
	valid       bool
	first, last time.Time
}

func (r *dayRange) add(day time.Time) {
	if !r.valid {
		r.valid, r.first, r.last = true, day, day
		return
	}
	if day.Before(r.first) {
		r.first = day
	}
	if day.After(r.last) {
		r.last = day
	}
}

func (r dayRange) contains(day time.Time) bool {
	return r.valid && !day.Before(r.first) && !day.After(r.last)
}

func (r dayRange) union(o dayRange) (time.Time, time.Time) {
	switch {
	case !r.valid:
		return o.first, o.last
	case !o.valid:
		return r.first, r.last
	}
	first, last := r.first, r.last
	if o.first.Before(first) {
		first = o.first
	}
	if o.last.After(last) {
		last = o.last
	}
	return first, last
}

// truncateDay maps t to midnight UTC of its UTC calendar day
func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
