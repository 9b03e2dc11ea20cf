package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
	"github.com/marcelogarciass/dashboard-projeto/pkg/repository"
	"github.com/marcelogarciass/dashboard-projeto/pkg/usecase"
)

var dashboardNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func dashboardIssues() []*model.Issue {
	day := func(m time.Month, d int) time.Time {
		return time.Date(2025, m, d, 10, 0, 0, 0, time.UTC)
	}
	issues := []*model.Issue{
		{Key: "A-1", Project: "Alpha", Status: "Escalated", Type: "Bug", Priority: "Low", Assignee: "Ana", StoryPoints: 3, Created: day(3, 1), DueDate: ptrTime(day(3, 10))},
		{Key: "A-2", Project: "Alpha", Status: "Em andamento", Type: "Story", Priority: "Highest", Assignee: "Ana", StoryPoints: 5, Created: day(3, 2)},
		{Key: "A-3", Project: "Alpha", Status: "Done", Type: "Story", Assignee: "Bruno", StoryPoints: 8, Created: day(3, 2), Resolved: ptrTime(day(3, 4)), DueDate: ptrTime(day(3, 1))},
		{Key: "B-1", Project: "Beta", Status: "Tarefas pendentes", Type: "Task", Assignee: "Bruno", StoryPoints: 1, Created: day(3, 4)},
		{Key: "B-2", Project: "Beta", Status: "Bug report", Type: "Bug Report", Created: day(1, 20)},
	}
	for _, issue := range issues {
		issue.ApplyDefaults()
	}
	return issues
}

func newDashboard(t *testing.T) *usecase.DashboardUseCase {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemory()
	gt.NoError(t, repo.PutSnapshot(ctx, &model.SnapshotInfo{ID: types.NewSnapshotID(), FetchedAt: dashboardNow, Source: "seed"}, dashboardIssues())).Required()

	cache, err := usecase.NewIssueCache(repo)
	gt.NoError(t, err).Required()

	uc := usecase.NewDashboardUseCase(cache, nil)
	uc.SetClock(func() time.Time { return dashboardNow })
	return uc
}

func TestDashboardCatalog(t *testing.T) {
	catalog, err := newDashboard(t).Catalog(context.Background())
	gt.NoError(t, err).Required()

	gt.Equal(t, catalog.Projects, []string{"Alpha", "Beta"})
	gt.Equal(t, catalog.Statuses, []string{"Bug report", "Done", "Em andamento", "Escalated", "Tarefas pendentes"})
	gt.Equal(t, catalog.Types, []string{"Bug", "Bug Report", "Story", "Task"})
	gt.Equal(t, catalog.Assignees, []string{"Ana", "Bruno", model.UnassignedName})
}

func TestDashboardBuild(t *testing.T) {
	ctx := context.Background()
	uc := newDashboard(t)

	t.Run("unfiltered", func(t *testing.T) {
		d, err := uc.Build(ctx, &model.DashboardRequest{FilterSelection: *model.NewFilterSelection()})
		gt.NoError(t, err).Required()

		gt.Equal(t, d.KPIs, model.KPIs{Total: 5, Active: 4, Done: 1, Bugs: 2, Overdue: 1, Critical: 2, LeadTimeDays: 2})
		gt.Equal(t, d.Charts.StatusByProject, []model.StatusCountRecord{
			{Project: "Alpha", Status: "Done", Count: 1},
			{Project: "Alpha", Status: "Em andamento", Count: 1},
			{Project: "Alpha", Status: "Escalated", Count: 1},
			{Project: "Beta", Status: "Bug report", Count: 1},
			{Project: "Beta", Status: "Tarefas pendentes", Count: 1},
		})
		gt.Equal(t, d.Charts.StatusMatrix.Columns, []string{"Tarefas pendentes", "Escalated", "Em andamento", "Bug report"})
		gt.A(t, d.Charts.StatusMatrix.Rows).Length(2)
		gt.Equal(t, d.Charts.TypeDistribution[0], model.TypeCount{Name: "Story", Value: 2})
		gt.A(t, d.Charts.Burndown).Longer(0)
		gt.A(t, d.Charts.TeamLoad).Length(3)
		gt.A(t, d.RawSubset).Length(5)
		gt.Equal(t, d.Charts.Sprints.Total, model.SprintProgress{})
		gt.A(t, d.Charts.StaleIssues).Length(4)
		gt.Equal(t, d.Charts.StaleIssues[0].Key, types.IssueKey("B-2"))
		gt.Equal(t, d.Charts.RiskHeatmap, []model.ModuleRisk{{Module: model.DefaultModule, Status: "Escalated", Count: 1}})
		gt.Equal(t, d.Charts.OverdueProjects, []model.ProjectCount{{Project: "Alpha", Count: 1}})
		gt.A(t, d.Charts.CriticalIssues).Length(2)
		gt.Equal(t, d.Snapshot.Source, "seed")
		gt.True(t, d.Generated.Equal(dashboardNow))
	})

	t.Run("all-projects sentinel does not filter", func(t *testing.T) {
		sel := model.NewFilterSelection()
		sel.Projects = []string{model.AllProjects}
		d, err := uc.Build(ctx, &model.DashboardRequest{FilterSelection: *sel})
		gt.NoError(t, err).Required()
		gt.Equal(t, d.KPIs.Total, 5)
	})

	t.Run("project, status and type filters", func(t *testing.T) {
		sel := model.NewFilterSelection()
		sel.Projects = []string{"Alpha"}
		sel.Types = []string{"Story"}
		d, err := uc.Build(ctx, &model.DashboardRequest{FilterSelection: *sel})
		gt.NoError(t, err).Required()
		gt.Equal(t, d.KPIs.Total, 2)

		sel.Statuses = []string{"Done"}
		d, err = uc.Build(ctx, &model.DashboardRequest{FilterSelection: *sel})
		gt.NoError(t, err).Required()
		gt.Equal(t, d.KPIs.Total, 1)
		gt.A(t, d.Charts.StatusMatrix.Rows).Length(0)
		gt.A(t, d.Charts.StatusMatrix.Columns).Length(0)
	})

	t.Run("period filter", func(t *testing.T) {
		sel := model.NewFilterSelection()
		sel.Period = types.PeriodThisMonth
		d, err := uc.Build(ctx, &model.DashboardRequest{FilterSelection: *sel})
		gt.NoError(t, err).Required()
		gt.Equal(t, d.KPIs.Total, 4)
	})

	t.Run("nil request uses the default selection", func(t *testing.T) {
		d, err := uc.Build(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Equal(t, d.KPIs.Total, 5)
	})
}

func TestTypeDistribution(t *testing.T) {
	dist := usecase.TypeDistribution(dashboardIssues())
	gt.Equal(t, dist, []model.TypeCount{
		{Name: "Story", Value: 2},
		{Name: "Bug", Value: 1},
		{Name: "Bug Report", Value: 1},
		{Name: "Task", Value: 1},
	})
}

func TestTeamLoad(t *testing.T) {
	uc := newDashboard(t)

	loads := uc.TeamLoad(dashboardIssues())
	gt.Equal(t, loads, []model.TeamLoad{
		{Assignee: "Ana", Issues: 2, Points: 8},
		{Assignee: "Bruno", Issues: 1, Points: 1},
		{Assignee: model.UnassignedName, Issues: 1, Points: 0},
	})

	var heavy []*model.Issue
	for i := range 11 {
		heavy = append(heavy, &model.Issue{
			Key:      types.IssueKey("H-" + string(rune('a'+i))),
			Status:   "Em andamento",
			Assignee: "Carla",
		})
	}
	heavy = append(heavy, &model.Issue{Key: "P-1", Status: "Escalated", Assignee: "Davi", StoryPoints: 21})

	loads = uc.TeamLoad(heavy)
	gt.A(t, loads).Length(2)
	gt.Equal(t, loads[0].Assignee, "Davi")
	gt.True(t, loads[0].Overloaded)
	gt.Equal(t, loads[1].Assignee, "Carla")
	gt.True(t, loads[1].Overloaded)
}

func TestBurnup(t *testing.T) {
	uc := newDashboard(t)

	t.Run("empty", func(t *testing.T) {
		points := uc.Burnup(nil)
		gt.True(t, points != nil)

		raw, err := json.Marshal(points)
		gt.NoError(t, err).Required()
		gt.Equal(t, string(raw), "[]")
	})

	t.Run("cumulative series carry forward", func(t *testing.T) {
		day := func(d int) time.Time { return time.Date(2025, 3, d, 15, 0, 0, 0, time.UTC) }
		issues := []*model.Issue{
			{Key: "1", Status: "Done", Created: day(1), Resolved: ptrTime(day(3))},
			{Key: "2", Status: "Escalated", Created: day(1)},
			{Key: "3", Status: "Done", Created: day(2), Resolved: ptrTime(day(5))},
			// resolved date on a non-terminal issue is ignored
			{Key: "4", Status: "Em andamento", Created: day(2), Resolved: ptrTime(day(4))},
		}

		gt.Equal(t, uc.Burnup(issues), []model.BurnupPoint{
			{Date: "2025-03-01", Scope: 2, Delivered: 0},
			{Date: "2025-03-02", Scope: 4, Delivered: 0},
			{Date: "2025-03-03", Scope: 4, Delivered: 1},
			{Date: "2025-03-04", Scope: 4, Delivered: 1},
			{Date: "2025-03-05", Scope: 4, Delivered: 2},
		})
	})

	t.Run("days between disjoint ranges are skipped", func(t *testing.T) {
		issues := []*model.Issue{
			{Key: "1", Status: "Done", Created: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Resolved: ptrTime(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))},
		}
		gt.Equal(t, uc.Burnup(issues), []model.BurnupPoint{
			{Date: "2025-03-01", Scope: 1, Delivered: 0},
			{Date: "2025-03-04", Scope: 1, Delivered: 1},
		})
	})
}

func TestStatusMatrixUsesVocabulary(t *testing.T) {
	cache, err := usecase.NewIssueCache(repository.NewMemory())
	gt.NoError(t, err).Required()

	uc := usecase.NewDashboardUseCase(cache, &model.StatusVocabulary{
		Terminal:       []string{"Shipped"},
		PreferredOrder: []string{"Doing"},
	})
	m := uc.StatusMatrix([]model.StatusCountRecord{
		{Project: "P", Status: "Shipped", Count: 1},
		{Project: "P", Status: "Done", Count: 2},
		{Project: "P", Status: "Doing", Count: 3},
	})
	gt.Equal(t, m.Columns, []string{"Doing", "Done"})
}

func TestLeadTime(t *testing.T) {
	uc := newDashboard(t)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		issues []*model.Issue
		want   float64
	}{
		{
			name:   "nothing delivered",
			issues: []*model.Issue{{Key: "1", Status: "Em andamento", Created: created}},
			want:   0,
		},
		{
			name: "mean of whole days",
			issues: []*model.Issue{
				{Key: "1", Status: "Done", Created: created, Resolved: ptrTime(created.Add(48 * time.Hour))},
				{Key: "2", Status: "Closed", Created: created, Resolved: ptrTime(created.Add(5*24*time.Hour + 12*time.Hour))},
			},
			want: 3.5,
		},
		{
			name: "done without resolution date is left out",
			issues: []*model.Issue{
				{Key: "1", Status: "Done", Created: created, Resolved: ptrTime(created.Add(24 * time.Hour))},
				{Key: "2", Status: "Done", Created: created},
			},
			want: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, uc.KPIs(tc.issues, dashboardNow).LeadTimeDays, tc.want)
		})
	}
}

func TestSprints(t *testing.T) {
	uc := newDashboard(t)

	testCases := []struct {
		name   string
		issues []*model.Issue
		want   model.SprintSummary
	}{
		{
			name:   "no issues",
			issues: nil,
			want:   model.SprintSummary{Sprints: []model.SprintProgress{}},
		},
		{
			name: "points per sprint with backlog out of the total",
			issues: []*model.Issue{
				{Key: "1", Sprint: "Sprint 2", Status: "Done", StoryPoints: 5},
				{Key: "2", Sprint: "Sprint 2", Status: "Em andamento", StoryPoints: 3},
				{Key: "3", Sprint: "Sprint 3", Status: "Escalated", StoryPoints: 2},
				{Key: "4", Sprint: model.DefaultSprint, Status: "Concluído", StoryPoints: 4},
			},
			want: model.SprintSummary{
				Sprints: []model.SprintProgress{
					{Sprint: model.DefaultSprint, Points: 4, Delivered: 4, Progress: 100},
					{Sprint: "Sprint 2", Points: 8, Delivered: 5, Progress: 62.5},
					{Sprint: "Sprint 3", Points: 2, Delivered: 0, Progress: 0},
				},
				Total: model.SprintProgress{Points: 10, Delivered: 5, Progress: 50},
			},
		},
		{
			name: "sprint without points has no progress",
			issues: []*model.Issue{
				{Key: "1", Sprint: "Sprint 1", Status: "Done"},
			},
			want: model.SprintSummary{
				Sprints: []model.SprintProgress{{Sprint: "Sprint 1"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, uc.Sprints(tc.issues), tc.want)
		})
	}
}

func TestStaleIssues(t *testing.T) {
	uc := newDashboard(t)
	day := func(d int) time.Time { return time.Date(2025, 2, d, 12, 0, 0, 0, time.UTC) }

	testCases := []struct {
		name     string
		issues   []*model.Issue
		wantKeys []types.IssueKey
		wantDays []int
	}{
		{
			name:     "no issues",
			wantKeys: []types.IssueKey{},
			wantDays: []int{},
		},
		{
			name: "open issues oldest first",
			issues: []*model.Issue{
				{Key: "new", Status: "Em andamento", Created: day(20)},
				{Key: "done", Status: "Done", Created: day(1)},
				{Key: "old", Status: "Escalated", Created: day(3)},
			},
			wantKeys: []types.IssueKey{"old", "new"},
			wantDays: []int{40, 23},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stale := uc.StaleIssues(tc.issues, dashboardNow)
			keys := make([]types.IssueKey, 0, len(stale))
			days := make([]int, 0, len(stale))
			for _, s := range stale {
				keys = append(keys, s.Key)
				days = append(days, s.DaysOpen)
			}
			gt.Equal(t, keys, tc.wantKeys)
			gt.Equal(t, days, tc.wantDays)
		})
	}

	t.Run("capped at the limit", func(t *testing.T) {
		var issues []*model.Issue
		for i := range model.StaleIssueLimit + 3 {
			issues = append(issues, &model.Issue{
				Key:     types.IssueKey(fmt.Sprintf("S-%d", i)),
				Status:  "Em andamento",
				Created: day(i + 1),
			})
		}
		stale := uc.StaleIssues(issues, dashboardNow)
		gt.A(t, stale).Length(model.StaleIssueLimit)
		gt.Equal(t, stale[0].Key, types.IssueKey("S-0"))
	})
}

func TestOverdueRisks(t *testing.T) {
	uc := newDashboard(t)
	past := ptrTime(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	future := ptrTime(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	issues := []*model.Issue{
		{Key: "1", Project: "Alpha", Module: "Pagamentos", Status: "Em andamento", DueDate: past},
		{Key: "2", Project: "Alpha", Module: "Pagamentos", Status: "Em andamento", DueDate: past},
		{Key: "3", Project: "Beta", Module: "Cadastro", Status: "Escalated", DueDate: past},
		{Key: "4", Project: "Beta", Module: "Cadastro", Status: "Done", DueDate: past},
		{Key: "5", Project: "Gama", Module: "Cadastro", Status: "Escalated", DueDate: future},
		{Key: "6", Project: "Gama", Module: "Cadastro", Status: "Escalated"},
	}

	testCases := []struct {
		name    string
		issues  []*model.Issue
		heatmap []model.ModuleRisk
		ranking []model.ProjectCount
	}{
		{
			name:    "nothing overdue",
			issues:  issues[3:],
			heatmap: []model.ModuleRisk{},
			ranking: []model.ProjectCount{},
		},
		{
			name:   "overdue open issues only",
			issues: issues,
			heatmap: []model.ModuleRisk{
				{Module: "Cadastro", Status: "Escalated", Count: 1},
				{Module: "Pagamentos", Status: "Em andamento", Count: 2},
			},
			ranking: []model.ProjectCount{
				{Project: "Alpha", Count: 2},
				{Project: "Beta", Count: 1},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, uc.RiskHeatmap(tc.issues, dashboardNow), tc.heatmap)
			gt.Equal(t, uc.OverdueProjects(tc.issues, dashboardNow), tc.ranking)
		})
	}

	t.Run("ranking capped at the limit", func(t *testing.T) {
		var many []*model.Issue
		for i := range model.OverdueProjectLimit + 2 {
			many = append(many, &model.Issue{
				Key:     types.IssueKey(fmt.Sprintf("P-%d", i)),
				Project: fmt.Sprintf("Projeto %02d", i),
				Status:  "Em andamento",
				DueDate: past,
			})
		}
		ranking := uc.OverdueProjects(many, dashboardNow)
		gt.A(t, ranking).Length(model.OverdueProjectLimit)
		gt.Equal(t, ranking[0].Project, "Projeto 00")
	})
}

func TestCriticalIssues(t *testing.T) {
	uc := newDashboard(t)

	testCases := []struct {
		name  string
		issue *model.Issue
		want  bool
	}{
		{name: "highest priority", issue: &model.Issue{Key: "1", Status: "Em andamento", Priority: "Highest"}, want: true},
		{name: "critical priority", issue: &model.Issue{Key: "2", Status: "Em andamento", Priority: "Critical"}, want: true},
		{name: "blocked status", issue: &model.Issue{Key: "3", Status: "Blocked", Priority: "Low"}, want: true},
		{name: "impediment status", issue: &model.Issue{Key: "4", Status: "Impediment", Priority: "Medium"}, want: true},
		{name: "medium priority", issue: &model.Issue{Key: "5", Status: "Em andamento", Priority: "Medium"}, want: false},
		{name: "done high priority", issue: &model.Issue{Key: "6", Status: "Done", Priority: "High"}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := uc.CriticalIssues([]*model.Issue{tc.issue})
			gt.Equal(t, len(got) == 1, tc.want)
			gt.Equal(t, uc.KPIs([]*model.Issue{tc.issue}, dashboardNow).Critical == 1, tc.want)
		})
	}
}
