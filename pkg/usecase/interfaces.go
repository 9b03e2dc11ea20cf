package usecase

import (
	"context"

	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// Dashboard defines the interface for dashboard aggregation
type Dashboard interface {
	// Catalog returns the selectable filter values
	Catalog(ctx context.Context) (*model.FilterCatalog, error)

	// Build computes KPIs and chart series for a filter snapshot
	Build(ctx context.Context, req *model.DashboardRequest) (*model.Dashboard, error)

	// StatusMatrix pivots flat (project, status, count) records
	StatusMatrix(records []model.StatusCountRecord) *model.StatusMatrix
}

// Selection defines the interface for per-session filter state
type Selection interface {
	Get(ctx context.Context, id types.SessionID) (*model.FilterSelection, error)
	SetDimension(ctx context.Context, id types.SessionID, dim types.Dimension, values []string) (*model.FilterSelection, error)
	ToggleType(ctx context.Context, id types.SessionID, issueType string, included bool) (*model.FilterSelection, error)
	Reset(ctx context.Context, id types.SessionID) (*model.FilterSelection, error)
}

var (
	_ Dashboard = (*DashboardUseCase)(nil)
	_ Selection = (*SelectionUseCase)(nil)
)
