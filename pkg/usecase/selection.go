package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// SelectionUseCase keeps one filter selection per browser session
type SelectionUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

// NewSelectionUseCase creates a new SelectionUseCase
func NewSelectionUseCase(repo interfaces.Repository) *SelectionUseCase {
	return &SelectionUseCase{
		repo: repo,
		now:  time.Now,
	}
}

// Get returns the selection of the session, or a fresh default selection
// when the session has none stored yet
func (uc *SelectionUseCase) Get(ctx context.Context, id types.SessionID) (*model.FilterSelection, error) {
	state, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return state.Snapshot(), nil
}

// SetDimension replaces one dimension of the session selection
func (uc *SelectionUseCase) SetDimension(ctx context.Context, id types.SessionID, dim types.Dimension, values []string) (*model.FilterSelection, error) {
	return uc.update(ctx, id, func(state *model.FilterState) error {
		return state.SetDimension(dim, values)
	})
}

// ToggleType adds or removes one issue type of the session selection
func (uc *SelectionUseCase) ToggleType(ctx context.Context, id types.SessionID, issueType string, included bool) (*model.FilterSelection, error) {
	if issueType == "" {
		return nil, goerr.New("issue type is required", goerr.T(model.ErrTagInvalidRequest))
	}
	return uc.update(ctx, id, func(state *model.FilterState) error {
		return state.ToggleType(issueType, included)
	})
}

// Reset discards the stored selection of the session
func (uc *SelectionUseCase) Reset(ctx context.Context, id types.SessionID) (*model.FilterSelection, error) {
	if err := uc.repo.DeleteSelection(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to delete selection", goerr.V("session_id", id))
	}
	return model.NewFilterSelection(), nil
}

func (uc *SelectionUseCase) update(ctx context.Context, id types.SessionID, apply func(*model.FilterState) error) (*model.FilterSelection, error) {
	state, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(state); err != nil {
		return nil, goerr.Wrap(err, "failed to update selection", goerr.V("session_id", id))
	}

	if err := uc.repo.SaveSelection(ctx, model.NewSessionSelection(id, state, uc.now())); err != nil {
		return nil, goerr.Wrap(err, "failed to save selection", goerr.V("session_id", id))
	}

	selection := state.Snapshot()
	ctxlog.From(ctx).Debug("selection updated",
		"session_id", id,
		"projects", selection.Projects,
		"statuses", selection.Statuses,
		"types", selection.Types,
		"period", selection.Period,
	)
	return selection, nil
}

func (uc *SelectionUseCase) load(ctx context.Context, id types.SessionID) (*model.FilterState, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty", goerr.T(model.ErrTagInvalidRequest))
	}

	stored, err := uc.repo.GetSelection(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSelectionNotFound) {
			return model.NewFilterState(), nil
		}
		return nil, goerr.Wrap(err, "failed to get selection", goerr.V("session_id", id))
	}
	return stored.State(), nil
}
