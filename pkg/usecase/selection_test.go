package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
	"github.com/marcelogarciass/dashboard-projeto/pkg/repository"
	"github.com/marcelogarciass/dashboard-projeto/pkg/usecase"
)

func newSessionID(t *testing.T) types.SessionID {
	t.Helper()
	id, err := types.NewSessionID()
	gt.NoError(t, err).Required()
	return id
}

func TestSelectionUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session gets the default selection", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		sel, err := uc.Get(ctx, newSessionID(t))
		gt.NoError(t, err).Required()
		gt.Equal(t, sel, model.NewFilterSelection())
	})

	t.Run("project exclusivity persists across requests", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		id := newSessionID(t)

		sel, err := uc.SetDimension(ctx, id, types.DimensionProjects, []string{model.AllProjects})
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Projects, []string{model.AllProjects})

		sel, err = uc.SetDimension(ctx, id, types.DimensionProjects, []string{model.AllProjects, "Alpha"})
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Projects, []string{"Alpha"})

		sel, err = uc.SetDimension(ctx, id, types.DimensionProjects, []string{"Alpha", model.AllProjects})
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Projects, []string{model.AllProjects})

		// identical resubmission is a no-op
		sel, err = uc.SetDimension(ctx, id, types.DimensionProjects, []string{"Alpha", model.AllProjects})
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Projects, []string{model.AllProjects})

		stored, err := uc.Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.Projects, []string{model.AllProjects})
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		a, b := newSessionID(t), newSessionID(t)

		_, err := uc.SetDimension(ctx, a, types.DimensionStatuses, []string{"Escalated"})
		gt.NoError(t, err).Required()

		sel, err := uc.Get(ctx, b)
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Statuses, []string{})
	})

	t.Run("toggle type", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		id := newSessionID(t)

		_, err := uc.ToggleType(ctx, id, "Bug", true)
		gt.NoError(t, err).Required()
		sel, err := uc.ToggleType(ctx, id, "Story", true)
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Types, []string{"Bug", "Story"})

		sel, err = uc.ToggleType(ctx, id, "Bug", false)
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Types, []string{"Story"})

		_, err = uc.ToggleType(ctx, id, "", true)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidRequest)).True()
	})

	t.Run("invalid dimension leaves the stored selection untouched", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		id := newSessionID(t)

		_, err := uc.SetDimension(ctx, id, types.DimensionTypes, []string{"Bug"})
		gt.NoError(t, err).Required()

		_, err = uc.SetDimension(ctx, id, types.Dimension("sprints"), []string{"Sprint 1"})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidDimension)).True()

		sel, err := uc.Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Types, []string{"Bug"})
	})

	t.Run("reset", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		id := newSessionID(t)

		_, err := uc.SetDimension(ctx, id, types.DimensionPeriod, []string{"Este Ano"})
		gt.NoError(t, err).Required()

		sel, err := uc.Reset(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Period, types.DefaultPeriod)

		sel, err = uc.Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, sel.Period, types.DefaultPeriod)
	})

	t.Run("empty session ID is rejected", func(t *testing.T) {
		uc := usecase.NewSelectionUseCase(repository.NewMemory())
		_, err := uc.Get(ctx, "")
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidRequest)).True()
	})
}
