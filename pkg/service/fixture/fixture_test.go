package fixture_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/service/fixture"
)

func TestFetchIssues(t *testing.T) {
	src := fixture.NewSource("testdata/issues.json")
	gt.Equal(t, src.Name(), "fixture")

	issues, err := src.FetchIssues(context.Background())
	gt.NoError(t, err).Required()
	gt.A(t, issues).Length(3)

	gt.Equal(t, issues[0].Key.String(), "ALP-1")
	gt.Equal(t, issues[0].Priority, "Highest")
	gt.V(t, issues[0].DueDate).NotNil()

	gt.V(t, issues[1].Resolved).NotNil()
	gt.Equal(t, issues[1].StoryPoints, 5.0)

	gt.Equal(t, issues[2].Assignee, model.UnassignedName)
	gt.Equal(t, issues[2].Priority, model.DefaultPriority)
	gt.Equal(t, issues[2].Sprint, model.DefaultSprint)
	gt.Equal(t, issues[2].Module, model.DefaultModule)
}

func TestFetchIssuesErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := fixture.NewSource("testdata/not_found.json").FetchIssues(context.Background())
		gt.Error(t, err)
	})

	t.Run("issue without key", func(t *testing.T) {
		_, err := fixture.NewSource("testdata/missing_key.json").FetchIssues(context.Background())
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("issue without key")
	})
}
