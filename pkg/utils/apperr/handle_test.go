package apperr_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/utils/apperr"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid dimension", goerr.New("bad", goerr.T(model.ErrTagInvalidDimension)), http.StatusBadRequest},
		{"invalid request", goerr.Wrap(goerr.New("bad json", goerr.T(model.ErrTagInvalidRequest)), "decode"), http.StatusBadRequest},
		{"snapshot missing", goerr.Wrap(model.ErrSnapshotNotFound, "load"), http.StatusNotFound},
		{"upstream", goerr.New("jira down", goerr.T(model.ErrTagUpstream)), http.StatusBadGateway},
		{"unknown", goerr.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, apperr.StatusCode(tc.err), tc.want)
		})
	}
}

func TestHandleNil(t *testing.T) {
	// must not panic
	apperr.Handle(context.Background(), nil)
}
