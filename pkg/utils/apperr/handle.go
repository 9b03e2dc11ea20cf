package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
)

// Handle logs an error that reached a boundary. Client mistakes are logged
// at warn level, everything else at error level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	if StatusCode(err) < http.StatusInternalServerError {
		logger.Warn("request rejected", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}

// StatusCode maps an error to the HTTP status returned to clients
func StatusCode(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagInvalidDimension),
		goerr.HasTag(err, model.ErrTagInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSnapshotNotFound),
		errors.Is(err, model.ErrSelectionNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, model.ErrTagUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
