package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
	"github.com/marcelogarciass/dashboard-projeto/pkg/usecase"
)

type handler struct {
	dashboard usecase.Dashboard
	selection usecase.Selection
}

type setSelectionRequest struct {
	Dimension types.Dimension `json:"dimension"`
	Values    []string        `json:"values"`
}

type toggleTypeRequest struct {
	Type     string `json:"type"`
	Included bool   `json:"included"`
}

// decodeJSON decodes the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(err, "invalid JSON body", goerr.T(model.ErrTagInvalidRequest))
	}
	return nil
}

func (h *handler) handleFilters(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.dashboard.Catalog(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, catalog)
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req := &model.DashboardRequest{FilterSelection: *model.NewFilterSelection()}
	if err := decodeJSON(r, req); err != nil {
		writeError(w, r, err)
		return
	}

	dashboard, err := h.dashboard.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dashboard)
}

func (h *handler) handleStatusMatrix(w http.ResponseWriter, r *http.Request) {
	var records []model.StatusCountRecord
	if err := decodeJSON(r, &records); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.dashboard.StatusMatrix(records))
}

func (h *handler) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection.Get(r.Context(), sessionIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sel)
}

func (h *handler) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req setSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sel, err := h.selection.SetDimension(r.Context(), sessionIDFrom(r.Context()), req.Dimension, req.Values)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sel)
}

func (h *handler) handleToggleType(w http.ResponseWriter, r *http.Request) {
	var req toggleTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sel, err := h.selection.ToggleType(r.Context(), sessionIDFrom(r.Context()), req.Type, req.Included)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sel)
}

func (h *handler) handleResetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection.Reset(r.Context(), sessionIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sel)
}
