package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/emochain/internal/domain/types"
)

// ValidatorDependencies exposes the stored readiness decisions.
type ValidatorDependencies interface {
	Readiness(ctx context.Context, validatorID string) (types.ValidatorReadiness, error)
	TopReady(ctx context.Context, limit int, readyOnly bool) (types.ReadyList, error)
}

// ValidatorsHandler serves readiness queries.
type ValidatorsHandler struct {
	deps     ValidatorDependencies
	maxLimit int
}

// NewValidatorsHandler creates a new validators handler.
func NewValidatorsHandler(deps ValidatorDependencies, maxLimit int) *ValidatorsHandler {
	return &ValidatorsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleReadiness handles GET /v1/validators/{id}/readiness.
func (h *ValidatorsHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	const op = "api.validator_readiness"

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	readiness, err := h.deps.Readiness(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, readiness)
}

// HandleReady handles GET /v1/validators/ready?limit=N[&all=true]. By default
// only consensus-ready validators are listed; all=true lists everyone.
func (h *ValidatorsHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	const op = "api.validators_ready"

	q := r.URL.Query()
	n := h.maxLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	all, _ := strconv.ParseBool(q.Get("all"))

	list, err := h.deps.TopReady(r.Context(), n, !all)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}
