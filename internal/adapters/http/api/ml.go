package api

import (
	"context"
	"net/http"

	"github.com/okian/emochain/internal/domain/types"
)

// MLDependencies reports the active scoring strategy.
type MLDependencies interface {
	MLStatus(ctx context.Context) types.MLStatus
}

// MLHandler serves the scoring status.
type MLHandler struct {
	deps MLDependencies
}

// NewMLHandler creates a new ML status handler.
func NewMLHandler(deps MLDependencies) *MLHandler {
	return &MLHandler{deps: deps}
}

// HandleStatus handles GET /v1/ml/status.
func (h *MLHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.MLStatus(r.Context()))
}
