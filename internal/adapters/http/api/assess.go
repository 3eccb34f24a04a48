package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/emochain/internal/adapters/codec"
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/internal/domain/types"
	"github.com/okian/emochain/pkg/logger"
)

// AssessDependencies evaluates snapshots synchronously.
type AssessDependencies interface {
	Assess(ctx context.Context, validatorID string, snap model.BiometricSnapshot) (model.Assessment, error)
	AssessBatch(ctx context.Context, items []types.BatchItem) ([]types.BatchResult, error)
}

// AssessHandler serves synchronous assessments. Every response, including
// failures, carries a complete metrics record.
type AssessHandler struct {
	deps         AssessDependencies
	maxBatchSize int
}

// NewAssessHandler creates a new assess handler.
func NewAssessHandler(deps AssessDependencies, maxBatchSize int) *AssessHandler {
	return &AssessHandler{deps: deps, maxBatchSize: maxBatchSize}
}

// HandleAssess handles POST /v1/assess[?validator_id=].
func (h *AssessHandler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	const op = "api.assess"

	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, codec.ErrorResponse(WrapKind(op, ErrBadRequest, err)))
		return
	}
	snap, err := codec.DecodeSnapshot(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, codec.ErrorResponse(WrapKind(op, ErrBadRequest, err)))
		return
	}

	a, err := h.deps.Assess(r.Context(), r.URL.Query().Get("validator_id"), snap)
	if err != nil {
		logger.Get().Error(r.Context(), "assessment failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, codec.ErrorResponse(WrapKind(op, ErrInternal, err)))
		return
	}
	writeJSON(w, http.StatusOK, codec.FromAssessment(a))
}

type batchResponse struct {
	Results []codec.Response `json:"results"`
	Failed  int              `json:"failed"`
}

// HandleAssessBatch handles POST /v1/assess/batch.
func (h *AssessHandler) HandleAssessBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.assess_batch"

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	subs, err := codec.DecodeBatch(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(subs) > h.maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch_too_large",
			WrapKind(op, ErrBadRequest, fmt.Errorf("%d items exceeds %d", len(subs), h.maxBatchSize)))
		return
	}

	items := make([]types.BatchItem, len(subs))
	for i, sub := range subs {
		items[i] = types.BatchItem{ValidatorID: sub.ValidatorID, Snapshot: sub.Snapshot}
	}
	results, err := h.deps.AssessBatch(r.Context(), items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := batchResponse{Results: make([]codec.Response, len(results))}
	for i, res := range results {
		if res.Err != nil {
			errResp := codec.ErrorResponse(res.Err)
			errResp.ValidatorID = items[i].ValidatorID
			resp.Results[i] = errResp
			resp.Failed++
			continue
		}
		resp.Results[i] = codec.FromAssessment(res.Assessment)
	}
	writeJSON(w, http.StatusOK, resp)
}
