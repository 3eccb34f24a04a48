package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/emochain/internal/adapters/codec"
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/internal/domain/types"
)

// SubmitDependencies queues snapshots for asynchronous assessment.
type SubmitDependencies interface {
	Submit(ctx context.Context, submissionID, validatorID string, snap model.BiometricSnapshot) (types.Receipt, error)
}

// SubmitHandler handles asynchronous submissions.
type SubmitHandler struct {
	deps SubmitDependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps SubmitDependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// HandleSubmit handles POST /v1/assessments.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sub, err := codec.DecodeSubmission(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	receipt, err := h.deps.Submit(r.Context(), sub.SubmissionID, sub.ValidatorID, sub.Snapshot)
	switch {
	case errors.Is(err, types.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	case errors.Is(err, types.ErrMissingValidator):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	}

	if receipt.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", JobID: receipt.JobID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: receipt.JobID})
}
