// Package codec translates between the JSON wire format and the domain model.
//
// Decoding is lenient: any field that is missing or not a JSON number becomes
// nil and is later replaced by the normalizer's default. Only a body that is
// not a JSON object is rejected.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okian/emochain/internal/domain/model"
)

// DecodeSnapshot parses one snapshot object.
func DecodeSnapshot(data []byte) (model.BiometricSnapshot, error) {
	var raw map[string]any
	if err := decodeObject(data, &raw); err != nil {
		return model.BiometricSnapshot{}, err
	}
	return snapshotFromMap(raw), nil
}

// Submission is a snapshot addressed to a validator. SubmissionID is an
// optional client idempotency key.
type Submission struct {
	SubmissionID string
	ValidatorID  string
	Snapshot     model.BiometricSnapshot
}

type submissionWire struct {
	SubmissionID string         `json:"submission_id"`
	ValidatorID  string         `json:"validator_id"`
	Snapshot     map[string]any `json:"snapshot"`
}

// DecodeSubmission parses {"validator_id": "...", "snapshot": {...}}.
func DecodeSubmission(data []byte) (Submission, error) {
	var w submissionWire
	if err := decodeObject(data, &w); err != nil {
		return Submission{}, err
	}
	if w.ValidatorID == "" {
		return Submission{}, ErrMissingValidator
	}
	return Submission{
		SubmissionID: w.SubmissionID,
		ValidatorID:  w.ValidatorID,
		Snapshot:     snapshotFromMap(w.Snapshot),
	}, nil
}

// DecodeBatch parses an array of submissions. Items without a validator id
// are kept so the caller can report them individually.
func DecodeBatch(data []byte) ([]Submission, error) {
	var items []submissionWire
	if err := unmarshal(data, &items); err != nil {
		return nil, err
	}
	out := make([]Submission, len(items))
	for i, w := range items {
		out[i] = Submission{ValidatorID: w.ValidatorID, Snapshot: snapshotFromMap(w.Snapshot)}
	}
	return out, nil
}

func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrMalformed
	}
	return unmarshal(trimmed, v)
}

// unmarshal decodes exactly one JSON value, keeping numbers as json.Number so
// an out-of-range literal affects only its own field.
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after value", ErrMalformed)
	}
	return nil
}

func snapshotFromMap(raw map[string]any) model.BiometricSnapshot {
	return model.BiometricSnapshot{
		HeartRate:       number(raw, "heart_rate"),
		HRV:             number(raw, "hrv"),
		SkinConductance: number(raw, "skin_conductance"),
		Movement:        number(raw, "movement"),
		RespiratoryRate: number(raw, "respiratory_rate"),
		Temperature:     number(raw, "temperature"),
		AccelerationX:   number(raw, "acceleration_x"),
		AccelerationY:   number(raw, "acceleration_y"),
		AccelerationZ:   number(raw, "acceleration_z"),
		AmbientLight:    number(raw, "ambient_light"),
	}
}

// number returns the field only when it is a JSON number. Strings, bools,
// nulls and nested values are treated as missing. A literal beyond float64
// range decodes as ±Inf and is bounded later by the normalizer.
func number(raw map[string]any, key string) *float64 {
	n, ok := raw[key].(json.Number)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	return &v
}

// Response is the wire shape of one assessment.
type Response struct {
	Stress         int                    `json:"stress"`
	Energy         int                    `json:"energy"`
	Focus          int                    `json:"focus"`
	Authenticity   int                    `json:"authenticity"`
	Confidence     float64                `json:"confidence"`
	Category       model.Category         `json:"emotion_category"`
	ConsensusReady bool                   `json:"consensus_ready"`
	ReadinessScore int                    `json:"readiness_score"`
	MLUsed         bool                   `json:"ml_used"`
	MLPrediction   *int                   `json:"ml_prediction,omitempty"`
	Recommendation string                 `json:"recommendation,omitempty"`
	DataQuality    *float64               `json:"data_quality,omitempty"`
	Anomaly        *model.AnomalyReport   `json:"anomaly,omitempty"`
	Derived        *model.DerivedFeatures `json:"derived,omitempty"`
	ValidatorID    string                 `json:"validator_id,omitempty"`
	AssessmentID   string                 `json:"assessment_id,omitempty"`
	Timestamp      *time.Time             `json:"timestamp,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// FromAssessment builds the response for a finished assessment.
func FromAssessment(a model.Assessment) Response { //nolint:gocritic // read-only copy
	m := a.Decision.Metrics
	quality := a.Quality
	anomaly := a.Anomaly
	derived := a.Derived
	ts := a.Timestamp
	return Response{
		Stress:         m.Stress,
		Energy:         m.Energy,
		Focus:          m.Focus,
		Authenticity:   m.Authenticity,
		Confidence:     m.Confidence,
		Category:       m.Category,
		ConsensusReady: a.Decision.ConsensusReady,
		ReadinessScore: a.Decision.ReadinessScore,
		MLUsed:         a.MLUsed,
		MLPrediction:   a.MLPrediction,
		Recommendation: a.Decision.Recommendation,
		DataQuality:    &quality,
		Anomaly:        &anomaly,
		Derived:        &derived,
		ValidatorID:    a.ValidatorID,
		AssessmentID:   a.AssessmentID,
		Timestamp:      &ts,
	}
}

// Safe defaults published when an assessment could not be produced.
const (
	ErrorStress       = 50
	ErrorEnergy       = 50
	ErrorFocus        = 50
	ErrorAuthenticity = 70
	ErrorConfidence   = 0.5
)

// ErrorResponse is the record emitted in place of a failed assessment.
func ErrorResponse(err error) Response {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Response{
		Stress:       ErrorStress,
		Energy:       ErrorEnergy,
		Focus:        ErrorFocus,
		Authenticity: ErrorAuthenticity,
		Confidence:   ErrorConfidence,
		Category:     model.CategoryError,
		Error:        msg,
	}
}
