// Package types contains read shapes shared by the API and its clients.
package types

import (
	"time"

	"github.com/okian/emochain/internal/domain/model"
)

// Entry is one row of the readiness listing.
type Entry struct {
	Rank            int       `json:"rank"`
	ValidatorID     string    `json:"validator_id"`
	ReadinessScore  int       `json:"readiness_score"`
	ConsensusReady  bool      `json:"consensus_ready"`
	EmotionCategory string    `json:"emotion_category"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidatorReadiness is the latest decision of one validator with its rank.
type ValidatorReadiness struct {
	Entry
	AssessmentID   string               `json:"assessment_id"`
	Recommendation string               `json:"recommendation"`
	Metrics        model.EmotionMetrics `json:"emotional_metrics"`
	DataQuality    float64              `json:"data_quality"`
	Anomaly        model.AnomalyReport  `json:"anomaly"`
}

// ReadyList is the response of the readiness listing.
type ReadyList struct {
	Validators []Entry `json:"validators"`
	Total      int     `json:"total"`
	Ready      int     `json:"ready"`
}

// MLStatus describes the active scoring strategy.
type MLStatus struct {
	Mode        string   `json:"mode"`
	Trained     bool     `json:"trained"`
	Classifiers []string `json:"classifiers"`
	ModelSource string   `json:"model_source"`
	Categories  []string `json:"categories"`
}

// Receipt acknowledges an asynchronous submission.
type Receipt struct {
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// BatchItem is one entry of a batch request.
type BatchItem struct {
	ValidatorID string
	Snapshot    model.BiometricSnapshot
}

// BatchResult pairs a batch item with its outcome. Err is set when
// Assessment is not.
type BatchResult struct {
	Assessment model.Assessment
	Err        error
}
