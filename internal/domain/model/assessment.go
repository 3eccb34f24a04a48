package model

import "time"

// Assessment is the full result record of one pipeline invocation.
type Assessment struct {
	AssessmentID string             `json:"assessment_id"`
	ValidatorID  string             `json:"validator_id,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Normalized   NormalizedSnapshot `json:"normalized"`
	Derived      DerivedFeatures    `json:"derived"`
	Quality      float64            `json:"data_quality"`
	Anomaly      AnomalyReport      `json:"anomaly"`
	Metrics      EmotionMetrics     `json:"metrics"`
	Decision     ReadinessDecision  `json:"decision"`
	MLUsed       bool               `json:"ml_used"`
	MLPrediction *int               `json:"ml_prediction,omitempty"`
}
