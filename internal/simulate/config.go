package simulate

import (
	"time"

	"github.com/okian/emochain/internal/domain/types"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Validators int           // Number of simulated validators
	Snapshots  int           // Snapshots submitted per validator
	SpoofRatio float64       // Share of validators emitting spoofed readings
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // Maximum wait for the queue to drain
	TopN       int           // Number of entries fetched from the ready listing
	Seed       uint64        // Generator seed; equal seeds give equal fleets
	OutputFile string        // Optional file for the generated submissions
	Verbose    bool          // Enable verbose logging
}

// Snapshot is the wire form of one biometric reading.
type Snapshot struct {
	HeartRate       float64 `json:"heart_rate"`
	HRV             float64 `json:"hrv"`
	SkinConductance float64 `json:"skin_conductance"`
	Movement        float64 `json:"movement"`
	RespiratoryRate float64 `json:"respiratory_rate"`
	Temperature     float64 `json:"temperature"`
}

// Submission is the body of POST /v1/assessments.
type Submission struct {
	SubmissionID string   `json:"submission_id"`
	ValidatorID  string   `json:"validator_id"`
	Snapshot     Snapshot `json:"snapshot"`

	// Profile is the emotional state the snapshot was drawn from.
	Profile string `json:"-"`
	Spoofed bool   `json:"-"`
}

// AckResponse is the body returned for an accepted or duplicate submission.
type AckResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// ReadyList mirrors the service's readiness listing.
type ReadyList = types.ReadyList

// Entry mirrors one row of the readiness listing.
type Entry = types.Entry

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Accepted   int
	Duplicate  int
	Rejected   int // 429 backpressure
	Failed     int
	Assessed   int // validators the service reports
	Ready      int
	Categories map[string]int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
