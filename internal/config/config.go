// Package config defines service configuration and its defaults.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the asynchronous assessment queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of assessment workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxSessions caps how many validators keep smoothing and baseline state.
	MaxSessions int `koanf:"max_sessions"`

	// HistorySize is the anomaly baseline length per validator.
	HistorySize int `koanf:"history_size"`

	// SmoothingWindow is the heart-rate moving average length.
	SmoothingWindow int `koanf:"smoothing_window"`

	// ModelPath points at a classifier model document (YAML or JSON).
	ModelPath string `koanf:"model_path"`

	// UseBuiltinModels enables the bundled profile classifiers when ModelPath is empty.
	UseBuiltinModels bool `koanf:"use_builtin_models"`

	// RejectOnAnomaly forces consensus_ready=false when a snapshot looks spoofed.
	RejectOnAnomaly bool `koanf:"reject_on_anomaly"`

	// ReadinessThreshold is the score at which a validator becomes ready.
	ReadinessThreshold int `koanf:"readiness_threshold"`

	// MaxReadyLimit caps GET /v1/validators/ready?limit.
	MaxReadyLimit int `koanf:"max_ready_limit"`

	// BatchConcurrency bounds parallel evaluation in /v1/assess/batch.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// JitterSeed seeds the authenticity jitter of ensemble scoring.
	JitterSeed int64 `koanf:"jitter_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		MaxSessions:        50_000,
		HistorySize:        20,
		SmoothingWindow:    5,
		UseBuiltinModels:   false,
		RejectOnAnomaly:    true,
		ReadinessThreshold: 70,
		MaxReadyLimit:      100,
		BatchConcurrency:   8,
		JitterSeed:         42,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json")
	case c.QueueSize < 1:
		return invalid("queue_size must be positive")
	case c.WorkerCount < 1:
		return invalid("worker_count must be positive")
	case c.MaxSessions < 1:
		return invalid("max_sessions must be positive")
	case c.HistorySize < 1:
		return invalid("history_size must be positive")
	case c.SmoothingWindow < 1:
		return invalid("smoothing_window must be positive")
	case c.ReadinessThreshold < 0 || c.ReadinessThreshold > 100:
		return invalid("readiness_threshold must be within [0,100]")
	case c.MaxReadyLimit < 1:
		return invalid("max_ready_limit must be positive")
	case c.BatchConcurrency < 1:
		return invalid("batch_concurrency must be positive")
	}
	return nil
}
