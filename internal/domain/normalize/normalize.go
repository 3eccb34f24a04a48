// Package normalize clamps raw biometric readings into physiological ranges
// and smooths heart rate over a short rolling window.
package normalize

import (
	"math"
	"sync"

	"github.com/okian/emochain/internal/domain/model"
)

const defaultWindowSize = 5

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithWindowSize sets the heart-rate smoothing window size.
func WithWindowSize(size int) Option {
	return func(n *Normalizer) {
		if size > 0 {
			n.windowSize = size
		}
	}
}

// Normalizer owns the smoothing window of exactly one sensor stream.
// Never share an instance between subjects.
type Normalizer struct {
	mu         sync.Mutex
	windowSize int
	window     *HRWindow
}

// New creates a Normalizer with an empty smoothing window.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{windowSize: defaultWindowSize}
	for _, opt := range opts {
		opt(n)
	}
	n.window = NewHRWindow(n.windowSize)
	return n
}

// Normalize clamps every field of raw and returns the smoothed heart rate.
// Missing or non-numeric primaries fall back to fixed defaults.
func (n *Normalizer) Normalize(raw model.BiometricSnapshot) model.NormalizedSnapshot {
	hr := Clamp(valueOr(raw.HeartRate, model.DefaultHeartRate), model.MinHeartRate, model.MaxHeartRate)

	n.mu.Lock()
	smoothed := n.window.Push(hr)
	n.mu.Unlock()

	return model.NormalizedSnapshot{
		HeartRate:       smoothed,
		HRV:             Clamp(valueOr(raw.HRV, model.DefaultHRV), model.MinHRV, model.MaxHRV),
		SkinConductance: Clamp(valueOr(raw.SkinConductance, model.DefaultSkinConductance), model.MinSkinConductance, model.MaxSkinConductance),
		Movement:        Clamp(valueOr(raw.Movement, model.DefaultMovement), model.MinMovement, model.MaxMovement),
		RespiratoryRate: clampOptional(raw.RespiratoryRate, model.MinRespiratoryRate, model.MaxRespiratoryRate),
		Temperature:     clampOptional(raw.Temperature, model.MinTemperature, model.MaxTemperature),
		AccelerationX:   clampOptional(raw.AccelerationX, model.MinAcceleration, model.MaxAcceleration),
		AccelerationY:   clampOptional(raw.AccelerationY, model.MinAcceleration, model.MaxAcceleration),
		AccelerationZ:   clampOptional(raw.AccelerationZ, model.MinAcceleration, model.MaxAcceleration),
		AmbientLight:    clampOptional(raw.AmbientLight, model.MinAmbientLight, model.MaxAmbientLight),
	}
}

// History returns the heart-rate values currently in the smoothing window.
func (n *Normalizer) History() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.window.Values()
}

// Restore replaces the smoothing window with values, oldest first. Values
// beyond the window size evict the oldest as Normalize would.
func (n *Normalizer) Restore(values []float64) {
	w := NewHRWindow(n.windowSize)
	for _, v := range values {
		w.Push(v)
	}
	n.mu.Lock()
	n.window = w
	n.mu.Unlock()
}

// Clamp bounds v to [lo, hi]. NaN is returned unchanged; callers screen it first.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// valueOr returns *p, or def when p is nil or NaN.
func valueOr(p *float64, def float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return def
	}
	return *p
}

func clampOptional(p *float64, lo, hi float64) *float64 {
	if p == nil || math.IsNaN(*p) {
		return nil
	}
	v := Clamp(*p, lo, hi)
	return &v
}
