// Package features derives secondary signals from normalized biometrics.
package features

import (
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/internal/domain/normalize"
)

// Closed-form coefficients for the derived signals.
const (
	baseRespiratoryRate = 12.0
	respiratoryPerBeat  = 0.1
	baseTemperature     = 36.5
	temperaturePerBeat  = 0.01
	restingHeartRate    = 70.0
)

// Defaults for the ensemble feature vector when a field is absent.
const (
	DefaultAccelerationX = 0.0
	DefaultAccelerationY = 0.0
	DefaultAccelerationZ = 9.8
	DefaultAmbientLight  = 0.5
)

// Derive computes the derived features of n. It has no state and never fails.
func Derive(n model.NormalizedSnapshot) model.DerivedFeatures {
	return model.DerivedFeatures{
		AutonomicBalance: n.HRV / n.HeartRate * 1000,
		ArousalIndex:     (n.HeartRate/100 + n.SkinConductance) / 2,
		StabilityIndex:   (1 - n.Movement) * (n.HRV / 100),
		RespiratoryRate: normalize.Clamp(
			baseRespiratoryRate+(n.HeartRate-restingHeartRate)*respiratoryPerBeat,
			model.MinRespiratoryRate, model.MaxRespiratoryRate,
		),
		Temperature: baseTemperature + (n.HeartRate-restingHeartRate)*temperaturePerBeat,
	}
}

// Vector builds the classifier input. Measured optional values win over the
// derived estimates; absent motion and light fields take fixed defaults.
func Vector(n model.NormalizedSnapshot, d model.DerivedFeatures) model.FeatureVector {
	return model.FeatureVector{
		n.HeartRate,
		n.HRV,
		n.SkinConductance,
		n.Movement,
		or(n.RespiratoryRate, d.RespiratoryRate),
		or(n.Temperature, d.Temperature),
		or(n.AccelerationX, DefaultAccelerationX),
		or(n.AccelerationY, DefaultAccelerationY),
		or(n.AccelerationZ, DefaultAccelerationZ),
		or(n.AmbientLight, DefaultAmbientLight),
	}
}

func or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
