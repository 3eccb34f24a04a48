package model

// Physiological bounds applied by the normalizer.
const (
	MinHeartRate       = 40.0
	MaxHeartRate       = 200.0
	MinHRV             = 5.0
	MaxHRV             = 100.0
	MinSkinConductance = 0.0
	MaxSkinConductance = 1.0
	MinMovement        = 0.0
	MaxMovement        = 1.0

	MinRespiratoryRate = 8.0
	MaxRespiratoryRate = 25.0
	MinTemperature     = 35.0
	MaxTemperature     = 39.0
	MinAcceleration    = -160.0
	MaxAcceleration    = 160.0
	MinAmbientLight    = 0.0
	MaxAmbientLight    = 1.0
)

// Defaults substituted for missing or non-numeric primaries.
const (
	DefaultHeartRate       = 70.0
	DefaultHRV             = 30.0
	DefaultSkinConductance = 0.5
	DefaultMovement        = 0.1
)

// BiometricSnapshot is one raw sensor reading. A nil field is either absent
// or was not a number at the ingest boundary.
type BiometricSnapshot struct {
	HeartRate       *float64 `json:"heart_rate,omitempty"`
	HRV             *float64 `json:"hrv,omitempty"`
	SkinConductance *float64 `json:"skin_conductance,omitempty"`
	Movement        *float64 `json:"movement,omitempty"`

	RespiratoryRate *float64 `json:"respiratory_rate,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	AccelerationX   *float64 `json:"acceleration_x,omitempty"`
	AccelerationY   *float64 `json:"acceleration_y,omitempty"`
	AccelerationZ   *float64 `json:"acceleration_z,omitempty"`
	AmbientLight    *float64 `json:"ambient_light,omitempty"`
}

// NormalizedSnapshot holds bounded values. Primaries are always present;
// optional fields stay nil when the raw reading lacked them.
type NormalizedSnapshot struct {
	HeartRate       float64 `json:"heart_rate"`
	HRV             float64 `json:"hrv"`
	SkinConductance float64 `json:"skin_conductance"`
	Movement        float64 `json:"movement"`

	RespiratoryRate *float64 `json:"respiratory_rate,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	AccelerationX   *float64 `json:"acceleration_x,omitempty"`
	AccelerationY   *float64 `json:"acceleration_y,omitempty"`
	AccelerationZ   *float64 `json:"acceleration_z,omitempty"`
	AmbientLight    *float64 `json:"ambient_light,omitempty"`
}

// DerivedFeatures are secondary signals computed from the primaries.
type DerivedFeatures struct {
	AutonomicBalance float64 `json:"autonomic_balance"`
	ArousalIndex     float64 `json:"arousal_index"`
	StabilityIndex   float64 `json:"stability_index"`
	RespiratoryRate  float64 `json:"respiratory_rate"`
	Temperature      float64 `json:"temperature"`
}

// FeatureVectorLen is the dimensionality of the classifier input.
const FeatureVectorLen = 10

// FeatureVector is the classifier input in FeatureNames order.
type FeatureVector [FeatureVectorLen]float64

// FeatureNames lists the feature vector layout.
var FeatureNames = [FeatureVectorLen]string{
	"heart_rate",
	"hrv",
	"skin_conductance",
	"movement",
	"respiratory_rate",
	"temperature",
	"acceleration_x",
	"acceleration_y",
	"acceleration_z",
	"ambient_light",
}

// Float returns a pointer to v. Handy for building snapshots in code.
func Float(v float64) *float64 { return &v }
