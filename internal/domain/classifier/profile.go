package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/emochain/internal/domain/model"
)

// Kind selects how a ProfileModel turns distances into probabilities.
type Kind string

// Supported model kinds.
const (
	// KindCentroid picks the nearest standardized centroid; probabilities
	// are a softmax over negative RMS z-distances.
	KindCentroid Kind = "centroid"
	// KindGaussian is a naive-Bayes model with independent normal features.
	KindGaussian Kind = "gaussian"
)

// minStd keeps standardization finite.
const minStd = 1e-6

// Profile describes one category's feature distribution.
type Profile struct {
	CategoryID int
	Mean       model.FeatureVector
	Std        model.FeatureVector
}

// ProfileModel classifies by comparing a vector against category profiles.
// It is immutable after construction.
type ProfileModel struct {
	name     string
	kind     Kind
	profiles []Profile
}

// NewProfileModel validates and builds a model. Profiles are evaluated in
// order; on equal probability the earlier profile wins.
func NewProfileModel(name string, kind Kind, profiles []Profile) (*ProfileModel, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidModel)
	}
	if kind != KindCentroid && kind != KindGaussian {
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidModel, name, kind)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: %s: no profiles", ErrInvalidModel, name)
	}
	seen := make(map[int]bool, len(profiles))
	ps := make([]Profile, len(profiles))
	for i, p := range profiles {
		if p.CategoryID < 0 || p.CategoryID >= model.ClassifierCategoryCount {
			return nil, fmt.Errorf("%w: %s: category id %d out of range", ErrInvalidModel, name, p.CategoryID)
		}
		if seen[p.CategoryID] {
			return nil, fmt.Errorf("%w: %s: duplicate category id %d", ErrInvalidModel, name, p.CategoryID)
		}
		seen[p.CategoryID] = true
		for j := range p.Std {
			if math.IsNaN(p.Mean[j]) || math.IsInf(p.Mean[j], 0) || !(p.Std[j] >= 0) || math.IsInf(p.Std[j], 0) {
				return nil, fmt.Errorf("%w: %s: bad parameters for %s", ErrInvalidModel, name, model.FeatureNames[j])
			}
			if p.Std[j] < minStd {
				p.Std[j] = minStd
			}
		}
		ps[i] = p
	}
	return &ProfileModel{name: name, kind: kind, profiles: ps}, nil
}

// Name returns the model name.
func (m *ProfileModel) Name() string { return m.name }

// Kind returns the model kind.
func (m *ProfileModel) Kind() Kind { return m.kind }

// Predict returns the most probable category for v.
func (m *ProfileModel) Predict(ctx context.Context, v model.FeatureVector) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Prediction{}, fmt.Errorf("%w: %s is not finite", ErrInvalidFeatures, model.FeatureNames[i])
		}
	}

	scores := make([]float64, len(m.profiles))
	for i, p := range m.profiles {
		scores[i] = m.logScore(p, v)
	}
	probs := softmax(scores)

	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Prediction{CategoryID: m.profiles[best].CategoryID, Probability: probs[best]}, nil
}

func (m *ProfileModel) logScore(p Profile, v model.FeatureVector) float64 {
	var sum float64
	switch m.kind {
	case KindGaussian:
		for i, x := range v {
			z := (x - p.Mean[i]) / p.Std[i]
			sum += -0.5*z*z - math.Log(p.Std[i])
		}
		return sum
	default:
		for i, x := range v {
			z := (x - p.Mean[i]) / p.Std[i]
			sum += z * z
		}
		return -math.Sqrt(sum / float64(len(v)))
	}
}

func softmax(xs []float64) []float64 {
	maxV := math.Inf(-1)
	for _, x := range xs {
		if x > maxV {
			maxV = x
		}
	}
	out := make([]float64, len(xs))
	var total float64
	for i, x := range xs {
		out[i] = math.Exp(x - maxV)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
