// Package classifier provides the inference capability used by the ensemble
// scorer: a feature vector goes in, a category id and its probability come out.
//
// Training is out of scope. Models here are parameterised by per-category
// feature means and standard deviations, either built in or loaded from a
// model document.
package classifier

import (
	"context"

	"github.com/okian/emochain/internal/domain/model"
)

// Prediction is a classifier's top class.
type Prediction struct {
	// CategoryID indexes model.CategoryFromID.
	CategoryID int
	// Probability of the top class, in [0, 1].
	Probability float64
}

// Classifier is safe for concurrent inference.
type Classifier interface {
	Name() string
	Predict(ctx context.Context, v model.FeatureVector) (Prediction, error)
}

// Names returns the names of cs in order.
func Names(cs []Classifier) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}
