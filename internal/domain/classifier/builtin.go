package classifier

import "github.com/okian/emochain/internal/domain/model"

// Built-in model names.
const (
	BuiltinCentroidName = "builtin-centroid"
	BuiltinGaussianName = "builtin-gaussian"
)

type emotionProfile struct {
	category            model.Category
	hr, hrv, sc, mv, rr float64
	hrS, hrvS, scS, mvS float64
	rrS                 float64
}

// Typical readings per emotional state.
var emotionProfiles = []emotionProfile{
	{category: model.CategoryCalm, hr: 70, hrS: 8, hrv: 45, hrvS: 10, sc: 0.3, scS: 0.08, mv: 0.1, mvS: 0.05, rr: 14, rrS: 2},
	{category: model.CategoryStressed, hr: 95, hrS: 12, hrv: 20, hrvS: 5, sc: 0.7, scS: 0.15, mv: 0.3, mvS: 0.1, rr: 20, rrS: 4},
	{category: model.CategoryFocused, hr: 75, hrS: 6, hrv: 50, hrvS: 8, sc: 0.4, scS: 0.06, mv: 0.05, mvS: 0.02, rr: 15, rrS: 1.5},
	{category: model.CategoryExcited, hr: 88, hrS: 10, hrv: 35, hrvS: 8, sc: 0.6, scS: 0.12, mv: 0.4, mvS: 0.15, rr: 18, rrS: 3},
	{category: model.CategoryFatigued, hr: 65, hrS: 5, hrv: 25, hrvS: 6, sc: 0.25, scS: 0.06, mv: 0.15, mvS: 0.08, rr: 12, rrS: 2},
	{category: model.CategoryAnxious, hr: 100, hrS: 15, hrv: 18, hrvS: 4, sc: 0.8, scS: 0.1, mv: 0.35, mvS: 0.12, rr: 22, rrS: 5},
}

// BuiltinProfiles returns the feature distributions of the six emotional
// states. Motion and light features carry no class signal.
func BuiltinProfiles() []Profile {
	out := make([]Profile, 0, len(emotionProfiles))
	for _, e := range emotionProfiles {
		id, _ := model.CategoryID(e.category)
		out = append(out, Profile{
			CategoryID: id,
			Mean: model.FeatureVector{
				e.hr, e.hrv, e.sc, e.mv, e.rr,
				36.5 + (e.hr-70)*0.01,
				0, 0, 9.8, 0.5,
			},
			Std: model.FeatureVector{
				e.hrS, e.hrvS, e.scS, e.mvS, e.rrS,
				0.3,
				1, 1, 1, 0.25,
			},
		})
	}
	return out
}

// BuiltinModels returns a two-member ensemble built from BuiltinProfiles.
func BuiltinModels() []Classifier {
	profiles := BuiltinProfiles()
	centroid, err := NewProfileModel(BuiltinCentroidName, KindCentroid, profiles)
	if err != nil {
		panic(err)
	}
	gaussian, err := NewProfileModel(BuiltinGaussianName, KindGaussian, profiles)
	if err != nil {
		panic(err)
	}
	return []Classifier{centroid, gaussian}
}
