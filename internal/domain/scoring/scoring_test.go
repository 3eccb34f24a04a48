package scoring_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/internal/domain/features"
	"github.com/okian/emochain/internal/domain/model"
	scoring "github.com/okian/emochain/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// fixedClassifier always predicts the same category.
type fixedClassifier struct {
	name string
	id   int
	prob float64
	err  error
}

func (f fixedClassifier) Name() string { return f.name }

func (f fixedClassifier) Predict(context.Context, model.FeatureVector) (classifier.Prediction, error) {
	if f.err != nil {
		return classifier.Prediction{}, f.err
	}
	return classifier.Prediction{CategoryID: f.id, Probability: f.prob}, nil
}

func input(hr, hrv, sc, mv float64) scoring.Input {
	n := model.NormalizedSnapshot{HeartRate: hr, HRV: hrv, SkinConductance: sc, Movement: mv}
	return scoring.Input{Normalized: n, Derived: features.Derive(n)}
}

func catID(c model.Category) int {
	id, _ := model.CategoryID(c)
	return id
}

func TestRuleScorer(t *testing.T) {
	ctx := context.Background()
	s := scoring.NewRuleScorer()

	Convey("Given the rule scorer", t, func() {
		So(s.Mode(), ShouldEqual, scoring.ModeRules)

		Convey("When no threshold is crossed", func() {
			m, id, err := s.Score(ctx, input(85, 25, 0.6, 0.3))
			So(err, ShouldBeNil)
			So(id, ShouldBeNil)

			Convey("Then the base values come back", func() {
				So(m.Stress, ShouldEqual, 0)
				So(m.Energy, ShouldEqual, 70)
				So(m.Focus, ShouldEqual, 70)
				So(m.Authenticity, ShouldEqual, 90)
				So(m.Confidence, ShouldEqual, scoring.RuleConfidence)
				So(m.Category, ShouldEqual, model.CategoryRuleBased)
			})
		})

		Convey("When the reading is off a multiple of five and outside [80,100]", func() {
			m := scoring.ScoreRules(model.NormalizedSnapshot{HeartRate: 78, HRV: 25, SkinConductance: 0.6, Movement: 0.3})
			So(m.Stress, ShouldEqual, 0)
			So(m.Energy, ShouldEqual, 50)
			So(m.Focus, ShouldEqual, 70)
			So(m.Authenticity, ShouldEqual, 100)
		})

		Convey("When every stress rule fires", func() {
			m := scoring.ScoreRules(model.NormalizedSnapshot{HeartRate: 131, HRV: 15, SkinConductance: 0.9, Movement: 0.6})
			So(m.Stress, ShouldEqual, 100)
			So(m.Energy, ShouldEqual, 65)
			So(m.Focus, ShouldEqual, 40)
			So(m.Authenticity, ShouldEqual, 100)
		})

		Convey("When the reading is calm and still", func() {
			m := scoring.ScoreRules(model.NormalizedSnapshot{HeartRate: 72, HRV: 45, SkinConductance: 0.3, Movement: 0.1})
			So(m.Stress, ShouldEqual, 0)
			So(m.Energy, ShouldEqual, 65)
			So(m.Focus, ShouldEqual, 100)
		})

		Convey("When heart rate is a round value", func() {
			m := scoring.ScoreRules(model.NormalizedSnapshot{HeartRate: 70, HRV: 30, SkinConductance: 0.5, Movement: 0.1})
			So(m.Authenticity, ShouldEqual, 90)
		})

		Convey("Then outputs stay within [0,100] for extremes", func() {
			for _, n := range []model.NormalizedSnapshot{
				{HeartRate: 40, HRV: 5, SkinConductance: 0, Movement: 0},
				{HeartRate: 200, HRV: 100, SkinConductance: 1, Movement: 1},
				{HeartRate: 200, HRV: 5, SkinConductance: 1, Movement: 0},
			} {
				m := scoring.ScoreRules(n)
				for _, v := range []int{m.Stress, m.Energy, m.Focus, m.Authenticity} {
					So(v, ShouldBeBetweenOrEqual, 0, 100)
				}
			}
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given classifier votes", t, func() {
		Convey("A plurality wins", func() {
			id, conf := scoring.Aggregate([]scoring.Vote{
				{CategoryID: 2, Probability: 0.6},
				{CategoryID: 1, Probability: 0.9},
				{CategoryID: 1, Probability: 0.9},
			})
			So(id, ShouldEqual, 1)
			So(conf, ShouldAlmostEqual, 0.8, 1e-9)
		})

		Convey("A tie goes to the category voted first", func() {
			id, _ := scoring.Aggregate([]scoring.Vote{
				{CategoryID: 4, Probability: 0.5},
				{CategoryID: 0, Probability: 0.5},
				{CategoryID: 0, Probability: 0.5},
				{CategoryID: 4, Probability: 0.5},
			})
			So(id, ShouldEqual, 4)
		})

		Convey("A single vote is returned as is", func() {
			id, conf := scoring.Aggregate([]scoring.Vote{{CategoryID: 3, Probability: 0.42}})
			So(id, ShouldEqual, 3)
			So(conf, ShouldEqual, 0.42)
		})

		Convey("No votes yields unknown", func() {
			id, conf := scoring.Aggregate(nil)
			So(model.CategoryFromID(id), ShouldEqual, model.CategoryUnknown)
			So(conf, ShouldEqual, 0.0)
		})
	})
}

func TestEnsembleScorer(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty classifier list", t, func() {
		_, err := scoring.NewEnsemble(nil)
		So(errors.Is(err, scoring.ErrNoClassifiers), ShouldBeTrue)
	})

	Convey("Given an ensemble without jitter", t, func() {
		s, err := scoring.NewEnsemble([]classifier.Classifier{
			fixedClassifier{name: "a", id: catID(model.CategoryCalm), prob: 0.9},
			fixedClassifier{name: "b", id: catID(model.CategoryStressed), prob: 0.7},
			fixedClassifier{name: "c", id: catID(model.CategoryCalm), prob: 0.8},
		}, scoring.WithJitter(0))
		So(err, ShouldBeNil)
		So(s.Mode(), ShouldEqual, scoring.ModeEnsemble)
		So(s.Classifiers(), ShouldResemble, []string{"a", "b", "c"})

		Convey("When the heart rate is normal", func() {
			m, id, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
			So(err, ShouldBeNil)

			Convey("Then the calm profile is published", func() {
				So(*id, ShouldEqual, catID(model.CategoryCalm))
				So(m.Category, ShouldEqual, model.CategoryCalm)
				So(m.Stress, ShouldEqual, 10)
				So(m.Energy, ShouldEqual, 60)
				So(m.Focus, ShouldEqual, 85)
				So(m.Confidence, ShouldAlmostEqual, 0.8, 1e-9)
				So(m.Authenticity, ShouldEqual, 80)
			})
		})

		Convey("When the heart rate is elevated", func() {
			m, _, err := s.Score(ctx, input(110, 45, 0.3, 0.1))
			So(err, ShouldBeNil)
			So(m.Stress, ShouldEqual, 30)
			So(m.Energy, ShouldEqual, 70)
			So(m.Focus, ShouldEqual, 85)
		})
	})

	Convey("Given an ensemble with low confidence", t, func() {
		s, _ := scoring.NewEnsemble([]classifier.Classifier{
			fixedClassifier{name: "a", id: catID(model.CategoryAnxious), prob: 0.3},
		}, scoring.WithJitter(0))

		Convey("Then authenticity is floored at 80", func() {
			m, _, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
			So(err, ShouldBeNil)
			So(m.Authenticity, ShouldEqual, scoring.AuthenticityFloor)
		})

		Convey("Then an elevated anxious reading caps stress at 100", func() {
			m, _, _ := s.Score(ctx, input(150, 10, 0.9, 0.4))
			So(m.Stress, ShouldEqual, 100)
			So(m.Energy, ShouldEqual, 60)
		})
	})

	Convey("Given an ensemble with jitter", t, func() {
		mk := func() *scoring.EnsembleScorer {
			s, _ := scoring.NewEnsemble([]classifier.Classifier{
				fixedClassifier{name: "a", id: catID(model.CategoryFocused), prob: 0.9},
			}, scoring.WithSeed(7))
			return s
		}
		a, b := mk(), mk()

		Convey("Then authenticity stays within [80,100] and the same seed repeats", func() {
			for i := 0; i < 200; i++ {
				ma, _, _ := a.Score(ctx, input(76, 52, 0.4, 0.05))
				mb, _, _ := b.Score(ctx, input(76, 52, 0.4, 0.05))
				So(ma.Authenticity, ShouldBeBetweenOrEqual, 80, 100)
				So(ma.Authenticity, ShouldEqual, mb.Authenticity)
			}
		})
	})

	Convey("Given a classifier that emits an id outside the category set", t, func() {
		s, _ := scoring.NewEnsemble([]classifier.Classifier{
			fixedClassifier{name: "a", id: 42, prob: 0.95},
		}, scoring.WithJitter(0))
		m, id, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
		So(err, ShouldBeNil)
		So(*id, ShouldEqual, 42)
		So(m.Category, ShouldEqual, model.CategoryUnknown)
		So(m.Stress, ShouldEqual, 50)
		So(m.Authenticity, ShouldEqual, 95)
	})

	Convey("Given a failing classifier", t, func() {
		boom := errors.New("boom")
		s, _ := scoring.NewEnsemble([]classifier.Classifier{
			fixedClassifier{name: "ok", id: 0, prob: 0.9},
			fixedClassifier{name: "bad", err: boom},
		})
		_, _, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
		So(errors.Is(err, scoring.ErrClassify), ShouldBeTrue)
		So(errors.Is(err, boom), ShouldBeTrue)
	})

	Convey("Given a classifier reporting an unusable probability", t, func() {
		for name, prob := range map[string]float64{
			"NaN":      math.NaN(),
			"+Inf":     math.Inf(1),
			"negative": -0.1,
			"above 1":  1.7,
		} {
			Convey("With a "+name+" probability the score fails", func() {
				s, _ := scoring.NewEnsemble([]classifier.Classifier{
					fixedClassifier{name: "ok", id: 0, prob: 0.9},
					fixedClassifier{name: "odd", id: 0, prob: prob},
				})
				m, id, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
				So(errors.Is(err, scoring.ErrClassify), ShouldBeTrue)
				So(id, ShouldBeNil)
				So(m, ShouldResemble, model.EmotionMetrics{})
			})
		}

		Convey("Probabilities of exactly 0 and 1 are accepted", func() {
			s, _ := scoring.NewEnsemble([]classifier.Classifier{
				fixedClassifier{name: "low", id: 0, prob: 0},
				fixedClassifier{name: "high", id: 0, prob: 1},
			}, scoring.WithJitter(0))
			m, _, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
			So(err, ShouldBeNil)
			So(m.Confidence, ShouldEqual, 0.5)
			So(m.Authenticity, ShouldBeBetweenOrEqual, scoring.AuthenticityFloor, scoring.AuthenticityCeiling)
		})
	})

	Convey("Given the builtin models", t, func() {
		s, err := scoring.NewEnsemble(classifier.BuiltinModels(), scoring.WithJitter(0))
		So(err, ShouldBeNil)
		m, id, err := s.Score(ctx, input(72, 45, 0.3, 0.1))
		So(err, ShouldBeNil)
		So(id, ShouldNotBeNil)
		So(m.Category, ShouldEqual, model.CategoryCalm)
	})
}

func TestSelect(t *testing.T) {
	Convey("Select picks the strategy from the bound classifiers", t, func() {
		So(scoring.Select(nil).Mode(), ShouldEqual, scoring.ModeRules)
		So(scoring.Select(classifier.BuiltinModels()).Mode(), ShouldEqual, scoring.ModeEnsemble)
	})
}
