package codec_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/emochain/internal/adapters/codec"
	"github.com/okian/emochain/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeSnapshot(t *testing.T) {
	Convey("Given a well-formed snapshot", t, func() {
		snap, err := codec.DecodeSnapshot([]byte(`{"heart_rate": 85, "hrv": 25, "skin_conductance": 0.6, "movement": 0.3, "temperature": 36.9}`))

		So(err, ShouldBeNil)
		So(*snap.HeartRate, ShouldEqual, 85)
		So(*snap.HRV, ShouldEqual, 25)
		So(*snap.Temperature, ShouldEqual, 36.9)
		So(snap.RespiratoryRate, ShouldBeNil)
		So(snap.AccelerationX, ShouldBeNil)
	})

	Convey("Given fields that are not numbers", t, func() {
		snap, err := codec.DecodeSnapshot([]byte(`{"heart_rate": "fast", "hrv": null, "movement": true, "skin_conductance": {"v": 1}}`))

		Convey("Then they decode as missing instead of failing", func() {
			So(err, ShouldBeNil)
			So(snap.HeartRate, ShouldBeNil)
			So(snap.HRV, ShouldBeNil)
			So(snap.Movement, ShouldBeNil)
			So(snap.SkinConductance, ShouldBeNil)
		})
	})

	Convey("Given a number beyond float64 range", t, func() {
		snap, err := codec.DecodeSnapshot([]byte(`{"heart_rate": 1e400, "hrv": 35, "movement": -1e400, "temperature": 1e-400}`))

		Convey("Then only that field is affected", func() {
			So(err, ShouldBeNil)
			So(math.IsInf(*snap.HeartRate, 1), ShouldBeTrue)
			So(math.IsInf(*snap.Movement, -1), ShouldBeTrue)
			So(*snap.Temperature, ShouldEqual, 0)
			So(*snap.HRV, ShouldEqual, 35)
		})
	})

	Convey("Given trailing data after the object", t, func() {
		_, err := codec.DecodeSnapshot([]byte(`{"heart_rate": 70} {"hrv": 40}`))
		So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)
	})

	Convey("Given a body that is not an object", t, func() {
		for _, body := range []string{``, `[1,2]`, `"hello"`, `{"heart_rate": `} {
			_, err := codec.DecodeSnapshot([]byte(body))
			So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)
		}
	})
}

func TestDecodeSubmissions(t *testing.T) {
	Convey("A submission needs a validator id", t, func() {
		_, err := codec.DecodeSubmission([]byte(`{"snapshot": {"heart_rate": 70}}`))
		So(errors.Is(err, codec.ErrMissingValidator), ShouldBeTrue)

		sub, err := codec.DecodeSubmission([]byte(`{"submission_id": "s-1", "validator_id": "v1", "snapshot": {"heart_rate": 70}}`))
		So(err, ShouldBeNil)
		So(sub.ValidatorID, ShouldEqual, "v1")
		So(sub.SubmissionID, ShouldEqual, "s-1")
		So(*sub.Snapshot.HeartRate, ShouldEqual, 70)
	})

	Convey("A batch keeps item order", t, func() {
		subs, err := codec.DecodeBatch([]byte(`[{"validator_id": "a", "snapshot": {}}, {"snapshot": {"hrv": 40}}]`))
		So(err, ShouldBeNil)
		So(len(subs), ShouldEqual, 2)
		So(subs[0].ValidatorID, ShouldEqual, "a")
		So(subs[1].ValidatorID, ShouldEqual, "")
		So(*subs[1].Snapshot.HRV, ShouldEqual, 40)

		_, err = codec.DecodeBatch([]byte(`{"validator_id": "a"}`))
		So(errors.Is(err, codec.ErrMalformed), ShouldBeTrue)
	})

	Convey("Out-of-range numbers inside submissions keep the rest of the snapshot", t, func() {
		sub, err := codec.DecodeSubmission([]byte(`{"validator_id": "v1", "snapshot": {"heart_rate": 1e400, "hrv": 35}}`))
		So(err, ShouldBeNil)
		So(math.IsInf(*sub.Snapshot.HeartRate, 1), ShouldBeTrue)
		So(*sub.Snapshot.HRV, ShouldEqual, 35)

		subs, err := codec.DecodeBatch([]byte(`[{"validator_id": "a", "snapshot": {"heart_rate": 1e400, "hrv": 35}}]`))
		So(err, ShouldBeNil)
		So(len(subs), ShouldEqual, 1)
		So(math.IsInf(*subs[0].Snapshot.HeartRate, 1), ShouldBeTrue)
		So(*subs[0].Snapshot.HRV, ShouldEqual, 35)
	})
}

func TestResponses(t *testing.T) {
	Convey("Given a finished assessment", t, func() {
		pred := 2
		a := model.Assessment{
			AssessmentID: "as-1",
			ValidatorID:  "v1",
			Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Quality:      0.9,
			Anomaly:      model.AnomalyReport{AnomalyTypes: []string{}, Confidence: 1},
			Decision: model.ReadinessDecision{
				ConsensusReady: true,
				ReadinessScore: 85,
				Recommendation: "ok",
				Metrics:        model.EmotionMetrics{Stress: 20, Energy: 70, Focus: 85, Authenticity: 90, Confidence: 0.8, Category: model.CategoryFocused},
			},
			MLUsed:       true,
			MLPrediction: &pred,
		}

		resp := codec.FromAssessment(a)

		So(resp.Focus, ShouldEqual, 85)
		So(resp.Category, ShouldEqual, model.CategoryFocused)
		So(resp.ConsensusReady, ShouldBeTrue)
		So(*resp.MLPrediction, ShouldEqual, 2)
		So(*resp.DataQuality, ShouldEqual, 0.9)
		So(resp.Error, ShouldBeEmpty)
	})

	Convey("Given a failure", t, func() {
		resp := codec.ErrorResponse(errors.New("boom"))
		data, err := json.Marshal(resp)
		So(err, ShouldBeNil)

		var fields map[string]any
		So(json.Unmarshal(data, &fields), ShouldBeNil)

		Convey("Then every required field carries its safe default", func() {
			So(fields["stress"], ShouldEqual, 50.0)
			So(fields["energy"], ShouldEqual, 50.0)
			So(fields["focus"], ShouldEqual, 50.0)
			So(fields["authenticity"], ShouldEqual, 70.0)
			So(fields["confidence"], ShouldEqual, 0.5)
			So(fields["emotion_category"], ShouldEqual, "error")
			So(fields["consensus_ready"], ShouldEqual, false)
			So(fields["readiness_score"], ShouldEqual, 0.0)
			So(fields["ml_used"], ShouldEqual, false)
			So(fields["error"], ShouldEqual, "boom")
		})
	})
}
