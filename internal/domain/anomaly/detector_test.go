package anomaly_test

import (
	"testing"

	"github.com/okian/emochain/internal/domain/anomaly"
	"github.com/okian/emochain/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snap(hr, hrv, sc, mv float64) model.NormalizedSnapshot {
	return model.NormalizedSnapshot{HeartRate: hr, HRV: hrv, SkinConductance: sc, Movement: mv}
}

func TestDetect(t *testing.T) {
	d := anomaly.NewDetector()

	Convey("Given a plausible resting reading", t, func() {
		r := d.Detect(snap(72, 45, 0.3, 0.2), nil)

		Convey("Then nothing is flagged", func() {
			So(r.HasAnomaly, ShouldBeFalse)
			So(r.AnomalyScore, ShouldEqual, 0.0)
			So(r.AnomalyTypes, ShouldBeEmpty)
			So(r.Confidence, ShouldEqual, 1.0)
		})
	})

	Convey("Given a pegged heart rate with no movement", t, func() {
		r := d.Detect(snap(200, 5, 0.9, 0.0), nil)

		Convey("Then the round value and the motion mismatch both fire", func() {
			So(r.AnomalyTypes, ShouldResemble, []string{anomaly.TagArtificialPattern, anomaly.TagMovementHRMismatch})
			So(r.AnomalyScore, ShouldAlmostEqual, 0.6, 1e-9)
			So(r.HasAnomaly, ShouldBeTrue)
			So(r.Confidence, ShouldAlmostEqual, 0.4, 1e-9)
		})
	})

	Convey("Given a heart rate outside the physiological range", t, func() {
		r := d.Detect(snap(225, 30, 0.5, 0.5), nil)

		Convey("Then impossible_heart_rate is tagged", func() {
			So(r.AnomalyTypes, ShouldContain, anomaly.TagImpossibleHeartRate)
			So(r.AnomalyScore, ShouldAlmostEqual, 0.5, 1e-9)
			So(r.HasAnomaly, ShouldBeFalse)
		})
	})

	Convey("Given high heart rate with high hrv", t, func() {
		r := d.Detect(snap(125, 60, 0.5, 0.5), nil)

		Convey("Then the correlation is inconsistent but below threshold", func() {
			So(r.AnomalyTypes, ShouldResemble, []string{anomaly.TagInconsistentCorrelation})
			So(r.HasAnomaly, ShouldBeFalse)
			So(r.Confidence, ShouldAlmostEqual, 0.7, 1e-9)
		})
	})

	Convey("Given a heart rate divisible by 5 but not 10", t, func() {
		r := d.Detect(snap(85, 30, 0.5, 0.2), nil)
		So(r.AnomalyTypes, ShouldBeEmpty)
	})

	Convey("Given every rule firing at once", t, func() {
		r := d.Detect(snap(230, 60, 0.5, 0.0), nil)

		Convey("Then confidence floors at zero", func() {
			So(r.AnomalyScore, ShouldAlmostEqual, 1.4, 1e-9)
			So(r.Confidence, ShouldEqual, 0.0)
			So(r.HasAnomaly, ShouldBeTrue)
		})
	})
}

func TestDetectBaseline(t *testing.T) {
	d := anomaly.NewDetector()

	Convey("Given a steady history", t, func() {
		var history []model.NormalizedSnapshot
		for i := 0; i < 6; i++ {
			history = append(history, snap(71, 40, 0.3, 0.2))
		}

		Convey("When the current reading deviates by more than 50", func() {
			r := d.Detect(snap(123, 40, 0.3, 0.2), history)
			So(r.AnomalyTypes, ShouldResemble, []string{anomaly.TagExtremeDeviation})
			So(r.AnomalyScore, ShouldAlmostEqual, 0.3, 1e-9)
		})

		Convey("When the history is too short", func() {
			r := d.Detect(snap(123, 40, 0.3, 0.2), history[:5])
			So(r.AnomalyTypes, ShouldBeEmpty)
		})

		Convey("When the reading stays near the baseline", func() {
			r := d.Detect(snap(81, 40, 0.3, 0.2), history)
			So(r.AnomalyTypes, ShouldBeEmpty)
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given a history of capacity 3", t, func() {
		h := anomaly.NewHistory(3)
		for _, hr := range []float64{60, 61, 62, 63} {
			h.Append(snap(hr, 30, 0.5, 0.1))
		}

		Convey("Then the oldest entry was evicted", func() {
			So(h.Len(), ShouldEqual, 3)
			s := h.Snapshots()
			So(s[0].HeartRate, ShouldEqual, 61.0)
			So(s[2].HeartRate, ShouldEqual, 63.0)
		})

		Convey("And snapshots are a copy", func() {
			s := h.Snapshots()
			s[0].HeartRate = 0
			So(h.Snapshots()[0].HeartRate, ShouldEqual, 61.0)
		})
	})

	Convey("A non-positive size falls back to the default", t, func() {
		So(anomaly.NewHistory(0).Cap(), ShouldEqual, 20)
	})
}
