package normalize_test

import (
	"math"
	"sync"
	"testing"

	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(hr, hrv, sc, mv float64) model.BiometricSnapshot {
	return model.BiometricSnapshot{
		HeartRate:       model.Float(hr),
		HRV:             model.Float(hrv),
		SkinConductance: model.Float(sc),
		Movement:        model.Float(mv),
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	Convey("Given a fresh normalizer", t, func() {
		n := normalize.New()

		Convey("When the snapshot is empty", func() {
			out := n.Normalize(model.BiometricSnapshot{})

			Convey("Then the primaries take their defaults", func() {
				So(out.HeartRate, ShouldEqual, 70.0)
				So(out.HRV, ShouldEqual, 30.0)
				So(out.SkinConductance, ShouldEqual, 0.5)
				So(out.Movement, ShouldEqual, 0.1)
				So(out.RespiratoryRate, ShouldBeNil)
				So(out.Temperature, ShouldBeNil)
				So(out.AmbientLight, ShouldBeNil)
			})
		})

		Convey("When the first reading is in range", func() {
			out := n.Normalize(snapshot(85, 25, 0.6, 0.3))

			Convey("Then the raw clamped heart rate is returned", func() {
				So(out.HeartRate, ShouldEqual, 85.0)
				So(out.HRV, ShouldEqual, 25.0)
				So(out.SkinConductance, ShouldEqual, 0.6)
				So(out.Movement, ShouldEqual, 0.3)
			})
		})

		Convey("When readings are far out of range", func() {
			out := n.Normalize(snapshot(500, -3, 4, -1))

			Convey("Then every primary is clamped", func() {
				So(out.HeartRate, ShouldEqual, 200.0)
				So(out.HRV, ShouldEqual, 5.0)
				So(out.SkinConductance, ShouldEqual, 1.0)
				So(out.Movement, ShouldEqual, 0.0)
			})
		})

		Convey("When readings are NaN or infinite", func() {
			out := n.Normalize(model.BiometricSnapshot{
				HeartRate:       model.Float(math.NaN()),
				HRV:             model.Float(math.Inf(1)),
				SkinConductance: model.Float(math.Inf(-1)),
				Movement:        model.Float(math.NaN()),
				Temperature:     model.Float(math.NaN()),
			})

			Convey("Then NaN falls back to defaults and infinities clamp", func() {
				So(out.HeartRate, ShouldEqual, 70.0)
				So(out.HRV, ShouldEqual, 100.0)
				So(out.SkinConductance, ShouldEqual, 0.0)
				So(out.Movement, ShouldEqual, 0.1)
				So(out.Temperature, ShouldBeNil)
			})
		})

		Convey("When optional fields are present", func() {
			out := n.Normalize(model.BiometricSnapshot{
				RespiratoryRate: model.Float(40),
				Temperature:     model.Float(30),
				AccelerationX:   model.Float(0.2),
				AccelerationZ:   model.Float(900),
				AmbientLight:    model.Float(1.5),
			})

			Convey("Then they are clamped into their ranges", func() {
				So(*out.RespiratoryRate, ShouldEqual, 25.0)
				So(*out.Temperature, ShouldEqual, 35.0)
				So(*out.AccelerationX, ShouldEqual, 0.2)
				So(out.AccelerationY, ShouldBeNil)
				So(*out.AccelerationZ, ShouldEqual, 160.0)
				So(*out.AmbientLight, ShouldEqual, 1.0)
			})
		})
	})
}

func TestNormalizer_Bounds(t *testing.T) {
	Convey("Given extreme and malformed inputs", t, func() {
		n := normalize.New()
		extremes := []float64{math.Inf(1), math.Inf(-1), math.NaN(), -1e308, 1e308, 0, -0.0001, 1.0001, 39.999, 200.0001}

		Convey("Then every normalized primary stays within bounds", func() {
			for _, v := range extremes {
				out := n.Normalize(snapshot(v, v, v, v))
				So(out.HeartRate, ShouldBeBetweenOrEqual, model.MinHeartRate, model.MaxHeartRate)
				So(out.HRV, ShouldBeBetweenOrEqual, model.MinHRV, model.MaxHRV)
				So(out.SkinConductance, ShouldBeBetweenOrEqual, model.MinSkinConductance, model.MaxSkinConductance)
				So(out.Movement, ShouldBeBetweenOrEqual, model.MinMovement, model.MaxMovement)
			}
		})
	})
}

func TestNormalizer_Smoothing(t *testing.T) {
	Convey("Given a normalizer fed a rising heart rate", t, func() {
		n := normalize.New()
		var last model.NormalizedSnapshot
		for _, hr := range []float64{70, 80, 90, 100, 110, 120} {
			last = n.Normalize(snapshot(hr, 30, 0.5, 0.1))
		}

		Convey("Then the sixth value is the mean of the last five", func() {
			So(last.HeartRate, ShouldEqual, 100.0)
			So(n.History(), ShouldResemble, []float64{80, 90, 100, 110, 120})
		})
	})

	Convey("Given two normalizers for different subjects", t, func() {
		a := normalize.New()
		b := normalize.New()
		a.Normalize(snapshot(150, 30, 0.5, 0.1))

		Convey("Then their windows are independent", func() {
			out := b.Normalize(snapshot(60, 30, 0.5, 0.1))
			So(out.HeartRate, ShouldEqual, 60.0)
			So(a.History(), ShouldResemble, []float64{150})
		})
	})

	Convey("Given a custom window size", t, func() {
		n := normalize.New(normalize.WithWindowSize(2))
		n.Normalize(snapshot(60, 30, 0.5, 0.1))
		n.Normalize(snapshot(80, 30, 0.5, 0.1))
		out := n.Normalize(snapshot(100, 30, 0.5, 0.1))

		Convey("Then only the last two readings are averaged", func() {
			So(out.HeartRate, ShouldEqual, 90.0)
		})
	})

	Convey("Given concurrent readings on one normalizer", t, func() {
		n := normalize.New()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n.Normalize(snapshot(100, 30, 0.5, 0.1))
			}()
		}
		wg.Wait()

		Convey("Then the window stays bounded", func() {
			So(len(n.History()), ShouldEqual, 5)
		})
	})
}

func TestNormalizer_Restore(t *testing.T) {
	Convey("Given a normalizer with two readings", t, func() {
		n := normalize.New(normalize.WithWindowSize(3))
		n.Normalize(snapshot(60, 50, 0.3, 0.1))
		n.Normalize(snapshot(80, 50, 0.3, 0.1))
		saved := n.History()

		Convey("When a later reading is undone", func() {
			n.Normalize(snapshot(180, 50, 0.3, 0.1))
			n.Restore(saved)

			Convey("Then smoothing continues from the saved window", func() {
				So(n.History(), ShouldResemble, []float64{60, 80})
				So(n.Normalize(snapshot(100, 50, 0.3, 0.1)).HeartRate, ShouldEqual, 80)
			})
		})

		Convey("When more values than the window holds are restored", func() {
			n.Restore([]float64{50, 60, 70, 80})

			Convey("Then only the newest are kept", func() {
				So(n.History(), ShouldResemble, []float64{60, 70, 80})
			})
		})
	})
}

func TestHRWindow(t *testing.T) {
	Convey("Given an empty window", t, func() {
		w := normalize.NewHRWindow(3)

		Convey("Then the mean is zero", func() {
			So(w.Mean(), ShouldEqual, 0.0)
			So(w.Len(), ShouldEqual, 0)
			So(w.Cap(), ShouldEqual, 3)
		})

		Convey("When pushing beyond capacity", func() {
			w.Push(1)
			w.Push(2)
			w.Push(3)
			mean := w.Push(10)

			Convey("Then the oldest value is evicted", func() {
				So(w.Values(), ShouldResemble, []float64{2, 3, 10})
				So(mean, ShouldEqual, 5.0)
			})
		})
	})

	Convey("Given a non-positive size", t, func() {
		w := normalize.NewHRWindow(0)

		Convey("Then the default size is used", func() {
			So(w.Cap(), ShouldEqual, 5)
		})
	})
}
