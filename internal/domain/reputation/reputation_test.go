package reputation_test

import (
	"testing"
	"time"

	"github.com/avelier/trustline/internal/domain/model"
	reputation "github.com/avelier/trustline/internal/domain/reputation"
	. "github.com/smartystreets/goconvey/convey"
)

func discrepancyWith(absErr float64, gradeMatch bool, category model.AccuracyCategory) model.Discrepancy {
	return model.Discrepancy{
		ID:              "d-1",
		EvaluatorID:     "eval-1",
		AbsoluteError:   absErr,
		GradeMatch:      gradeMatch,
		Category:        category,
		ConfidenceLevel: 0.8,
	}
}

func TestApply(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	Convey("Given a reputation engine and a first-seen evaluator", t, func() {
		engine := reputation.NewEngine(reputation.WithClock(func() time.Time { return now }))
		profile := reputation.NewProfile("eval-1", now)

		Convey("Then the profile starts at the neutral score", func() {
			So(profile.TrustScore, ShouldEqual, 500)
			So(profile.TotalPredictions, ShouldEqual, 0)
			So(profile.AvgAbsoluteError, ShouldEqual, 0)
		})

		Convey("When an excellent discrepancy with error 2 arrives", func() {
			updated, snap := engine.Apply(profile, discrepancyWith(2, true, model.AccuracyExcellent))

			Convey("Then trust moves 500 -> 510 and counters advance", func() {
				So(updated.TrustScore, ShouldEqual, 510)
				So(updated.AvgAbsoluteError, ShouldEqual, 2)
				So(updated.TotalPredictions, ShouldEqual, 1)
				So(updated.TotalEvaluations, ShouldEqual, 1)
				So(updated.GradeAccuracyRate, ShouldEqual, 1)
				So(updated.PredictionAccuracyRate, ShouldAlmostEqual, 0.98, 1e-9)
			})

			Convey("And the snapshot records the change for audit", func() {
				So(snap.EvaluatorID, ShouldEqual, "eval-1")
				So(snap.TrustScore, ShouldEqual, 510)
				So(snap.ScoreChange, ShouldEqual, 10)
				So(snap.ChangeReason, ShouldEqual, "accurate_prediction")
				So(snap.ID, ShouldNotBeBlank)
				So(snap.Timestamp, ShouldResemble, now)
			})
		})

		Convey("When a sequence of discrepancies is folded in", func() {
			errs := []float64{2, 8, 14, 30, 6}
			cats := []model.AccuracyCategory{
				model.AccuracyExcellent, model.AccuracyGood, model.AccuracyFair,
				model.AccuracyPoor, model.AccuracyGood,
			}
			p := profile
			for i := range errs {
				p, _ = engine.Apply(p, discrepancyWith(errs[i], i%2 == 0, cats[i]))
			}

			Convey("Then the running average equals the arithmetic mean", func() {
				So(p.AvgAbsoluteError, ShouldAlmostEqual, 12.0, 1e-9)
				So(p.TotalPredictions, ShouldEqual, 5)
			})

			Convey("And grade accuracy tracks the hit fraction", func() {
				So(p.GradeAccuracyRate, ShouldAlmostEqual, 3.0/5.0, 1e-9)
			})

			Convey("And the trust score sums the applied deltas", func() {
				// +10 +5 -5 -15 +5 = 0
				So(p.TrustScore, ShouldEqual, 500)
			})
		})

		Convey("When poor discrepancies arrive repeatedly", func() {
			p := profile
			for i := 0; i < 100; i++ {
				p, _ = engine.Apply(p, discrepancyWith(50, false, model.AccuracyPoor))
			}

			Convey("Then the trust score clamps at the floor", func() {
				So(p.TrustScore, ShouldEqual, 0)
			})
		})

		Convey("When excellent discrepancies arrive repeatedly", func() {
			p := profile
			for i := 0; i < 100; i++ {
				p, _ = engine.Apply(p, discrepancyWith(1, true, model.AccuracyExcellent))
			}

			Convey("Then the trust score clamps at the ceiling", func() {
				So(p.TrustScore, ShouldEqual, 1000)
			})

			Convey("And identical errors yield full consistency", func() {
				So(p.ConsistencyScore, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When errors are wildly spread", func() {
			p := profile
			for i := 0; i < 50; i++ {
				p, _ = engine.Apply(p, discrepancyWith(float64(i%2)*90, false, model.AccuracyPoor))
			}

			Convey("Then the consistency score degrades", func() {
				So(p.ConsistencyScore, ShouldBeLessThan, 0.5)
			})
		})
	})

	Convey("Given a custom delta table", t, func() {
		engine := reputation.NewEngine(reputation.WithDeltas(map[model.AccuracyCategory]float64{
			model.AccuracyExcellent: 25,
		}))

		Convey("Then overridden categories use the new delta and others keep defaults", func() {
			So(engine.Delta(model.AccuracyExcellent), ShouldEqual, 25)
			So(engine.Delta(model.AccuracyPoor), ShouldEqual, -15)
		})
	})
}

func TestChangeReason(t *testing.T) {
	Convey("Given the audit reason table", t, func() {
		Convey("Then every category maps to a stable reason", func() {
			So(reputation.ChangeReason(model.AccuracyExcellent), ShouldEqual, "accurate_prediction")
			So(reputation.ChangeReason(model.AccuracyGood), ShouldEqual, "good_prediction")
			So(reputation.ChangeReason(model.AccuracyFair), ShouldEqual, "imprecise_prediction")
			So(reputation.ChangeReason(model.AccuracyPoor), ShouldEqual, "poor_prediction")
		})
	})
}
