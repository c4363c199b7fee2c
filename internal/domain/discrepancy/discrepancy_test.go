package discrepancy_test

import (
	"testing"
	"time"

	discrepancy "github.com/avelier/trustline/internal/domain/discrepancy"
	"github.com/avelier/trustline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAnalyze(t *testing.T) {
	Convey("Given a discrepancy analyzer", t, func() {
		analyzer := discrepancy.NewAnalyzer()

		prediction := model.Prediction{
			ID:              "pred-1",
			EvaluatorID:     "eval-1",
			TargetID:        "ep-1",
			PredictedScore:  80,
			PredictedGrade:  model.GradeBMinus,
			ConfidenceLevel: 0.9,
			CreatedAt:       time.Now(),
		}

		Convey("When the actual score comes in below the prediction", func() {
			evaluation := model.Evaluation{
				ID:           "evl-1",
				PredictionID: "pred-1",
				EvaluatorID:  "eval-1",
				TargetID:     "ep-1",
				ActualScore:  72,
				ActualGrade:  model.GradeCMinus,
			}
			d := analyzer.Analyze(prediction, evaluation)

			Convey("Then the discrepancy captures the signed and absolute error", func() {
				So(d.ScoreDifference, ShouldEqual, -8)
				So(d.AbsoluteError, ShouldEqual, 8)
				So(d.Overestimated, ShouldBeTrue)
				So(d.GradeMatch, ShouldBeFalse)
				So(d.Category, ShouldEqual, model.AccuracyGood)
			})

			Convey("And it references exactly that prediction and evaluation", func() {
				So(d.PredictionID, ShouldEqual, "pred-1")
				So(d.EvaluationID, ShouldEqual, "evl-1")
				So(d.EvaluatorID, ShouldEqual, "eval-1")
				So(d.ID, ShouldNotBeBlank)
			})
		})

		Convey("When the prediction was exactly right", func() {
			evaluation := model.Evaluation{
				ID: "evl-2", PredictionID: "pred-1",
				ActualScore: 80, ActualGrade: model.GradeBMinus,
			}
			d := analyzer.Analyze(prediction, evaluation)

			Convey("Then the error is zero and grades match", func() {
				So(d.AbsoluteError, ShouldEqual, 0)
				So(d.Overestimated, ShouldBeFalse)
				So(d.GradeMatch, ShouldBeTrue)
				So(d.Category, ShouldEqual, model.AccuracyExcellent)
			})
		})
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given the fixed accuracy bands", t, func() {
		Convey("Then boundaries are half-open with inclusive lower bounds", func() {
			So(discrepancy.Categorize(0), ShouldEqual, model.AccuracyExcellent)
			So(discrepancy.Categorize(4.99), ShouldEqual, model.AccuracyExcellent)
			So(discrepancy.Categorize(5), ShouldEqual, model.AccuracyGood)
			So(discrepancy.Categorize(9.99), ShouldEqual, model.AccuracyGood)
			So(discrepancy.Categorize(10), ShouldEqual, model.AccuracyFair)
			So(discrepancy.Categorize(19.99), ShouldEqual, model.AccuracyFair)
			So(discrepancy.Categorize(20), ShouldEqual, model.AccuracyPoor)
			So(discrepancy.Categorize(100), ShouldEqual, model.AccuracyPoor)
		})
	})
}
