package trust_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/avelier/trustline/internal/domain/model"
	trust "github.com/avelier/trustline/internal/domain/trust"
	. "github.com/smartystreets/goconvey/convey"
)

const validSample = `{"status":"ok","items":[1,2,3]}`

// makeWindow builds a newest-first window of n records where the first
// failures entries are failed probes and the rest succeed at latencyMS.
func makeWindow(n, failures int, latencyMS float64, oldestAge time.Duration, now time.Time) []model.TestRecord {
	records := make([]model.TestRecord, 0, n)
	step := oldestAge / time.Duration(n)
	for i := 0; i < n; i++ {
		r := model.TestRecord{
			EndpointID: "ep-1",
			Timestamp:  now.Add(-time.Duration(i) * step),
			Success:    i >= failures,
			LatencyMS:  latencyMS,
			StatusCode: 200,
			Sample:     validSample,
		}
		if !r.Success {
			r.StatusCode = 503
			r.Error = "connection refused"
			r.LatencyMS = 0
			r.Sample = ""
		}
		records = append(records, r)
	}
	// Oldest record sits exactly oldestAge in the past.
	records[n-1].Timestamp = now.Add(-oldestAge)
	return records
}

func TestEngineScore(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	Convey("Given a trust engine with default weights", t, func() {
		engine := trust.NewEngine()

		Convey("When scoring a healthy, mature endpoint", func() {
			// 100 tests, 99 successful, 150ms mean latency, valid samples,
			// oldest test 40 days old.
			window := makeWindow(100, 1, 150, 40*24*time.Hour, now)
			ts := engine.Score("ep-1", window, now)

			Convey("Then sub-scores land in the expected bands", func() {
				So(ts.UptimeScore, ShouldBeBetweenOrEqual, 95, 100)
				So(ts.SpeedScore, ShouldBeBetweenOrEqual, 95, 100)
				So(ts.AccuracyScore, ShouldBeBetweenOrEqual, 90, 100)
				So(ts.AgeScore, ShouldBeBetweenOrEqual, 95, 100)
			})

			Convey("And the composite earns an A-range grade and TRUSTED", func() {
				So(ts.OverallScore, ShouldBeBetweenOrEqual, 90, 100)
				So(ts.Grade, ShouldBeIn, []model.Grade{model.GradeAMinus, model.GradeA, model.GradeAPlus})
				So(ts.Recommendation, ShouldEqual, model.RecommendTrusted)
			})

			Convey("And the counters reflect the window", func() {
				So(ts.TotalTests, ShouldEqual, 100)
				So(ts.SuccessfulTests, ShouldEqual, 99)
				So(ts.FailedTests, ShouldEqual, 1)
				So(ts.AvgResponseTimeMS, ShouldAlmostEqual, 150, 0.001)
				So(ts.FirstTestedAt, ShouldHappenOnOrBefore, now.Add(-40*24*time.Hour))
			})
		})

		Convey("When scoring an empty window", func() {
			ts := engine.Score("ep-empty", nil, now)

			Convey("Then the zero-data defaults apply", func() {
				So(ts.OverallScore, ShouldEqual, 0)
				So(ts.UptimeScore, ShouldEqual, 0)
				So(ts.SpeedScore, ShouldEqual, 0)
				So(ts.AccuracyScore, ShouldEqual, 0)
				So(ts.AgeScore, ShouldEqual, 0)
				So(ts.Grade, ShouldEqual, model.GradeF)
				So(ts.Recommendation, ShouldEqual, model.RecommendAvoid)
				So(ts.TotalTests, ShouldEqual, 0)
			})
		})

		Convey("When records lack an observed latency", func() {
			window := makeWindow(10, 0, 0, 5*24*time.Hour, now)
			ts := engine.Score("ep-1", window, now)

			Convey("Then they count toward uptime but not speed", func() {
				So(ts.UptimeScore, ShouldBeBetweenOrEqual, 95, 100)
				So(ts.SpeedScore, ShouldEqual, 0)
				So(ts.AvgResponseTimeMS, ShouldEqual, 0)
			})
		})

		Convey("When the window exceeds the configured size", func() {
			window := makeWindow(150, 0, 100, 10*24*time.Hour, now)
			ts := engine.Score("ep-1", window, now)

			Convey("Then only the newest records are considered", func() {
				So(ts.TotalTests, ShouldEqual, trust.DefaultWindowSize)
			})
		})

		Convey("When scoring the same window twice", func() {
			window := makeWindow(50, 3, 420, 12*24*time.Hour, now)
			first := engine.Score("ep-1", window, now)
			second := engine.Score("ep-1", window, now)

			Convey("Then the result is identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given custom sub-score weights", t, func() {
		engine := trust.NewEngine(trust.WithWeights(0.25, 0.25, 0.25, 0.25))
		window := makeWindow(20, 0, 100, 40*24*time.Hour, now)

		Convey("When scoring, the composite reflects them", func() {
			ts := engine.Score("ep-1", window, now)
			want := 0.25 * (ts.UptimeScore + ts.SpeedScore + ts.AccuracyScore + ts.AgeScore)
			So(ts.OverallScore, ShouldAlmostEqual, want, 0.05)
		})
	})
}

func TestCurveMonotonicity(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	engine := trust.NewEngine()

	Convey("Given increasing success rates", t, func() {
		Convey("Then the uptime score never decreases", func() {
			prev := -1.0
			for failures := 100; failures >= 0; failures -= 5 {
				window := makeWindow(100, failures, 100, 10*24*time.Hour, now)
				ts := engine.Score("ep-1", window, now)
				So(ts.UptimeScore, ShouldBeGreaterThanOrEqualTo, prev)
				prev = ts.UptimeScore
			}
		})
	})

	Convey("Given increasing latencies", t, func() {
		Convey("Then the speed score never increases", func() {
			prev := 101.0
			for _, latency := range []float64{10, 150, 199, 250, 499, 900, 1500, 2500, 5000, 10000} {
				window := makeWindow(20, 0, latency, 10*24*time.Hour, now)
				ts := engine.Score("ep-1", window, now)
				So(ts.SpeedScore, ShouldBeLessThanOrEqualTo, prev)
				prev = ts.SpeedScore
			}
		})
	})

	Convey("Given extreme latencies", t, func() {
		Convey("Then the speed score is floored at zero", func() {
			window := makeWindow(20, 0, 1_000_000, 10*24*time.Hour, now)
			ts := engine.Score("ep-1", window, now)
			So(ts.SpeedScore, ShouldEqual, 0)
		})
	})
}

func TestGradeAndRecommendationBands(t *testing.T) {
	Convey("Given every overall score in [0,100] at 0.1 resolution", t, func() {
		Convey("Then each maps to exactly one grade and one recommendation", func() {
			for i := 0; i <= 1000; i++ {
				score := float64(i) / 10
				grade := trust.GradeFor(score)
				rec := trust.RecommendationFor(score)
				So(grade, ShouldNotBeEmpty)
				So(rec, ShouldBeIn, []model.Recommendation{
					model.RecommendTrusted, model.RecommendCaution, model.RecommendAvoid,
				})
			}
		})

		Convey("And the documented thresholds hold", func() {
			cases := []struct {
				score float64
				grade model.Grade
				rec   model.Recommendation
			}{
				{98, model.GradeAPlus, model.RecommendTrusted},
				{93, model.GradeA, model.RecommendTrusted},
				{90, model.GradeAMinus, model.RecommendTrusted},
				{87, model.GradeBPlus, model.RecommendTrusted},
				{83, model.GradeB, model.RecommendCaution},
				{80, model.GradeBMinus, model.RecommendCaution},
				{77, model.GradeCPlus, model.RecommendCaution},
				{73, model.GradeC, model.RecommendCaution},
				{70, model.GradeCMinus, model.RecommendCaution},
				{60, model.GradeD, model.RecommendAvoid},
				{59.9, model.GradeF, model.RecommendAvoid},
				{0, model.GradeF, model.RecommendAvoid},
			}
			for _, c := range cases {
				Convey(fmt.Sprintf("score %.1f -> %s/%s", c.score, c.grade, c.rec), func() {
					So(trust.GradeFor(c.score), ShouldEqual, c.grade)
					So(trust.RecommendationFor(c.score), ShouldEqual, c.rec)
				})
			}
		})
	})
}
