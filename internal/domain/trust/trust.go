// Package trust computes endpoint trust scores from test observation windows.
package trust

import (
	"math"
	"time"

	"github.com/avelier/trustline/internal/domain/model"
	"github.com/tidwall/gjson"
)

// Default scoring configuration constants.
const (
	DefaultWindowSize = 100

	defaultUptimeWeight   = 0.35
	defaultSpeedWeight    = 0.25
	defaultAccuracyWeight = 0.30
	defaultAgeWeight      = 0.10

	maxScoreValue = 100.0
)

// Scorer converts a bounded window of test records into a TrustScore snapshot.
//
// Implementations must be pure: the same window always yields the same
// snapshot, and repeated computation safely overwrites any prior cache entry.
type Scorer interface {
	// Score computes the snapshot for one endpoint's window, newest first.
	Score(endpointID string, window []model.TestRecord, now time.Time) model.TrustScore
}

// Engine implements Scorer with the piecewise-linear reference curves.
type Engine struct {
	uptimeWeight   float64
	speedWeight    float64
	accuracyWeight float64
	ageWeight      float64
	windowSize     int
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		uptimeWeight:   defaultUptimeWeight,
		speedWeight:    defaultSpeedWeight,
		accuracyWeight: defaultAccuracyWeight,
		ageWeight:      defaultAgeWeight,
		windowSize:     DefaultWindowSize,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WindowSize returns the maximum number of records considered per endpoint.
func (e *Engine) WindowSize() int {
	return e.windowSize
}

// Score computes the TrustScore snapshot for one endpoint.
//
// An empty window yields the explicit zero-data snapshot (all sub-scores 0,
// grade F, AVOID) rather than an error. Records without an observed latency
// count toward uptime but are excluded from the speed sample.
func (e *Engine) Score(endpointID string, window []model.TestRecord, now time.Time) model.TrustScore {
	ts := model.TrustScore{
		EndpointID:       endpointID,
		Grade:            model.GradeF,
		Recommendation:   model.RecommendAvoid,
		LastCalculatedAt: now,
	}

	if len(window) > e.windowSize {
		window = window[:e.windowSize]
	}
	if len(window) == 0 {
		return ts
	}

	var (
		successes    int
		validSamples int
		latencySum   float64
		latencyN     int
		oldest       = window[0].Timestamp
	)
	for _, r := range window {
		if r.Timestamp.Before(oldest) {
			oldest = r.Timestamp
		}
		if !r.Success {
			continue
		}
		successes++
		if r.LatencyMS > 0 {
			latencySum += r.LatencyMS
			latencyN++
		}
		if r.Sample != "" && gjson.Valid(r.Sample) {
			validSamples++
		}
	}

	ts.TotalTests = len(window)
	ts.SuccessfulTests = successes
	ts.FailedTests = len(window) - successes
	ts.FirstTestedAt = oldest

	successRate := float64(successes) / float64(len(window)) * 100

	var meanLatency float64
	if latencyN > 0 {
		meanLatency = latencySum / float64(latencyN)
	}
	ts.AvgResponseTimeMS = meanLatency

	var validRate float64
	if successes > 0 {
		validRate = float64(validSamples) / float64(successes) * 100
	}

	ts.UptimeScore = round1(uptimeScore(successRate))
	ts.SpeedScore = round1(speedScore(meanLatency, latencyN))
	ts.AccuracyScore = round1(accuracyScore(validRate))
	ts.AgeScore = round1(ageScore(now.Sub(oldest)))

	overall := e.uptimeWeight*ts.UptimeScore +
		e.speedWeight*ts.SpeedScore +
		e.accuracyWeight*ts.AccuracyScore +
		e.ageWeight*ts.AgeScore
	ts.OverallScore = round1(math.Max(0, math.Min(maxScoreValue, overall)))

	ts.Grade = GradeFor(ts.OverallScore)
	ts.Recommendation = RecommendationFor(ts.OverallScore)

	return ts
}

// uptimeScore maps a success-rate percentage to [0,100] with diminishing
// returns below known thresholds.
func uptimeScore(rate float64) float64 {
	switch {
	case rate >= 99:
		return 95 + (rate-99)*5
	case rate >= 95:
		return 85 + (rate-95)/4*10
	case rate >= 90:
		return 70 + (rate-90)/5*15
	case rate >= 80:
		return 50 + (rate-80)/10*20
	default:
		return rate / 80 * 50
	}
}

// speedScore maps the mean latency over successful tests to [0,100].
// With no latency sample at all the band floor for the slowest segment
// applies to nothing; zero observations score zero.
func speedScore(meanMS float64, samples int) float64 {
	if samples == 0 {
		return 0
	}
	switch {
	case meanMS < 200:
		return 95 + (200-meanMS)/200*5
	case meanMS < 500:
		return 85 + (500-meanMS)/300*10
	case meanMS < 1000:
		return 70 + (1000-meanMS)/500*15
	case meanMS < 2000:
		return 50 + (2000-meanMS)/1000*20
	default:
		return math.Max(0, 50-(meanMS-2000)/100)
	}
}

// accuracyScore maps the valid-structured-sample rate to [0,100]. The curve
// is steeper than uptime: anything under 70% valid lands below 55.
func accuracyScore(rate float64) float64 {
	switch {
	case rate >= 95:
		return 90 + (rate-95)/5*10
	case rate >= 90:
		return 80 + (rate-90)/5*10
	case rate >= 80:
		return 65 + (rate-80)/10*15
	case rate >= 70:
		return 55 + (rate-70)/10*10
	default:
		return rate / 70 * 55
	}
}

// ageScore maps elapsed time since the oldest record to [0,100]. Credit past
// 30 days accrues slowly, capped at 100.
func ageScore(age time.Duration) float64 {
	days := age.Hours() / 24
	switch {
	case days >= 30:
		return math.Min(100, 95+(days-30)/30*5)
	case days >= 14:
		return 80 + (days-14)/16*15
	case days >= 7:
		return 60 + (days-7)/7*20
	case days >= 3:
		return 40 + (days-3)/4*20
	default:
		return math.Max(0, days) / 3 * 40
	}
}

// GradeFor maps an overall score to its letter grade. Bands are monotonic
// and non-overlapping; every value in [0,100] maps to exactly one grade.
func GradeFor(overall float64) model.Grade {
	switch {
	case overall >= 98:
		return model.GradeAPlus
	case overall >= 93:
		return model.GradeA
	case overall >= 90:
		return model.GradeAMinus
	case overall >= 87:
		return model.GradeBPlus
	case overall >= 83:
		return model.GradeB
	case overall >= 80:
		return model.GradeBMinus
	case overall >= 77:
		return model.GradeCPlus
	case overall >= 73:
		return model.GradeC
	case overall >= 70:
		return model.GradeCMinus
	case overall >= 60:
		return model.GradeD
	default:
		return model.GradeF
	}
}

// RecommendationFor maps an overall score to usage guidance.
func RecommendationFor(overall float64) model.Recommendation {
	switch {
	case overall >= 85:
		return model.RecommendTrusted
	case overall >= 65:
		return model.RecommendCaution
	default:
		return model.RecommendAvoid
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
