package metrics_test

import (
	"testing"

	metrics "github.com/avelier/trustline/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When constructing with options", func() {
			manager := metrics.NewManager(
				metrics.WithRegistry(registry),
				metrics.WithNamespace("testns"),
				metrics.WithSubsystem("testsub"),
				metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then collectors register without collision", func() {
				So(manager, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("Then recording through them does not panic", func() {
			So(func() {
				metrics.RecordTestScored()
				metrics.RecordPredictionRegistered()
				metrics.RecordEvaluationAccepted()
				metrics.RecordEvaluationDuplicate()
				metrics.RecordDiscrepancy("excellent")
				metrics.RecordReputationUpdate()
				metrics.RecordReputationClamp()
				metrics.RecordWorkerError()
				metrics.RecordJournalError()
				metrics.RecordQueueEnqueueError()
				metrics.RecordScoreComputeLatency(1.5)
				metrics.RecordWorkerProcessingLatency(2.5)
				metrics.UpdateQueueSize(3)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateQueueUtilization(0.03)
				metrics.UpdateWorkerCount(4)
				metrics.UpdateEvaluatorsTracked(7)
				metrics.UpdateEndpointsTracked(9)
				metrics.RecordHTTPRequest("tests", "POST", "200")
				metrics.RecordHTTPRequestDuration("tests", "POST", "200", 12)
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
				metrics.RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("And the custom registry gathers them", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
