package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/avelier/trustline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.WindowSize, convey.ShouldEqual, 100)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.JournalPath, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the score weights should sum to 1", func() {
			sum := cfg.UptimeWeight + cfg.SpeedWeight + cfg.AccuracyWeight + cfg.AgeWeight
			convey.So(sum, convey.ShouldAlmostEqual, 1.0, 1e-9)
		})

		convey.Convey("Then every accuracy band should have a delta", func() {
			convey.So(cfg.ReputationDeltas["excellent"], convey.ShouldEqual, 10)
			convey.So(cfg.ReputationDeltas["good"], convey.ShouldEqual, 5)
			convey.So(cfg.ReputationDeltas["fair"], convey.ShouldEqual, -5)
			convey.So(cfg.ReputationDeltas["poor"], convey.ShouldEqual, -15)
		})
	})
}
