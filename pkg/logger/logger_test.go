package logger_test

import (
	"context"
	"log/slog"
	"testing"

	logger "github.com/avelier/trustline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()

	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When getting the global logger", func() {
			l := logger.Get()

			Convey("Then it logs without panicking", func() {
				So(func() {
					l.Info(ctx, "hello", logger.String("k", "v"), logger.Int("n", 1))
					l.Warn(ctx, "careful", logger.Float64("score", 97.5))
					l.Debug(ctx, "details", logger.Bool("ok", true))
				}, ShouldNotPanic)
			})

			Convey("And named loggers derive from it", func() {
				So(func() {
					logger.Named("worker").Info(ctx, "scoped")
				}, ShouldNotPanic)
			})
		})

		Convey("When setting levels from strings", func() {
			Convey("Then known levels parse", func() {
				So(logger.SetLevelString("debug"), ShouldBeNil)
				So(logger.SetLevelString("WARN"), ShouldBeNil)
				So(logger.SetLevelString(""), ShouldBeNil)
			})

			Convey("And unknown levels are rejected", func() {
				So(logger.SetLevelString("loud"), ShouldNotBeNil)
			})

			logger.SetLevel(slog.LevelInfo)
		})

		Convey("When syncing", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
