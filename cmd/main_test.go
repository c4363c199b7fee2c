package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/avelier/trustline/internal/adapters/http/api"
	app "github.com/avelier/trustline/internal/app"
	"github.com/avelier/trustline/internal/config"
	"github.com/avelier/trustline/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainWiring(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("TRUSTLINE_ADDR", ":8080")
			_ = os.Setenv("TRUSTLINE_QUEUE_SIZE", "1000")
			_ = os.Setenv("TRUSTLINE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("TRUSTLINE_ADDR")
				_ = os.Unsetenv("TRUSTLINE_QUEUE_SIZE")
				_ = os.Unsetenv("TRUSTLINE_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When wiring the full HTTP surface", func() {
			ctx := context.Background()
			svc := app.New(app.WithWorkerCount(2))
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			api.NewServer(svc, svc, 100).Register(ctx, mux)
			srv := httptest.NewServer(mux)
			defer srv.Close()

			convey.Convey("Then the health endpoint should respond", func() {
				resp, err := http.Get(srv.URL + "/healthz")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the stats endpoint should respond", func() {
				resp, err := http.Get(srv.URL + "/stats")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When converting configured reputation deltas", func() {
			deltas := reputationDeltas(map[string]float64{"excellent": 12, "poor": -20})

			convey.Convey("Then bands map to accuracy categories", func() {
				convey.So(deltas, convey.ShouldHaveLength, 2)
				convey.So(deltas["excellent"], convey.ShouldEqual, 12)
				convey.So(deltas["poor"], convey.ShouldEqual, -20)
			})
		})
	})
}
