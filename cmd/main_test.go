package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/devscore/internal/config"
	"github.com/okian/devscore/pkg/logger"
	"github.com/okian/devscore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("DEVSCORE_ADDR", ":8080")
			_ = os.Setenv("DEVSCORE_COMMIT_CAP", "20")
			defer func() {
				_ = os.Unsetenv("DEVSCORE_ADDR")
				_ = os.Unsetenv("DEVSCORE_COMMIT_CAP")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CommitCap, convey.ShouldEqual, 20)

				convey.Convey("And the service should pick it up", func() {
					svc := newService(cfg, logger.Get())
					convey.So(svc.Calibration().Daily.CommitCap, convey.ShouldEqual, 20)
				})
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			srv := newHTTPServer(":0", http.NewServeMux())

			convey.Convey("Then the timeouts should be set", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.IdleTimeout, convey.ShouldEqual, idleTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the assembled application", t, func() {
		ctx := context.Background()
		svc := newService(config.New(ctx), logger.Get())
		ts := httptest.NewServer(newMux(ctx, svc))
		defer ts.Close()

		convey.Convey("When scoring a day end to end", func() {
			resp, err := http.Post(ts.URL+"/score/daily", "application/json",
				strings.NewReader(`{"commits_today":5,"coding_minutes":240,"copilot_score":0.8,"tier":"mid","active_projects":2}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the score should be returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				var body map[string]float64
				convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(body["daily_score"], convey.ShouldAlmostEqual, 67.65, 0.011)
			})
		})

		convey.Convey("When fetching the docs and metrics", func() {
			for _, path := range []string{"/api-docs", "/openapi.yaml", "/healthz", "/calibration"} {
				resp, err := http.Get(ts.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("DEVSCORE_COMMIT_WEIGHT", "0.9")
			defer func() { _ = os.Unsetenv("DEVSCORE_COMMIT_WEIGHT") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable on a private registry", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}
