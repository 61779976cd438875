package probe_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/devscore/internal/adapters/http/api"
	service "github.com/okian/devscore/internal/app"
	"github.com/okian/devscore/internal/probe"
	"github.com/okian/devscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(service.New()).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func testConfig(baseURL string) *probe.Config {
	return &probe.Config{
		BaseURL:         baseURL,
		NumDaily:        200,
		NumTasks:        100,
		MaxTeamSize:     4,
		UnknownTierRate: 0.2,
		Seed:            42,
		Workers:         4,
		Timeout:         5 * time.Second,
	}
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := probe.NewGenerator(probe.DefaultModel(), 7, 0.1, 5)
		b := probe.NewGenerator(probe.DefaultModel(), 7, 0.1, 5)

		Convey("Then they should produce the same cases", func() {
			da, db := a.GenerateDaily(50), b.GenerateDaily(50)
			So(da, ShouldResemble, db)
			ta, err := a.GenerateTasks(20)
			So(err, ShouldBeNil)
			tb, err := b.GenerateTasks(20)
			So(err, ShouldBeNil)
			So(ta, ShouldResemble, tb)
		})
	})

	Convey("Given a generator without unknown tiers", t, func() {
		g := probe.NewGenerator(probe.DefaultModel(), 11, 0, 6)

		Convey("When generating rating cases", func() {
			tasks, err := g.GenerateTasks(100)
			So(err, ShouldBeNil)

			Convey("Then every team should be valid and expected to succeed", func() {
				for _, tc := range tasks {
					So(tc.RejectTier, ShouldBeEmpty)
					So(len(tc.Request.Employees), ShouldBeBetweenOrEqual, 1, 6)
					So(tc.Expected, ShouldHaveLength, len(tc.Request.Employees))

					var sum float64
					seen := map[string]bool{}
					for _, e := range tc.Request.Employees {
						So(e.Weight, ShouldBeGreaterThan, 0.0)
						So(seen[e.ID], ShouldBeFalse)
						seen[e.ID] = true
						sum += e.Weight
					}
					So(math.Abs(sum-1), ShouldBeLessThan, 0.001)
				}
			})
		})

		Convey("When generating daily cases", func() {
			daily := g.GenerateDaily(200)

			Convey("Then every expected score should be in range and never fall back", func() {
				for _, dc := range daily {
					So(dc.Expected, ShouldBeBetweenOrEqual, 0.0, 100.0)
					So(dc.Fallback, ShouldBeFalse)
				}
			})
		})
	})

	Convey("Given a generator that always picks unknown tiers", t, func() {
		g := probe.NewGenerator(probe.DefaultModel(), 3, 1, 3)

		Convey("Then every rating case should expect a rejection", func() {
			tasks, err := g.GenerateTasks(10)
			So(err, ShouldBeNil)
			for _, tc := range tasks {
				So(tc.RejectTier, ShouldNotBeEmpty)
				So(tc.Expected, ShouldBeNil)
			}
		})

		Convey("Then every daily case should expect the fallback", func() {
			for _, dc := range g.GenerateDaily(10) {
				So(dc.Fallback, ShouldBeTrue)
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running scoring server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When probing it", func() {
			cfg := testConfig(ts.URL)
			cfg.OutputFile = filepath.Join(t.TempDir(), "cases", "probe.json")
			stats, err := probe.Run(context.Background(), cfg)

			Convey("Then every response should agree with the local model", func() {
				So(err, ShouldBeNil)
				So(stats.Mismatches(), ShouldEqual, 0)
				So(stats.DailyFailed, ShouldEqual, 0)
				So(stats.TasksFailed, ShouldEqual, 0)
				So(stats.DailyMatched, ShouldEqual, cfg.NumDaily)
				So(stats.TasksMatched+stats.TasksRejected, ShouldEqual, cfg.NumTasks)
				So(stats.TasksRejected, ShouldBeGreaterThan, 0)
				So(stats.FallbackFlagged, ShouldBeGreaterThan, 0)
			})

			Convey("And the cases should be saved", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				var saved struct {
					Daily []probe.DailyCase `json:"daily"`
					Tasks []probe.TaskCase  `json:"tasks"`
				}
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(saved.Daily, ShouldHaveLength, cfg.NumDaily)
				So(saved.Tasks, ShouldHaveLength, cfg.NumTasks)
			})
		})
	})

	Convey("Given a server that disagrees with the model", t, func() {
		mux := http.NewServeMux()
		inner := newTestServer()
		defer inner.Close()
		mux.HandleFunc("/score/daily", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"daily_score":-1}`))
		})
		mux.Handle("/", proxyTo(inner.URL))
		ts := httptest.NewServer(mux)
		defer ts.Close()

		Convey("When probing it", func() {
			cfg := testConfig(ts.URL)
			cfg.NumTasks = 0
			stats, err := probe.Run(context.Background(), cfg)

			Convey("Then the run should report mismatches", func() {
				So(errors.Is(err, probe.ErrMismatch), ShouldBeTrue)
				So(stats.DailyMismatched, ShouldEqual, cfg.NumDaily)
			})
		})
	})

	Convey("Given an unreachable server", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		Convey("Then the health check should fail", func() {
			_, err := probe.Run(context.Background(), testConfig(ts.URL))
			So(errors.Is(err, probe.ErrUnhealthy), ShouldBeTrue)
		})
	})

	Convey("Given an invalid probe config", t, func() {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Workers = 0

		Convey("Then Run should refuse it", func() {
			_, err := probe.Run(context.Background(), cfg)
			So(errors.Is(err, probe.ErrConfig), ShouldBeTrue)
		})
	})
}

// proxyTo forwards to base so the fake server can reuse the real health
// and calibration routes.
func proxyTo(base string) http.Handler {
	u, err := url.Parse(base)
	if err != nil {
		panic(err)
	}
	return httputil.NewSingleHostReverseProxy(u)
}
