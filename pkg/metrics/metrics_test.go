package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry and custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics should be registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.recordsLoaded.Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "test_unit_records_loaded_total")
			})
		})

		Convey("When creating two managers on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			before := testutil.ToFloat64(globalManager.recordsLoaded)
			RecordRecordLoaded()
			RecordRecordLoaded()

			skippedBefore := testutil.ToFloat64(globalManager.recordsSkipped.WithLabelValues(SkipFetch))
			RecordRecordSkipped(SkipFetch)

			Convey("Then counters should advance", func() {
				So(testutil.ToFloat64(globalManager.recordsLoaded), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.recordsSkipped.WithLabelValues(SkipFetch)), ShouldEqual, skippedBefore+1)
			})
		})

		Convey("When recording a successful reload", func() {
			RecordReload(OutcomeOK, 30*time.Millisecond)

			Convey("Then the last reload timestamp should be set", func() {
				So(testutil.ToFloat64(globalManager.lastReloadUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When updating snapshot gauges", func() {
			UpdateSnapshotSize(12, 4)

			Convey("Then the gauges should hold the values", func() {
				So(testutil.ToFloat64(globalManager.players), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.practices), ShouldEqual, 4)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordHTTPRequest("leaderboard", "GET", "200", 5*time.Millisecond)
					RecordErrorByEndpoint("players", "GET", "not_found")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the exported registry should be the custom one", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
