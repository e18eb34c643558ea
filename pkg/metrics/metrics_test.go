package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOptions(t *testing.T) {
	Convey("Given metrics manager options", t, func() {
		Convey("When creating options", func() {
			Convey("Then all option constructors should return valid options", func() {
				So(WithNamespace("custom"), ShouldNotBeNil)
				So(WithSubsystem("custom"), ShouldNotBeNil)
				So(WithHistogramBuckets([]float64{0.1, 1, 10}), ShouldNotBeNil)
				So(WithPrometheusRegistry(prometheus.NewRegistry()), ShouldNotBeNil)
			})
		})
	})
}

func TestNewManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When created with a dedicated registry", func() {
			m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should carry the default identity", func() {
				So(m, ShouldNotBeNil)
				So(m.namespace, ShouldEqual, "yomu")
				So(m.subsystem, ShouldEqual, "gamification")
			})

			Convey("Then all metric collectors should be initialized", func() {
				So(m.progressRecorded, ShouldNotBeNil)
				So(m.progressRejected, ShouldNotBeNil)
				So(m.xpAwarded, ShouldNotBeNil)
				So(m.goalCompletions, ShouldNotBeNil)
				So(m.levelUps, ShouldNotBeNil)
				So(m.recomputeRuns, ShouldNotBeNil)
				So(m.recomputeDuration, ShouldNotBeNil)
				So(m.snapshotReplaced, ShouldNotBeNil)
				So(m.queueSize, ShouldNotBeNil)
				So(m.workerCount, ShouldNotBeNil)
				So(m.httpRequests, ShouldNotBeNil)
				So(m.httpRequestDuration, ShouldNotBeNil)
				So(m.totalUsers, ShouldNotBeNil)
			})
		})

		Convey("When created with custom options", func() {
			m := NewManager(
				WithNamespace("reader"),
				WithSubsystem("ranking"),
				WithHistogramBuckets([]float64{1, 5, 25}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options should be applied", func() {
				So(m.namespace, ShouldEqual, "reader")
				So(m.subsystem, ShouldEqual, "ranking")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 5, 25})
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording write-path metrics", func() {
			So(func() {
				RecordProgressRecorded()
				RecordProgressRejected("invalid_quantity")
				AddXPAwarded(50)
				RecordGoalCompletion()
				RecordLevelUp()
			}, ShouldNotPanic)
		})

		Convey("When recording recompute metrics", func() {
			So(func() {
				RecordRecomputeRun("GENERAL")
				RecordRecomputeThrottled("FRIENDS")
				RecordRecomputeCoalesced()
				RecordRecomputeError("GENERAL")
				RecordRecomputeDuration(12.5)
				RecordSnapshotReplaced()
				RecordSnapshotStaleBasis()
			}, ShouldNotPanic)
		})

		Convey("When recording queue and worker metrics", func() {
			So(func() {
				UpdateQueueSize(3)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.03)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(7.2)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/progress", "POST", "201")
				RecordHTTPRequestDuration("/progress", "POST", "201", 0.004)
				UpdateTotalUsers(10)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("When fetching the registry", func() {
			Convey("Then it should expose the custom registry", func() {
				So(GetRegistry(), ShouldNotBeNil)
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}
