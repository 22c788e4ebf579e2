package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithEnabled(true),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty namespace and subsystem", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "lineup")
				So(manager.subsystem, ShouldEqual, "engine")
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ingestion metrics", func() {
			So(func() {
				RecordParticipationIngested()
				RecordParticipationIngested()
				RecordParticipationDuplicate()
				UpdateLedgerFacts(42)
			}, ShouldNotPanic)
		})

		Convey("When recording engine metrics", func() {
			So(func() {
				RecordValidation()
				RecordViolation("burn")
				RecordViolation("quota_foreign")
				RecordSuggestion()
				RecordConflicts(2)
				RecordConflicts(0)
			}, ShouldNotPanic)
		})

		Convey("When recording roster and queue metrics", func() {
			So(func() {
				UpdateRosterSize(12)
				UpdateQueueSize(100)
				UpdateQueueCapacity(10000)
				UpdateQueueUtilization(0.01)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
			}, ShouldNotPanic)
		})

		Convey("When recording worker metrics", func() {
			So(func() {
				UpdateWorkerCount(4)
				RecordWorkerError()
				RecordWorkerProcessingLatency(1.5)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("validate", "POST", "200")
				RecordHTTPRequest("participations", "POST", "202")
				RecordHTTPRequestDuration("validate", "POST", "200", 5.0)
			}, ShouldNotPanic)
		})

		Convey("When recording with edge values", func() {
			So(func() {
				UpdateRosterSize(0)
				UpdateLedgerFacts(0)
				RecordWorkerProcessingLatency(0.0)
				RecordHTTPRequest("", "", "")
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordParticipationIngested()
						UpdateQueueSize(j)
						RecordViolation("ranking_order")
						RecordHTTPRequest("validate", "POST", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the serving registry", t, func() {
		Convey("When gathering after recording", func() {
			RecordValidation()
			families, err := GetRegistry().Gather()

			Convey("Then the engine metrics are exported", func() {
				So(err, ShouldBeNil)
				names := make(map[string]struct{}, len(families))
				for _, f := range families {
					names[f.GetName()] = struct{}{}
				}
				So(names, ShouldContainKey, "lineup_engine_validations_total")
				So(names, ShouldContainKey, "lineup_engine_ledger_facts")
			})
		})
	})
}
