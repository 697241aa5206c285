package exporter

import (
	"math/big"
	"time"

	"feedriver/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "feedriver"
	subsystem = "pipeline"

	METRIC_RUN_COUNT         = "run_count"
	METRIC_SKIP_COUNT        = "skip_count"
	METRIC_ERROR_COUNT       = "error_count"
	METRIC_STAGE_SECONDS     = "stage_duration_seconds"
	METRIC_LAST_FORWARDED    = "last_forwarded_lamports"
	METRIC_LAST_DISTRIBUTED  = "last_distributed_lamports"
	METRIC_LAST_HOLDER_COUNT = "last_holder_count"
	METRIC_LAST_RUN_TIME     = "last_run_timestamp_seconds"
)

var (
	counterVecs map[string]*prometheus.CounterVec
	counters    map[string]prometheus.Counter
	gauges      map[string]prometheus.Gauge
	stageTimer  *prometheus.HistogramVec
)

// Init registers the pipeline metrics on the given registerer, usually
// prometheus.DefaultRegisterer.
func Init(registerer prometheus.Registerer) {

	counterVecs = make(map[string]*prometheus.CounterVec)
	counters = make(map[string]prometheus.Counter)
	gauges = make(map[string]prometheus.Gauge)

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      METRIC_RUN_COUNT,
		Help:      "Counts finished runs by outcome",
	}, []string{"outcome"})
	skips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      METRIC_SKIP_COUNT,
		Help:      "Counts skipped runs by stage and reason",
	}, []string{"stage", "reason"})
	errorCount := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      METRIC_ERROR_COUNT,
		Help:      "Counts runs that ended with a fatal error",
	})
	stageTimer = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      METRIC_STAGE_SECONDS,
		Help:      "Time spent in each pipeline stage, including confirmation waits",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	registerer.MustRegister(runs, skips, errorCount, stageTimer)
	counterVecs[METRIC_RUN_COUNT] = runs
	counterVecs[METRIC_SKIP_COUNT] = skips
	counters[METRIC_ERROR_COUNT] = errorCount

	for name, help := range map[string]string{
		METRIC_LAST_FORWARDED:    "Lamports forwarded to the vault by the last run that forwarded",
		METRIC_LAST_DISTRIBUTED:  "Lamports paid out by the last run that distributed",
		METRIC_LAST_HOLDER_COUNT: "Eligible holders found by the last run that aggregated them",
		METRIC_LAST_RUN_TIME:     "Unix time the last run finished",
	} {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
		registerer.MustRegister(gauge)
		gauges[name] = gauge
	}
}

func GetCounter(name string) prometheus.Counter {
	return counters[name]
}

func GetCounterVec(name string) *prometheus.CounterVec {
	return counterVecs[name]
}

func GetGauge(name string) prometheus.Gauge {
	return gauges[name]
}

func IncErrorCount() {
	counters[METRIC_ERROR_COUNT].Inc()
}

func lamportsValue(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}

// Observer feeds pipeline runs into the registered metrics.
type Observer struct{}

func (Observer) ObserveStage(stage domain.Stage, elapsed time.Duration) {
	stageTimer.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

func (Observer) ObserveRun(report *domain.RunReport) {
	counterVecs[METRIC_RUN_COUNT].WithLabelValues(string(report.Outcome)).Inc()

	if report.Outcome == domain.OutcomeSkip {
		counterVecs[METRIC_SKIP_COUNT].WithLabelValues(string(report.Stage), string(report.SkipReason)).Inc()
	}
	if report.IsFatal() {
		IncErrorCount()
	}

	if report.Forwarded != nil {
		gauges[METRIC_LAST_FORWARDED].Set(lamportsValue(report.Forwarded))
	}
	if report.Distributed != nil {
		gauges[METRIC_LAST_DISTRIBUTED].Set(lamportsValue(report.Distributed))
	}
	aggregated := report.Stage == domain.StageDistribute || report.Stage == domain.StageDone ||
		(report.Stage == domain.StageAggregateHolders && report.Outcome == domain.OutcomeSkip)
	if aggregated {
		gauges[METRIC_LAST_HOLDER_COUNT].Set(float64(report.HolderCount))
	}
	gauges[METRIC_LAST_RUN_TIME].Set(float64(report.FinishTime.Unix()))
}
