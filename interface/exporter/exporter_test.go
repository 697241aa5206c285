package exporter

import (
	"math/big"
	"testing"
	"time"

	"feedriver/domain"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// The metrics live in package state, so these tests do not run in parallel.

func TestObserver_ObserveRun(t *testing.T) {
	Init(prometheus.NewRegistry())
	observer := Observer{}
	finish := time.Unix(1_700_000_000, 0)

	completed := domain.NewRunReport(finish.Add(-time.Minute))
	completed.Forwarded = big.NewInt(49_995_000)
	completed.Distributed = big.NewInt(999_109_120)
	completed.HolderCount = 20
	completed.Finish(domain.StageDone, domain.Proceed(), finish)
	observer.ObserveRun(completed)

	require.Equal(t, float64(1), testutil.ToFloat64(GetCounterVec(METRIC_RUN_COUNT).WithLabelValues("proceed")))
	require.Equal(t, float64(49_995_000), testutil.ToFloat64(GetGauge(METRIC_LAST_FORWARDED)))
	require.Equal(t, float64(999_109_120), testutil.ToFloat64(GetGauge(METRIC_LAST_DISTRIBUTED)))
	require.Equal(t, float64(20), testutil.ToFloat64(GetGauge(METRIC_LAST_HOLDER_COUNT)))
	require.Equal(t, float64(finish.Unix()), testutil.ToFloat64(GetGauge(METRIC_LAST_RUN_TIME)))

	skipped := domain.NewRunReport(finish)
	skipped.Finish(domain.StageReadFees, domain.Skip(domain.SkipNoPendingFees), finish.Add(time.Second))
	observer.ObserveRun(skipped)

	require.Equal(t, float64(1), testutil.ToFloat64(GetCounterVec(METRIC_RUN_COUNT).WithLabelValues("skip")))
	require.Equal(t, float64(1), testutil.ToFloat64(GetCounterVec(METRIC_SKIP_COUNT).WithLabelValues("read_fees", "no_pending_rewards")))
	require.Equal(t, float64(20), testutil.ToFloat64(GetGauge(METRIC_LAST_HOLDER_COUNT)), "a fee skip keeps the last holder count")
	require.Equal(t, float64(49_995_000), testutil.ToFloat64(GetGauge(METRIC_LAST_FORWARDED)))

	failed := domain.NewRunReport(finish)
	failed.Finish(domain.StageClaim, domain.Fatal(errors.New("rpc down")), finish.Add(time.Second))
	observer.ObserveRun(failed)

	require.Equal(t, float64(1), testutil.ToFloat64(GetCounter(METRIC_ERROR_COUNT)))
	require.Equal(t, float64(1), testutil.ToFloat64(GetCounterVec(METRIC_RUN_COUNT).WithLabelValues("fatal")))
}

func TestObserver_ObserveStage(t *testing.T) {
	registry := prometheus.NewRegistry()
	Init(registry)

	Observer{}.ObserveStage(domain.StageClaim, 1500*time.Millisecond)
	Observer{}.ObserveStage(domain.StageClaim, 500*time.Millisecond)
	Observer{}.ObserveStage(domain.StageForward, time.Second)

	require.Equal(t, 2, testutil.CollectAndCount(stageTimer))

	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "feedriver_pipeline_stage_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			if metric.GetLabel()[0].GetValue() == "claim" {
				require.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
				require.InDelta(t, 2.0, metric.GetHistogram().GetSampleSum(), 1e-9)
			}
		}
	}
}
