package metrics_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/secmon-lab/overlap/pkg/metrics"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg, "")
	gt.NoError(t, err).Required()

	m.RecordParse(10, 2)
	m.RecordParse(5, 0)
	m.RecordParseFailure("malformed_row")
	m.RecordParseFailure("")
	m.RecordAnalysis(3*time.Millisecond, 42, true)
	m.RecordAnalysis(time.Millisecond, 0, false)

	families, err := reg.Gather()
	gt.NoError(t, err).Required()

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[f.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[f.GetName()] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				values[f.GetName()] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	gt.Equal(t, values["overlap_parser_records_total"], 15.0)
	gt.Equal(t, values["overlap_parser_dropped_records_total"], 2.0)
	gt.Equal(t, values["overlap_parser_failures_total"], 2.0)
	gt.Equal(t, values["overlap_engine_analyses_total"], 2.0)
	gt.Equal(t, values["overlap_engine_analysis_duration_seconds"], 2.0)
	gt.Equal(t, values["overlap_engine_last_best_total_days"], 0.0)
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewPrometheus(reg, "dup")
	gt.NoError(t, err).Required()

	_, err = metrics.NewPrometheus(reg, "dup")
	gt.Error(t, err)
}

func TestPrometheusFailureLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg, "labels")
	gt.NoError(t, err).Required()

	m.RecordParseFailure("unrecognized_date")
	m.RecordParseFailure("unrecognized_date")
	m.RecordParseFailure("")

	count, err := testutil.GatherAndCount(reg, "labels_parser_failures_total")
	gt.NoError(t, err).Required()
	gt.Equal(t, count, 2)
}

func TestNop(t *testing.T) {
	m := metrics.NewNop()
	m.RecordParse(1, 1)
	m.RecordParseFailure("x")
	m.RecordAnalysis(time.Second, 1, true)
}
