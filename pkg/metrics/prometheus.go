package metrics

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/overlap/pkg/domain/interfaces"
)

const defaultNamespace = "overlap"

// Prometheus exports analysis measurements as Prometheus collectors
type Prometheus struct {
	recordsParsed  prometheus.Counter
	recordsDropped prometheus.Counter
	parseFailures  *prometheus.CounterVec
	analyses       *prometheus.CounterVec
	duration       prometheus.Histogram
	bestTotalDays  prometheus.Gauge
}

var _ interfaces.Metrics = (*Prometheus)(nil)

// NewPrometheus registers collectors on reg, or on the default registerer
// when reg is nil. An empty namespace falls back to "overlap".
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}

	p := &Prometheus{
		recordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "records_total",
			Help:      "Assignment records accepted by the parser.",
		}),
		recordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "dropped_records_total",
			Help:      "Assignment rows skipped because DateTo precedes DateFrom.",
		}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "failures_total",
			Help:      "Inputs rejected by the parser, by error kind.",
		}, []string{"kind"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analyses_total",
			Help:      "Completed analyses by whether an overlapping pair was found.",
		}, []string{"found"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent computing the best pair.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		bestTotalDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "last_best_total_days",
			Help:      "Total overlapping days of the most recently reported pair.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.recordsParsed, p.recordsDropped, p.parseFailures, p.analyses, p.duration, p.bestTotalDays,
	} {
		if err := reg.Register(c); err != nil {
			return nil, goerr.Wrap(err, "failed to register metrics collector")
		}
	}

	return p, nil
}

// RecordParse counts accepted and dropped records
func (p *Prometheus) RecordParse(records, dropped int) {
	p.recordsParsed.Add(float64(records))
	p.recordsDropped.Add(float64(dropped))
}

// RecordParseFailure counts a rejected input
func (p *Prometheus) RecordParseFailure(kind string) {
	if kind == "" {
		kind = "other"
	}
	p.parseFailures.WithLabelValues(kind).Inc()
}

// RecordAnalysis observes a completed analysis
func (p *Prometheus) RecordAnalysis(duration time.Duration, totalDays int, found bool) {
	label := "false"
	if found {
		label = "true"
	}
	p.analyses.WithLabelValues(label).Inc()
	p.duration.Observe(duration.Seconds())
	p.bestTotalDays.Set(float64(totalDays))
}
