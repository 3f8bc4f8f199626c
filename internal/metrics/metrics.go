package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const requestsTotalName = "textgen_requests_total"

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: requestsTotalName,
				Help: "Total number of text API round trips by outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textgen_request_duration_seconds",
				Help:    "Text API round trip duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "textgen_requests_in_flight",
				Help: "Number of text API round trips currently in progress",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) RecordRequest(operation, outcome string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) IncRequestsInFlight(operation string) {
	m.RequestsInFlight.WithLabelValues(operation).Inc()
}

func (m *Metrics) DecRequestsInFlight(operation string) {
	m.RequestsInFlight.WithLabelValues(operation).Dec()
}

// Totals gathers g and returns the request counters keyed "operation/outcome".
func Totals(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	totals := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != requestsTotalName {
			continue
		}
		for _, m := range mf.GetMetric() {
			totals[labelValue(m, "operation")+"/"+labelValue(m, "outcome")] = m.GetCounter().GetValue()
		}
	}
	return totals, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
