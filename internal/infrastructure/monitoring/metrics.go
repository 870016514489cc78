package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type LedgerMetrics struct {
	MutationsTotal *prometheus.CounterVec
	DepositDeficit prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sahakari_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Ledger = LedgerMetrics{
		MutationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sahakari_ledger_mutations_total",
				Help: "Total ledger mutations by entity, operation and outcome.",
			},
			[]string{"entity", "op", "outcome"},
		),
		DepositDeficit: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sahakari_deposit_deficit",
				Help: "Current-month deposit deficit computed by the reconciliation job.",
			},
		),
	}
)

// ObserveMutation records the outcome of a ledger mutation.
func ObserveMutation(entity, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Ledger.MutationsTotal.WithLabelValues(entity, op, outcome).Inc()
}
