package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the ledger metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	HttpRequestsTotal    *prometheus.CounterVec
	HttpRequestDuration  *prometheus.HistogramVec
	OperationsTotal      *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	StockMovementsTotal  *prometheus.CounterVec
	LowStockEventsTotal  prometheus.Counter
	PaymentsAmountTotal  *prometheus.CounterVec
	ReconcileDriftsGauge *prometheus.GaugeVec
}

// New registers the ledger metrics on reg using prefix as the metric namespace
func New(reg prometheus.Registerer, prefix string) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		// HTTP request metrics
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		// Ledger operation metrics
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of ledger operations by outcome class",
			},
			[]string{"operation", "result"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_operation_duration_seconds",
				Help:    "Duration of ledger transactions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		StockMovementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_movements_total",
				Help: "Total number of committed stock movements",
			},
			[]string{"type"},
		),
		LowStockEventsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_low_stock_events_total",
				Help: "Total number of times a product fell to its low-stock threshold",
			},
		),
		PaymentsAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_payments_amount_total",
				Help: "Sum of collected customer payments",
			},
			[]string{"allocation_type"},
		),
		ReconcileDriftsGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_reconcile_drifts",
				Help: "Number of accounts whose stored aggregates differ from the recomputed ones",
			},
			[]string{"ledger"},
		),
	}
}

// TrackOperation returns a function that records the duration and outcome of a ledger operation
func (r *Recorder) TrackOperation(operation string) func(result string) {
	start := time.Now()
	return func(result string) {
		if r == nil {
			return
		}
		r.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		r.OperationsTotal.WithLabelValues(operation, result).Inc()
	}
}

func (r *Recorder) RecordStockMovement(movementType string) {
	if r == nil {
		return
	}
	r.StockMovementsTotal.WithLabelValues(movementType).Inc()
}

func (r *Recorder) RecordLowStock() {
	if r == nil {
		return
	}
	r.LowStockEventsTotal.Inc()
}

func (r *Recorder) RecordPayment(allocationType string, amount float64) {
	if r == nil {
		return
	}
	r.PaymentsAmountTotal.WithLabelValues(allocationType).Add(amount)
}

func (r *Recorder) SetDrifts(ledger string, count int) {
	if r == nil {
		return
	}
	r.ReconcileDriftsGauge.WithLabelValues(ledger).Set(float64(count))
}

func (r *Recorder) RecordRequest(method, path, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
