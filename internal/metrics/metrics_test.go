package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackOperationCountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg, "ledger")

	rec.TrackOperation("create_order")("ok")
	rec.TrackOperation("create_order")("insufficient_stock")
	rec.TrackOperation("create_order")("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.OperationsTotal.WithLabelValues("create_order", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.OperationsTotal.WithLabelValues("create_order", "insufficient_stock")))

	count, err := testutil.GatherAndCount(reg, "ledger_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStockAndPaymentCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg, "pos")

	rec.RecordStockMovement("OUT")
	rec.RecordStockMovement("OUT")
	rec.RecordStockMovement("IN")
	rec.RecordLowStock()
	rec.RecordPayment("customer_total", 25.5)
	rec.SetDrifts("customers", 3)
	rec.RecordRequest("POST", "/api/v1/orders", "201", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.StockMovementsTotal.WithLabelValues("OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.StockMovementsTotal.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.LowStockEventsTotal))
	assert.Equal(t, 25.5, testutil.ToFloat64(rec.PaymentsAmountTotal.WithLabelValues("customer_total")))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.ReconcileDriftsGauge.WithLabelValues("customers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.HttpRequestsTotal.WithLabelValues("POST", "/api/v1/orders", "201")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder

	assert.NotPanics(t, func() {
		rec.TrackOperation("delete_order")("ok")
		rec.RecordStockMovement("IN")
		rec.RecordLowStock()
		rec.RecordPayment("specific_invoice", 1)
		rec.SetDrifts("suppliers", 0)
		rec.RecordRequest("GET", "/", "200", time.Millisecond)
	})
}
