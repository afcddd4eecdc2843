package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSlotReservationCounters(t *testing.T) {
	m := NewWithRegisterer("lab-booking", prometheus.NewRegistry())

	m.IncSlotReservation(ReservationReserved)
	m.IncSlotReservation(ReservationReserved)
	m.IncSlotReservation(ReservationCapacityExceeded)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues(ReservationReserved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservations.WithLabelValues(ReservationCapacityExceeded)))
}

func TestRecordSlotGeneration(t *testing.T) {
	m := NewWithRegisterer("lab-booking", prometheus.NewRegistry())

	m.RecordSlotGeneration("cron", 14, 0, 0)
	m.RecordSlotGeneration("manual", 0, 12, 2)
	m.RecordSlotGenerationError("cron")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRuns.WithLabelValues("cron", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRuns.WithLabelValues("manual", "partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRuns.WithLabelValues("cron", "error")))
	assert.Equal(t, 14.0, testutil.ToFloat64(m.generatedSlots.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.generatedSlots.WithLabelValues("failed")))
}

func TestHTTPAndDBMetrics(t *testing.T) {
	m := NewWithRegisterer("lab-booking", prometheus.NewRegistry())

	m.RecordHTTPRequest("GET", "/api/TestServiceSlot/{slotId}", 200, 10*time.Millisecond)
	m.ObserveDBQuery("update", time.Millisecond, errors.New("boom"))
	m.SetDBConnections(5, 2, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/TestServiceSlot/{slotId}", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("in_use")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSlotReservation(ReservationReserved)
		m.RecordSlotGeneration("cron", 1, 0, 0)
		m.RecordSlotGenerationError("manual")
		m.RecordHTTPRequest("GET", "/", 200, time.Second)
		m.ObserveDBQuery("select", time.Second, nil)
		m.SetDBConnections(1, 1, 0)
	})
}
