package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.SetDBPoolStats(1, 1, 0, 0, 0)
		m.ObserveAdmission("pending")
		m.ObserveLotteryRun("scheduled", "ok")
		m.ObserveLotteryAllocations(1, 2)
		m.ObserveNotification("webhook", nil)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.ObserveAdmission("confirmed")
	m.ObserveAdmission("confirmed")
	m.ObserveAdmission("pending")
	m.ObserveLotteryAllocations(3, 2)
	m.ObserveNotification("telegram", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.admissionsTotal.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.admissionsTotal.WithLabelValues("pending")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.lotteryAllocations.WithLabelValues("confirmed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lotteryAllocations.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("telegram", "error")))
}
