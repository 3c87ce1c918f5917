package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/pkg/metrics"
)

func TestHTTPMetrics_CuentaPorRutaYEstado(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	m.Observe("GET", "/api/customers", 200, 10*time.Millisecond)
	m.Observe("GET", "/api/customers", 200, 5*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n, "dos series: ruta conocida y unknown")
}

func TestCheckoutMetrics_Resultados(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCheckoutMetrics(reg)

	m.IncOutcome(metrics.CheckoutCompleted)
	m.IncOutcome(metrics.CheckoutCompensated)
	m.IncCompensation()
	m.IncCompensation()

	n, err := testutil.GatherAndCount(reg, "checkout_outcomes_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = testutil.GatherAndCount(reg, "checkout_compensations_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCronJobMetrics_ExitoYFallo(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCronJobMetrics(reg)

	m.Observe("overdue-invoices", 20*time.Millisecond, nil)
	m.Observe("overdue-invoices", 20*time.Millisecond, errors.New("boom"))

	n, err := testutil.GatherAndCount(reg, "job_success", "job_failure")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_RegistererNilNoFalla(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
		metrics.NewCheckoutMetrics(nil).IncOutcome(metrics.CheckoutCompleted)
		metrics.NewCheckoutMetrics(nil).IncCompensation()
		metrics.NewCronJobMetrics(nil).Observe("x", time.Second, nil)
		var m *metrics.HTTPMetrics
		m.Observe("GET", "/", 200, time.Millisecond)
	})
}
