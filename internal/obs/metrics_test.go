package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Start(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	done := m.Start("GET", "/projects/{id}")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inFlight))
	done(200)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))

	m.Start("GET", "/projects/{id}")(404)
	m.Start("POST", "/project-groups")(0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/projects/{id}", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/projects/{id}", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("POST", "/project-groups", StatusTransportError)))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Start("GET", "/locales")(200) })
}
