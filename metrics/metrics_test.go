package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.VehiclesInService.Set(3)
	c.Departures.Inc()
	c.MatchesAccepted.Add(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.VehiclesInService))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Departures))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.MatchesAccepted))
	assert.Zero(t, testutil.ToFloat64(c.MatchesRejected))
}

func TestHandlerServesRegistry(t *testing.T) {
	c := New()
	c.Boardings.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "mnms_boardings_total 1")
}
