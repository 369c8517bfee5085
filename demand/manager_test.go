package demand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assuntaDC/mnms-go/entity/traveler"
)

func TestBaseManagerWindows(t *testing.T) {
	m := NewBaseManager([]*traveler.Traveler{
		traveler.New("u2", "B", "C", 200),
		traveler.New("u1", "A", "B", 100),
		traveler.New("u3", "C", "D", 300),
	})

	out := m.NextDepartures(0, 250)
	require.Len(t, out, 2)
	assert.Equal(t, "u1", out[0].ID)
	assert.Equal(t, "u2", out[1].ID)

	out = m.NextDepartures(250, 500)
	require.Len(t, out, 1)
	assert.Equal(t, "u3", out[0].ID)
	assert.Zero(t, m.Len())
	assert.Empty(t, m.NextDepartures(500, 1000))
}

func writeDemandFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demand.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVManagerStreamsSortedDepartures(t *testing.T) {
	path := writeDemandFile(t,
		"ID;DEPARTURE;ORIGIN;DESTINATION\n"+
			"u1;07:00:00;A;C\n"+
			"u2;07:00:30;B;D\n"+
			"u3;07:02:00;A;D\n")
	m, err := NewCSVManager(path)
	require.NoError(t, err)
	defer m.Close()

	out := m.NextDepartures(25200, 25260)
	require.Len(t, out, 2)
	assert.Equal(t, "u1", out[0].ID)
	assert.Equal(t, 25200.0, out[0].DepartureTime)
	assert.Equal(t, "A", out[0].Origin)
	assert.Equal(t, "C", out[0].Destination)
	assert.Equal(t, "u2", out[1].ID)

	// The lookahead row is served by the next window, not lost.
	out = m.NextDepartures(25260, 25400)
	require.Len(t, out, 1)
	assert.Equal(t, "u3", out[0].ID)
	assert.Empty(t, m.NextDepartures(25400, 26000))
}

func TestCSVManagerRejectsUnsortedFile(t *testing.T) {
	path := writeDemandFile(t,
		"u1;08:00:00;A;C\n"+
			"u2;07:00:00;B;D\n")
	m, err := NewCSVManager(path)
	require.NoError(t, err)
	defer m.Close()

	m.NextDepartures(25200, 28800)
	assert.Panics(t, func() { m.NextDepartures(28800, 30000) })
}
