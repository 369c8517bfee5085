package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assuntaDC/mnms-go/utils/config"
)

const networkYAML = `links:
  - from: A
    to: B
    length: 100
    speed: 10
    speeds:
      BUS: 8
  - from: B
    to: C
    length: 150
    speed: 10
lines:
  - id: L1
    service: BUS
    capacity: 20
    stops: [A, B, C]
    timetable: ["08:00:00", "08:10:00"]
paths:
  - origin: A
    destination: C
    service: BUS
    cost: 30
    nodes: [A, B, C]
`

func writeNetworkFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNetwork(t *testing.T) {
	net, err := LoadNetwork(writeNetworkFile(t, networkYAML))
	require.NoError(t, err)

	link := net.Graph.Link("A", "B")
	require.NotNil(t, link)
	assert.Equal(t, 100.0, link.Length)
	assert.Equal(t, 8.0, link.Speed("BUS"))
	assert.Equal(t, 10.0, link.Speed("TRAM"))

	require.Len(t, net.Lines, 1)
	assert.Equal(t, "BUS", net.Lines[0].Service)
	assert.Equal(t, "C", net.Lines[0].Line.Terminus())
	assert.Equal(t, []float64{28800, 29400}, net.Lines[0].Line.Timetable)

	paths := net.Planner.CandidatePaths("u1", "A", "C", 0)
	require.Len(t, paths, 1)
	assert.Equal(t, "BUS", paths[0].Service)
}

func TestLoadNetworkRejectsUnknownKeys(t *testing.T) {
	_, err := LoadNetwork(writeNetworkFile(t, "links: []\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestLoadNetworkRejectsBadTimetable(t *testing.T) {
	bad := `links:
  - {from: A, to: B, length: 100, speed: 10}
lines:
  - id: L1
    service: BUS
    capacity: 20
    stops: [A, B]
    timetable: ["not-a-time"]
`
	_, err := LoadNetwork(writeNetworkFile(t, bad))
	assert.Error(t, err)
}

func TestNewDemandRequiresSource(t *testing.T) {
	_, err := NewDemand(context.Background(), config.DemandInput{})
	assert.Error(t, err)
}
