package demand

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/entity/traveler"
)

// CSVManager streams departures from a semicolon-separated file with
// columns `ID;DEPARTURE;ORIGIN;DESTINATION` (header optional),
// departure as HH:MM:SS. Rows must be pre-sorted by departure time.
type CSVManager struct {
	f *os.File
	r *csv.Reader

	lookahead     *traveler.Traveler
	lastDeparture float64
	done          bool
}

// NewCSVManager opens the demand file.
func NewCSVManager(path string) (*CSVManager, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open demand file: %w", err)
	}
	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = 4
	return &CSVManager{f: f, r: r}, nil
}

func (m *CSVManager) NextDepartures(tStart, tEnd float64) []*traveler.Traveler {
	var out []*traveler.Traveler
	for {
		if m.lookahead == nil {
			tr, ok := m.read()
			if !ok {
				break
			}
			m.lookahead = tr
		}
		if m.lookahead.DepartureTime >= tEnd {
			break
		}
		tr := m.lookahead
		m.lookahead = nil
		if tr.DepartureTime < tStart {
			log.Warnf("traveler %s departure %v before window start %v, skipped", tr.ID, tr.DepartureTime, tStart)
			continue
		}
		out = append(out, tr)
	}
	return out
}

func (m *CSVManager) read() (*traveler.Traveler, bool) {
	for {
		if m.done {
			return nil, false
		}
		rec, err := m.r.Read()
		if errors.Is(err, io.EOF) {
			m.done = true
			return nil, false
		}
		if err != nil {
			log.Panicf("malformed demand row: %v", err)
		}
		if strings.EqualFold(rec[0], "ID") {
			continue // header
		}
		dep, err := clock.Parse(rec[1])
		if err != nil {
			log.Panicf("traveler %s: %v", rec[0], err)
		}
		if dep < m.lastDeparture {
			log.Panicf("demand file not sorted: traveler %s departs at %v after %v", rec[0], dep, m.lastDeparture)
		}
		m.lastDeparture = dep
		return traveler.New(rec[0], rec[2], rec[3], dep), true
	}
}

// Close releases the underlying file.
func (m *CSVManager) Close() error {
	return m.f.Close()
}
