// Package publisher streams per-tick vehicle state over NATS so
// external consumers can follow the simulation without touching it.
package publisher

import (
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/assuntaDC/mnms-go/entity/vehicle"
)

// Event is the JSON payload published on every vehicle notification.
type Event struct {
	T               float64 `json:"t"`
	Service         string  `json:"service"`
	Vehicle         string  `json:"vehicle"`
	Node            string  `json:"node"`
	Link            string  `json:"link,omitempty"`
	RemainingLength float64 `json:"remaining_length"`
	Onboard         int     `json:"onboard"`
	Capacity        int     `json:"capacity"`
	Activity        string  `json:"activity"`
}

// NATSPublisher publishes vehicle events on subject
// `<service>.<vehicle>`, tokens sanitized.
type NATSPublisher struct {
	conn *nats.Conn
}

var _ vehicle.Observer = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the given NATS server.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("mnms-sim"))
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

// NotifyVehicle publishes the vehicle state at time t. Publish errors
// are logged, never propagated into the simulation step.
func (p *NATSPublisher) NotifyVehicle(t float64, v *vehicle.Vehicle) {
	ev := Event{
		T:               t,
		Service:         v.ServiceID(),
		Vehicle:         v.ID(),
		Node:            v.CurrentNode(),
		RemainingLength: v.RemainingLinkLength(),
		Onboard:         len(v.Passengers()),
		Capacity:        v.Capacity(),
		Activity:        v.CurrentActivityType().String(),
	}
	if link := v.CurrentLink(); link != nil {
		ev.Link = link.String()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("marshal vehicle event: %v", err)
		return
	}
	subject := sanitizeToken(v.ServiceID()) + "." + sanitizeToken(v.ID())
	if err := p.conn.Publish(subject, data); err != nil {
		log.Errorf("publish %s: %v", subject, err)
	}
}

// Close drains the connection, flushing pending events.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Errorf("drain nats connection: %v", err)
	}
}

// sanitizeToken makes a string a valid NATS subject token: no dots,
// spaces or wildcards.
func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
