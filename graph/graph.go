// Package graph exposes the transport network to the simulation core.
// The core only stores node ids and link references; network
// construction and persistence live outside the engine.
package graph

import "fmt"

// Link is a directed edge with a length and per-mobility-service
// traversal speeds.
type Link struct {
	From   string
	To     string
	Length float64

	speeds       map[string]float64 // service id -> speed (m/s)
	defaultSpeed float64
}

func (l *Link) String() string {
	return fmt.Sprintf("Link(%s->%s)", l.From, l.To)
}

// Speed returns the traversal speed of the given mobility service on
// this link, falling back to the link default.
func (l *Link) Speed(serviceID string) float64 {
	if s, ok := l.speeds[serviceID]; ok {
		return s
	}
	return l.defaultSpeed
}

// SetSpeed overrides the traversal speed for one mobility service.
func (l *Link) SetSpeed(serviceID string, speed float64) {
	l.speeds[serviceID] = speed
}

// Provider is the read-only view of the network the engine depends on.
type Provider interface {
	// Link returns the directed link between two adjacent nodes, or nil.
	Link(from, to string) *Link
	// Adj returns the outgoing links of a node.
	Adj(node string) []*Link
	// Radj returns the links terminating at a node. An empty result
	// means no vehicle can have passed the node yet.
	Radj(node string) []*Link
}

// Graph is an in-memory Provider.
type Graph struct {
	adj  map[string][]*Link
	radj map[string][]*Link
	byID map[string]map[string]*Link
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adj:  make(map[string][]*Link),
		radj: make(map[string][]*Link),
		byID: make(map[string]map[string]*Link),
	}
}

// AddLink inserts a directed link. The default speed applies to every
// service without an explicit per-service speed.
func (g *Graph) AddLink(from, to string, length, defaultSpeed float64) *Link {
	l := &Link{
		From:         from,
		To:           to,
		Length:       length,
		speeds:       make(map[string]float64),
		defaultSpeed: defaultSpeed,
	}
	g.adj[from] = append(g.adj[from], l)
	g.radj[to] = append(g.radj[to], l)
	if g.byID[from] == nil {
		g.byID[from] = make(map[string]*Link)
	}
	g.byID[from][to] = l
	return l
}

func (g *Graph) Link(from, to string) *Link {
	return g.byID[from][to]
}

func (g *Graph) Adj(node string) []*Link {
	return g.adj[node]
}

func (g *Graph) Radj(node string) []*Link {
	return g.radj[node]
}
