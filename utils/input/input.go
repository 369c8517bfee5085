// Package input loads the immutable simulation inputs: the network
// with its lines and candidate paths from YAML, and the demand from a
// CSV file or MongoDB.
package input

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/decision"
	"github.com/assuntaDC/mnms-go/demand"
	"github.com/assuntaDC/mnms-go/graph"
	"github.com/assuntaDC/mnms-go/mobility"
	"github.com/assuntaDC/mnms-go/utils/config"
)

type linkSpec struct {
	From   string             `yaml:"from"`
	To     string             `yaml:"to"`
	Length float64            `yaml:"length"`
	Speed  float64            `yaml:"speed"`
	Speeds map[string]float64 `yaml:"speeds,omitempty"` // per-service overrides
}

type lineSpec struct {
	ID        string   `yaml:"id"`
	Service   string   `yaml:"service"`
	Capacity  int      `yaml:"capacity"`
	Stops     []string `yaml:"stops"`
	Timetable []string `yaml:"timetable"` // HH:MM:SS departure times
}

type pathSpec struct {
	Origin      string   `yaml:"origin"`
	Destination string   `yaml:"destination"`
	Service     string   `yaml:"service"`
	Cost        float64  `yaml:"cost"`
	Nodes       []string `yaml:"nodes"`
}

type networkSpec struct {
	Links []linkSpec `yaml:"links"`
	Lines []lineSpec `yaml:"lines,omitempty"`
	Paths []pathSpec `yaml:"paths,omitempty"`
}

// LineDef is a loaded line and the id of the service running it.
type LineDef struct {
	Service string
	Line    *mobility.Line
}

// Network is everything the network file describes.
type Network struct {
	Graph   *graph.Graph
	Lines   []LineDef
	Planner *decision.TablePlanner
}

// LoadNetwork reads the network description file.
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network file: %w", err)
	}
	var spec networkSpec
	if err := yaml.UnmarshalStrict(data, &spec); err != nil {
		return nil, fmt.Errorf("parse network file: %w", err)
	}

	g := graph.New()
	for _, ls := range spec.Links {
		link := g.AddLink(ls.From, ls.To, ls.Length, ls.Speed)
		for service, speed := range ls.Speeds {
			link.SetSpeed(service, speed)
		}
	}

	res := &Network{Graph: g, Planner: decision.NewTablePlanner()}
	for _, ls := range spec.Lines {
		timetable := make([]float64, 0, len(ls.Timetable))
		for _, entry := range ls.Timetable {
			dep, err := clock.Parse(entry)
			if err != nil {
				return nil, fmt.Errorf("line %s: %w", ls.ID, err)
			}
			timetable = append(timetable, dep)
		}
		res.Lines = append(res.Lines, LineDef{
			Service: ls.Service,
			Line:    mobility.NewLine(ls.ID, ls.Stops, ls.Capacity, timetable),
		})
	}
	for _, ps := range spec.Paths {
		res.Planner.Add(ps.Origin, ps.Destination, &decision.Path{
			Nodes:   ps.Nodes,
			Service: ps.Service,
			Cost:    ps.Cost,
		})
	}
	log.Infof("loaded network: %d links, %d lines, %d candidate paths",
		len(spec.Links), len(spec.Lines), len(spec.Paths))
	return res, nil
}

// NewDemand builds the demand manager the configuration selects.
func NewDemand(ctx context.Context, cfg config.DemandInput) (demand.Manager, error) {
	switch {
	case cfg.File != "":
		return demand.NewCSVManager(cfg.File)
	case cfg.URI != "":
		return demand.NewMongoManager(ctx, cfg)
	default:
		return nil, fmt.Errorf("demand input needs a file or a mongodb uri")
	}
}
