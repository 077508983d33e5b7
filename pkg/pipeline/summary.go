package pipeline

import (
	"github.com/matzehuels/mnrl/pkg/network"
)

// Summary describes the shape of a loaded network.
type Summary struct {
	ID          string         `json:"id" yaml:"id"`
	Nodes       int            `json:"nodes" yaml:"nodes"`
	Connections int            `json:"connections" yaml:"connections"`
	InputPorts  int            `json:"input_ports" yaml:"input_ports"`
	OutputPorts int            `json:"output_ports" yaml:"output_ports"`
	Reporting   int            `json:"reporting" yaml:"reporting"`
	StartNodes  int            `json:"start_nodes" yaml:"start_nodes"`
	Types       map[string]int `json:"types" yaml:"types"`
	// Unconnected lists nodes with neither incoming nor outgoing
	// connections, in insertion order.
	Unconnected []string `json:"unconnected,omitempty" yaml:"unconnected,omitempty"`
}

// Summarize counts nodes, ports and connections of net. Types is keyed by
// the MNRL type string, so generic nodes appear under their own type names.
func Summarize(net *network.Network) Summary {
	s := Summary{
		ID:          net.ID(),
		Nodes:       net.NodeCount(),
		Connections: net.ConnectionCount(),
		Types:       make(map[string]int),
	}

	linked := make(map[string]bool)
	for _, c := range net.Connections() {
		linked[c.Source.Node] = true
		linked[c.Destination.Node] = true
	}

	for _, n := range net.Nodes() {
		s.Types[n.Type()]++
		s.InputPorts += n.InputPorts().Len()
		s.OutputPorts += n.OutputPorts().Len()
		if n.ReportSettings().Report {
			s.Reporting++
		}
		if n.Enable() == network.EnableOnStartAndActivateIn {
			s.StartNodes++
		}
		if !linked[n.ID()] {
			s.Unconnected = append(s.Unconnected, n.ID())
		}
	}
	return s
}
