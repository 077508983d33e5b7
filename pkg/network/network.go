package network

import (
	"bytes"
	"encoding/json"
	"slices"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// Endpoint is a (node, port) pair.
type Endpoint struct {
	Node string
	Port string
}

// String returns "node.port".
func (e Endpoint) String() string { return e.Node + "." + e.Port }

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	Source      Endpoint
	Destination Endpoint
}

// Network owns a set of nodes keyed by id and the ordered connections
// between their ports. Nodes never reference each other directly; all
// traversal goes through the network's id lookup.
//
// The zero value is not usable - use New to create a Network.
// A Network is not safe for concurrent mutation.
type Network struct {
	id    string
	nodes map[string]Node
	order []string
	conns []Connection
}

// New creates an empty network with the given id.
func New(id string) *Network {
	return &Network{
		id:    id,
		nodes: make(map[string]Node),
	}
}

// ID returns the network id.
func (n *Network) ID() string { return n.id }

// AddNode adds a node. It fails with DUPLICATE_ID, leaving the network
// unchanged, if a node with the same id is already present.
func (n *Network) AddNode(node Node) error {
	if node == nil {
		return merrors.New(merrors.ErrCodeInvalidInput, "nil node")
	}
	id := node.ID()
	if _, exists := n.nodes[id]; exists {
		return merrors.New(merrors.ErrCodeDuplicateID, "duplicate node id %q", id).WithSubject(id)
	}
	n.nodes[id] = node
	n.order = append(n.order, id)
	return nil
}

// Node returns the node with the given id, or UNKNOWN_ID.
// The returned node is owned by the network; mutations through it (such as
// SetReportEnable) affect the network.
func (n *Network) Node(id string) (Node, error) {
	node, ok := n.nodes[id]
	if !ok {
		return nil, merrors.New(merrors.ErrCodeUnknownID, "unknown node id %q", id).WithSubject(id)
	}
	return node, nil
}

// AddConnection connects output port srcPort of srcID to input port dstPort
// of dstID. It fails with UNKNOWN_ID if either node is missing and with
// UNKNOWN_PORT if srcPort is not an output of srcID or dstPort is not an
// input of dstID. Nothing is recorded on failure.
//
// Connections keep declaration order. Fan-out and fan-in are both allowed.
func (n *Network) AddConnection(srcID, srcPort, dstID, dstPort string) error {
	src, err := n.Node(srcID)
	if err != nil {
		return err
	}
	dst, err := n.Node(dstID)
	if err != nil {
		return err
	}
	s := Endpoint{Node: srcID, Port: srcPort}
	d := Endpoint{Node: dstID, Port: dstPort}
	if !src.OutputPorts().Has(srcPort) {
		return merrors.New(merrors.ErrCodeUnknownPort, "node %q has no output port %q", srcID, srcPort).
			WithSubject(s.String())
	}
	if !dst.InputPorts().Has(dstPort) {
		return merrors.New(merrors.ErrCodeUnknownPort, "node %q has no input port %q", dstID, dstPort).
			WithSubject(d.String())
	}
	n.conns = append(n.conns, Connection{Source: s, Destination: d})
	return nil
}

// Nodes returns the nodes in insertion order.
func (n *Network) Nodes() []Node {
	nodes := make([]Node, len(n.order))
	for i, id := range n.order {
		nodes[i] = n.nodes[id]
	}
	return nodes
}

// NodeIDs returns the node ids in insertion order.
func (n *Network) NodeIDs() []string { return slices.Clone(n.order) }

// Connections returns a copy of the connections in declaration order.
func (n *Network) Connections() []Connection { return slices.Clone(n.conns) }

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.order) }

// ConnectionCount returns the number of connections.
func (n *Network) ConnectionCount() int { return len(n.conns) }

// Activations returns the destinations driven by output port portID of
// node nodeID, in declaration order.
func (n *Network) Activations(nodeID, portID string) []Endpoint {
	var out []Endpoint
	for _, c := range n.conns {
		if c.Source.Node == nodeID && c.Source.Port == portID {
			out = append(out, c.Destination)
		}
	}
	return out
}

// Document returns the wire shape of the whole network: nodes in insertion
// order, each output port annotated with the activation targets drawn from
// the connection list. Activation lists are derived here and never stored
// on the nodes, so they cannot drift from the connections.
func (n *Network) Document() Document {
	targets := make(map[Endpoint][]Activation)
	for _, c := range n.conns {
		targets[c.Source] = append(targets[c.Source], Activation{ID: c.Destination.Node, PortID: c.Destination.Port})
	}

	doc := Document{ID: n.id, Nodes: make([]NodeDocument, 0, len(n.order))}
	for _, id := range n.order {
		nd := n.nodes[id].Document()
		for i := range nd.OutputDefs {
			if acts := targets[Endpoint{Node: id, Port: nd.OutputDefs[i].PortID}]; len(acts) > 0 {
				nd.OutputDefs[i].Activate = acts
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

// Equal reports whether two networks have the same id, the same nodes in
// the same order with identical fields, and the same connections. Connections
// are compared per source port, in declaration order within each port, which
// is exactly the information a serialized document retains. Attribute values
// are compared by their JSON encoding, so int 3 and json.Number("3") match.
func (n *Network) Equal(other *Network) bool {
	if n == nil || other == nil {
		return n == other
	}
	a, err := json.Marshal(n.Document())
	if err != nil {
		return false
	}
	b, err := json.Marshal(other.Document())
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
