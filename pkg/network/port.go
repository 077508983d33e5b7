package network

import (
	"fmt"
	"slices"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// Port is a named, fixed-width connection point on one side of a node.
// The zero value is not usable; construct ports with [NewPort].
type Port struct {
	id    string
	width int
}

// NewPort returns a port with the given id and bit width.
// It fails with INVALID_PORT if id is empty or width is not positive.
func NewPort(id string, width int) (Port, error) {
	if id == "" {
		return Port{}, merrors.New(merrors.ErrCodeInvalidPort, "port id must not be empty")
	}
	if width <= 0 {
		return Port{}, merrors.New(merrors.ErrCodeInvalidPort, "port %q: width must be positive, got %d", id, width).
			WithSubject(id)
	}
	return Port{id: id, width: width}, nil
}

// ID returns the port identifier.
func (p Port) ID() string { return p.id }

// Width returns the signal width in bits.
func (p Port) Width() int { return p.width }

// String returns "id/width".
func (p Port) String() string { return fmt.Sprintf("%s/%d", p.id, p.width) }

// PortSet is an ordered set of ports. Position is significant for some node
// variants (e.g. boolean gate inputs), so insertion order is preserved.
// The zero value is an empty set.
type PortSet struct {
	ports []Port
}

// NewPortSet builds a set from ports in order.
// It fails with DUPLICATE_PORT_ID if two ports share an id.
func NewPortSet(ports ...Port) (PortSet, error) {
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p.id == "" {
			return PortSet{}, merrors.New(merrors.ErrCodeInvalidPort, "port id must not be empty")
		}
		if seen[p.id] {
			return PortSet{}, merrors.New(merrors.ErrCodeDuplicatePortID, "duplicate port id %q", p.id).
				WithSubject(p.id)
		}
		seen[p.id] = true
	}
	return PortSet{ports: slices.Clone(ports)}, nil
}

// unitPorts builds a set of width-1 ports. The ids must be unique and non-empty.
func unitPorts(ids ...string) PortSet {
	ports := make([]Port, len(ids))
	for i, id := range ids {
		ports[i] = Port{id: id, width: 1}
	}
	return PortSet{ports: ports}
}

// Len returns the number of ports in the set.
func (s PortSet) Len() int { return len(s.ports) }

// Ports returns a copy of the ports in declaration order.
func (s PortSet) Ports() []Port { return slices.Clone(s.ports) }

// Get returns the port with the given id and true, or the zero Port and false.
func (s PortSet) Get(id string) (Port, bool) {
	for _, p := range s.ports {
		if p.id == id {
			return p, true
		}
	}
	return Port{}, false
}

// Has reports whether the set contains a port with the given id.
func (s PortSet) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// IDs returns the port ids in declaration order.
func (s PortSet) IDs() []string {
	ids := make([]string, len(s.ports))
	for i, p := range s.ports {
		ids[i] = p.id
	}
	return ids
}

// Equal reports whether both sets hold the same ports in the same order.
func (s PortSet) Equal(other PortSet) bool {
	return slices.Equal(s.ports, other.ports)
}
