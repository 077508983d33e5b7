package network

import (
	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// Generic is the escape hatch for computational elements MNRL has no
// built-in variant for. Its ports and type name are supplied by the caller.
type Generic struct {
	nodeBase
	typ string
}

// NewGeneric creates a generic node of the given type. typ must not be empty
// and must not name a built-in variant.
func NewGeneric(c Common, typ string, inputs, outputs PortSet) (*Generic, error) {
	if typ == "" {
		return nil, merrors.New(merrors.ErrCodeUnknownNodeType, "node %q: empty node type", c.ID).WithSubject(c.ID)
	}
	if KindOf(typ) != KindGeneric {
		return nil, merrors.New(merrors.ErrCodeInvalidAttribute, "node %q: type %q is a built-in variant", c.ID, typ).
			WithSubject(c.ID)
	}
	b, err := newBase(c, KindGeneric, inputs, outputs)
	if err != nil {
		return nil, err
	}
	return &Generic{nodeBase: b, typ: typ}, nil
}

// Kind returns KindGeneric.
func (g *Generic) Kind() Kind { return KindGeneric }

// Type returns the caller-defined type name.
func (g *Generic) Type() string { return g.typ }

// Document returns the node in its wire shape.
func (g *Generic) Document() NodeDocument { return g.document(g.typ, nil) }
