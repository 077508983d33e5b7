package network

import (
	"strconv"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// PortBooleanOutput is the output port id of a boolean gate.
const PortBooleanOutput = "output"

// BooleanInputPort returns the id of the i-th gate input: in0, in1, ...
func BooleanInputPort(i int) string { return "in" + strconv.Itoa(i) }

// Boolean is a logic gate. Its input arity is derived from the mode and is
// never supplied by the caller.
type Boolean struct {
	nodeBase
	mode BooleanMode
}

// NewBoolean creates a gate with mode.Arity() width-1 inputs and a single
// width-1 output.
func NewBoolean(c Common, mode BooleanMode) (*Boolean, error) {
	if !mode.valid() {
		return nil, merrors.New(merrors.ErrCodeInvalidEnumValue, "node %q: invalid gate type %d", c.ID, int(mode)).
			WithSubject(c.ID)
	}
	ins := make([]string, mode.Arity())
	for i := range ins {
		ins[i] = BooleanInputPort(i)
	}
	b, err := newBase(c, KindBoolean, unitPorts(ins...), unitPorts(PortBooleanOutput))
	if err != nil {
		return nil, err
	}
	return &Boolean{nodeBase: b, mode: mode}, nil
}

// Kind returns KindBoolean.
func (g *Boolean) Kind() Kind { return KindBoolean }

// Type returns "boolean".
func (g *Boolean) Type() string { return KindBoolean.String() }

// Mode returns the gate's logic function.
func (g *Boolean) Mode() BooleanMode { return g.mode }

// Document returns the node in its wire shape.
func (g *Boolean) Document() NodeDocument {
	return g.document(g.Type(), AttributeList{
		{Key: AttrGateType, Value: g.mode.String()},
	})
}
