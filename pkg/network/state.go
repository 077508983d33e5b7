package network

// Fixed port ids of state variants.
const (
	PortStateInput   = "input"
	PortHStateOutput = "output"
)

// SymbolMatch binds one output port of a [State] to the symbol-set
// expression that drives it.
type SymbolMatch struct {
	Port    string
	Symbols string
}

// SymbolSet is the ordered output mapping of a [State]. Its JSON form is an
// object whose keys keep the slice order.
type SymbolSet []SymbolMatch

// MarshalJSON writes the mapping as an ordered JSON object.
func (s SymbolSet) MarshalJSON() ([]byte, error) {
	l := make(AttributeList, len(s))
	for i, m := range s {
		l[i] = Attribute{Key: m.Port, Value: m.Symbols}
	}
	return l.MarshalJSON()
}

// State is a single automaton state. Each symbol-set entry defines an
// output port that fires when its expression matches the input symbol.
type State struct {
	nodeBase
	symbols SymbolSet
	latched bool
}

// NewState creates a state with one width-1 output per symbol-set entry and
// a single width-1 input. Duplicate output ports fail with DUPLICATE_PORT_ID.
func NewState(c Common, symbols SymbolSet, latched bool) (*State, error) {
	outs := make([]Port, len(symbols))
	for i, m := range symbols {
		p, err := NewPort(m.Port, 1)
		if err != nil {
			return nil, err
		}
		outs[i] = p
	}
	outputs, err := NewPortSet(outs...)
	if err != nil {
		return nil, err
	}
	b, err := newBase(c, KindState, unitPorts(PortStateInput), outputs)
	if err != nil {
		return nil, err
	}
	return &State{nodeBase: b, symbols: append(SymbolSet(nil), symbols...), latched: latched}, nil
}

// Kind returns KindState.
func (s *State) Kind() Kind { return KindState }

// Type returns "state".
func (s *State) Type() string { return KindState.String() }

// SymbolSet returns a copy of the output mapping.
func (s *State) SymbolSet() SymbolSet { return append(SymbolSet(nil), s.symbols...) }

// Latched reports whether the state stays active once matched.
func (s *State) Latched() bool { return s.latched }

// Document returns the node in its wire shape.
func (s *State) Document() NodeDocument {
	symbols := s.symbols
	if symbols == nil {
		symbols = SymbolSet{}
	}
	return s.document(s.Type(), AttributeList{
		{Key: AttrSymbolSet, Value: symbols},
		{Key: AttrLatched, Value: s.latched},
	})
}

// HState is a homogeneous state: one symbol-set expression shared by a
// single output.
type HState struct {
	nodeBase
	symbolSet string
	latched   bool
}

// NewHState creates a homogeneous state with ports input(1) and output(1).
func NewHState(c Common, symbolSet string, latched bool) (*HState, error) {
	b, err := newBase(c, KindHState, unitPorts(PortStateInput), unitPorts(PortHStateOutput))
	if err != nil {
		return nil, err
	}
	return &HState{nodeBase: b, symbolSet: symbolSet, latched: latched}, nil
}

// Kind returns KindHState.
func (h *HState) Kind() Kind { return KindHState }

// Type returns "hState".
func (h *HState) Type() string { return KindHState.String() }

// SymbolSet returns the symbol-set expression.
func (h *HState) SymbolSet() string { return h.symbolSet }

// Latched reports whether the state stays active once matched.
func (h *HState) Latched() bool { return h.latched }

// Document returns the node in its wire shape.
func (h *HState) Document() NodeDocument {
	return h.document(h.Type(), AttributeList{
		{Key: AttrSymbolSet, Value: h.symbolSet},
		{Key: AttrLatched, Value: h.latched},
	})
}
