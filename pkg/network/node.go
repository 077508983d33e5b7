package network

import (
	"maps"
	"slices"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// Kind is the variant tag of a node.
type Kind int

const (
	// KindGeneric is an arbitrary element with caller-declared ports.
	KindGeneric Kind = iota
	// KindState is an automaton state with one output per symbol-set entry.
	KindState
	// KindHState is a homogeneous state sharing one symbol-set expression.
	KindHState
	// KindUpCounter is a monotonically incrementing counter.
	KindUpCounter
	// KindBoolean is a logic gate.
	KindBoolean
)

var kindToType = map[Kind]string{
	KindState:     "state",
	KindHState:    "hState",
	KindUpCounter: "upCounter",
	KindBoolean:   "boolean",
}

var kindFromType = invert(kindToType)

// String returns the MNRL type name of the kind, or "generic".
func (k Kind) String() string {
	if s, ok := kindToType[k]; ok {
		return s
	}
	return "generic"
}

// KindOf maps an MNRL node type to its kind. Every type that is not one of
// the built-in variants is generic.
func KindOf(typ string) Kind {
	if k, ok := kindFromType[typ]; ok {
		return k
	}
	return KindGeneric
}

// Attribute keys that carry typed fields on the wire.
const (
	AttrSymbolSet = "symbolSet"
	AttrLatched   = "latched"
	AttrReportID  = "reportId"
	AttrThreshold = "threshold"
	AttrMode      = "mode"
	AttrGateType  = "gateType"
)

var reservedKeys = map[Kind][]string{
	KindGeneric:   {AttrReportID},
	KindState:     {AttrSymbolSet, AttrLatched, AttrReportID},
	KindHState:    {AttrSymbolSet, AttrLatched, AttrReportID},
	KindUpCounter: {AttrMode, AttrThreshold, AttrReportID},
	KindBoolean:   {AttrGateType, AttrReportID},
}

// ReservedKeys returns the attribute keys a variant owns as typed fields.
// They never appear in the variant's pass-through [Attributes].
func ReservedKeys(k Kind) []string { return slices.Clone(reservedKeys[k]) }

// Attributes is the pass-through attribute bag of a node. Values are plain
// JSON-compatible Go values; documents loaded from JSON use json.Number for
// numbers so their literal form survives a round trip.
type Attributes map[string]any

// Common holds the fields every node variant shares.
type Common struct {
	ID         string
	Enable     EnableMode
	Report     bool
	ReportID   ReportID
	Attributes Attributes
}

// Node is a typed element of a network. The set of implementations is
// closed: [*Generic], [*State], [*HState], [*UpCounter] and [*Boolean].
// Use a type switch or [Node.Kind] to dispatch on the variant.
type Node interface {
	ID() string
	Kind() Kind
	// Type is the MNRL "type" string; for generic nodes it is caller-defined.
	Type() string
	Enable() EnableMode
	InputPorts() PortSet
	OutputPorts() PortSet
	ReportSettings() ReportSettings
	ReportEnable() (ReportEnable, bool)
	SetReportEnable(ReportEnable) error
	// Attributes returns a copy of the pass-through attributes.
	Attributes() Attributes
	// Document returns the node in its wire shape. Activation lists are
	// empty; they are filled in by [Network.Document].
	Document() NodeDocument

	core() *nodeBase
}

type nodeBase struct {
	id              string
	enable          EnableMode
	report          ReportSettings
	reportEnable    ReportEnable
	hasReportEnable bool
	inputs          PortSet
	outputs         PortSet
	attrs           Attributes
}

func newBase(c Common, kind Kind, inputs, outputs PortSet) (nodeBase, error) {
	if c.ID == "" {
		return nodeBase{}, merrors.New(merrors.ErrCodeInvalidAttribute, "node id must not be empty").WithSubject("id")
	}
	if !c.Enable.valid() {
		return nodeBase{}, merrors.New(merrors.ErrCodeInvalidEnumValue, "node %q: invalid enable mode %d", c.ID, int(c.Enable)).
			WithSubject(c.ID)
	}
	if c.ReportID.IsSet() && !c.Report {
		return nodeBase{}, merrors.New(merrors.ErrCodeInvalidAttribute, "node %q: reportId set on a non-reporting node", c.ID).
			WithSubject(c.ID)
	}
	for _, key := range reservedKeys[kind] {
		if _, ok := c.Attributes[key]; ok {
			return nodeBase{}, merrors.New(merrors.ErrCodeInvalidAttribute,
				"node %q: attribute %q is a %s field and cannot be passed through", c.ID, key, kind).
				WithSubject(c.ID + "." + key)
		}
	}
	attrs := maps.Clone(c.Attributes)
	if attrs == nil {
		attrs = Attributes{}
	}
	return nodeBase{
		id:      c.ID,
		enable:  c.Enable,
		report:  ReportSettings{Report: c.Report, ID: c.ReportID},
		inputs:  inputs,
		outputs: outputs,
		attrs:   attrs,
	}, nil
}

func (b *nodeBase) core() *nodeBase { return b }

// ID returns the node identifier.
func (b *nodeBase) ID() string { return b.id }

// Enable returns the node's enable mode.
func (b *nodeBase) Enable() EnableMode { return b.enable }

// InputPorts returns the node's input ports.
func (b *nodeBase) InputPorts() PortSet { return b.inputs }

// OutputPorts returns the node's output ports.
func (b *nodeBase) OutputPorts() PortSet { return b.outputs }

// ReportSettings returns the report flag and optional report id.
func (b *nodeBase) ReportSettings() ReportSettings { return b.report }

// ReportEnable returns the report-enable override and whether one is set.
func (b *nodeBase) ReportEnable() (ReportEnable, bool) { return b.reportEnable, b.hasReportEnable }

// SetReportEnable sets the report-enable override.
func (b *nodeBase) SetReportEnable(r ReportEnable) error {
	if !r.valid() {
		return merrors.New(merrors.ErrCodeInvalidEnumValue, "node %q: invalid reportEnable %d", b.id, int(r)).
			WithSubject(b.id)
	}
	b.reportEnable = r
	b.hasReportEnable = true
	return nil
}

// Attributes returns a copy of the pass-through attributes.
func (b *nodeBase) Attributes() Attributes { return maps.Clone(b.attrs) }

// document renders the shared fields. typed holds the variant's reserved
// attributes in wire order; pass-through attributes follow, sorted by key.
func (b *nodeBase) document(typ string, typed AttributeList) NodeDocument {
	doc := NodeDocument{
		ID:         b.id,
		Type:       typ,
		Enable:     b.enable.String(),
		Report:     b.report.Report,
		InputDefs:  make([]InputDef, 0, b.inputs.Len()),
		OutputDefs: make([]OutputDef, 0, b.outputs.Len()),
	}
	if b.hasReportEnable {
		doc.ReportEnable = b.reportEnable.String()
	}
	for _, p := range b.inputs.ports {
		doc.InputDefs = append(doc.InputDefs, InputDef{PortID: p.id, Width: p.width})
	}
	for _, p := range b.outputs.ports {
		doc.OutputDefs = append(doc.OutputDefs, OutputDef{PortID: p.id, Width: p.width, Activate: []Activation{}})
	}

	attrs := slices.Clone(typed)
	if b.report.ID.IsSet() {
		attrs = append(attrs, Attribute{Key: AttrReportID, Value: b.report.ID})
	}
	for _, k := range slices.Sorted(maps.Keys(b.attrs)) {
		attrs = append(attrs, Attribute{Key: k, Value: b.attrs[k]})
	}
	if attrs == nil {
		attrs = AttributeList{}
	}
	doc.Attributes = attrs
	return doc
}
