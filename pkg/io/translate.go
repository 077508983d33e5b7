package io

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/network"
	"github.com/matzehuels/mnrl/pkg/schema"
)

// Stage is the progress of a [Translator].
type Stage int

const (
	// StageEmpty is the initial stage; no node has been read.
	StageEmpty Stage = iota
	// StageNodesLoaded follows a successful node pass.
	StageNodesLoaded
	// StageConnectionsLoaded follows a successful connection pass.
	StageConnectionsLoaded
	// StageReady means the network may be taken.
	StageReady
	// StageFailed means a pass failed; the translator is unusable.
	StageFailed
)

var stageNames = [...]string{"empty", "nodesLoaded", "connectionsLoaded", "ready", "failed"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "Stage(" + strconv.Itoa(int(s)) + ")"
}

// Translator rebuilds a network from a validated document in two passes.
// The node pass creates every node so the connection pass can resolve
// references in any direction, including forward references and cycles.
//
// A Translator is single-use. Any failed pass moves it to [StageFailed] and
// every later call returns the same error; a partially built network is
// never handed out.
type Translator struct {
	tree  schema.Tree
	net   *network.Network
	stage Stage
	err   error
}

// NewTranslator returns a translator for tree.
func NewTranslator(tree schema.Tree) *Translator {
	return &Translator{tree: tree}
}

// Stage returns the current stage.
func (t *Translator) Stage() Stage { return t.stage }

// Translate runs both passes over tree and returns the finished network.
func Translate(tree schema.Tree) (*network.Network, error) {
	t := NewTranslator(tree)
	if err := t.LoadNodes(); err != nil {
		return nil, err
	}
	if err := t.LoadConnections(); err != nil {
		return nil, err
	}
	if err := t.Finish(); err != nil {
		return nil, err
	}
	return t.Network()
}

func (t *Translator) expect(s Stage, op string) error {
	if t.stage == StageFailed {
		return t.err
	}
	if t.stage != s {
		return merrors.New(merrors.ErrCodeInvalidInput, "%s: translator is %s, want %s", op, t.stage, s)
	}
	return nil
}

func (t *Translator) fail(err error) error {
	t.stage = StageFailed
	t.err = err
	t.net = nil
	return err
}

// LoadNodes creates a node for every element of "nodes" and applies each
// node's reportEnable. It is valid only in [StageEmpty].
func (t *Translator) LoadNodes() error {
	if err := t.expect(StageEmpty, "load nodes"); err != nil {
		return err
	}
	root := t.tree.Root()
	id, err := requireString(root, "id", "")
	if err != nil {
		return t.fail(err)
	}
	nodes := root.Get("nodes")
	if !nodes.Exists() {
		return t.fail(missing("", "nodes"))
	}
	if !nodes.IsArray() {
		return t.fail(invalidField("", "nodes", "an array"))
	}

	net := network.New(id)
	for i, n := range nodes.Array() {
		node, err := buildNode(n)
		if err != nil {
			return t.fail(fmt.Errorf("nodes[%d]: %w", i, err))
		}
		if err := net.AddNode(node); err != nil {
			return t.fail(fmt.Errorf("nodes[%d]: %w", i, err))
		}
		if re := n.Get("reportEnable"); re.Exists() {
			if err := applyReportEnable(net, node.ID(), re); err != nil {
				return t.fail(fmt.Errorf("nodes[%d]: %w", i, err))
			}
		}
	}
	t.net = net
	t.stage = StageNodesLoaded
	return nil
}

// applyReportEnable goes back to the network by id: the node is owned by
// the network from the moment it is added.
func applyReportEnable(net *network.Network, id string, v gjson.Result) error {
	if v.Type != gjson.String {
		return invalidField(id, "reportEnable", "a string")
	}
	re, err := network.ParseReportEnable(v.Str)
	if err != nil {
		return scoped(err, id)
	}
	node, err := net.Node(id)
	if err != nil {
		return err
	}
	return node.SetReportEnable(re)
}

// LoadConnections adds one connection per activate entry of every output
// definition. It is valid only in [StageNodesLoaded].
func (t *Translator) LoadConnections() error {
	if err := t.expect(StageNodesLoaded, "load connections"); err != nil {
		return err
	}
	for _, n := range t.tree.Get("nodes").Array() {
		src := n.Get("id").Str
		for _, def := range n.Get("outputDefs").Array() {
			port := def.Get("portId").Str
			for _, act := range def.Get("activate").Array() {
				dst, dstPort := act.Get("id").Str, act.Get("portId").Str
				if err := t.net.AddConnection(src, port, dst, dstPort); err != nil {
					return t.fail(fmt.Errorf("connection %s.%s -> %s.%s: %w", src, port, dst, dstPort, err))
				}
			}
		}
	}
	t.stage = StageConnectionsLoaded
	return nil
}

// Finish marks the network complete. It is valid only in
// [StageConnectionsLoaded].
func (t *Translator) Finish() error {
	if err := t.expect(StageConnectionsLoaded, "finish"); err != nil {
		return err
	}
	t.stage = StageReady
	return nil
}

// Network returns the translated network. It is valid only in [StageReady].
func (t *Translator) Network() (*network.Network, error) {
	if err := t.expect(StageReady, "network"); err != nil {
		return nil, err
	}
	return t.net, nil
}

func buildNode(n gjson.Result) (network.Node, error) {
	if !n.IsObject() {
		return nil, merrors.New(merrors.ErrCodeInvalidFormat, "node must be an object")
	}
	id, err := requireString(n, "id", "")
	if err != nil {
		return nil, err
	}
	typ, err := requireString(n, "type", id)
	if err != nil {
		return nil, err
	}
	kind := network.KindOf(typ)
	c, err := common(n, id, kind)
	if err != nil {
		return nil, err
	}
	attrs := n.Get("attributes")

	switch kind {
	case network.KindState:
		symbols, err := symbolSet(attrs, id)
		if err != nil {
			return nil, err
		}
		latched, err := requireBool(attrs, network.AttrLatched, id)
		if err != nil {
			return nil, err
		}
		return network.NewState(c, symbols, latched)

	case network.KindHState:
		symbols, err := requireString(attrs, network.AttrSymbolSet, id)
		if err != nil {
			return nil, err
		}
		latched, err := requireBool(attrs, network.AttrLatched, id)
		if err != nil {
			return nil, err
		}
		return network.NewHState(c, symbols, latched)

	case network.KindUpCounter:
		mode, err := requireString(attrs, network.AttrMode, id)
		if err != nil {
			return nil, err
		}
		m, err := network.ParseCounterMode(mode)
		if err != nil {
			return nil, scoped(err, id)
		}
		threshold, err := requireInt(attrs, network.AttrThreshold, id)
		if err != nil {
			return nil, err
		}
		return network.NewUpCounter(c, threshold, m)

	case network.KindBoolean:
		gate, err := requireString(attrs, network.AttrGateType, id)
		if err != nil {
			return nil, err
		}
		m, err := network.ParseBooleanMode(gate)
		if err != nil {
			return nil, scoped(err, id)
		}
		return network.NewBoolean(c, m)

	default:
		ins, err := portSet(n, "inputDefs", id)
		if err != nil {
			return nil, err
		}
		outs, err := portSet(n, "outputDefs", id)
		if err != nil {
			return nil, err
		}
		return network.NewGeneric(c, typ, ins, outs)
	}
}

// common reads the fields shared by every variant and splits the attribute
// object into the report id and the pass-through bag. Keys reserved by kind
// are left for the variant.
func common(n gjson.Result, id string, kind network.Kind) (network.Common, error) {
	c := network.Common{ID: id}

	enable, err := requireString(n, "enable", id)
	if err != nil {
		return c, err
	}
	if c.Enable, err = network.ParseEnableMode(enable); err != nil {
		return c, scoped(err, id)
	}
	if c.Report, err = requireBool(n, "report", id); err != nil {
		return c, err
	}

	attrs := n.Get("attributes")
	if !attrs.Exists() {
		return c, nil
	}
	if !attrs.IsObject() {
		return c, invalidField(id, "attributes", "an object")
	}
	if rid := attrs.Get(network.AttrReportID); rid.Exists() {
		if c.ReportID, err = reportID(rid, id); err != nil {
			return c, err
		}
	}

	reserved := network.ReservedKeys(kind)
	var bag network.Attributes
	attrs.ForEach(func(key, value gjson.Result) bool {
		if slices.Contains(reserved, key.Str) {
			return true
		}
		var v any
		if v, err = decodeValue(value.Raw); err != nil {
			err = merrors.Wrap(merrors.ErrCodeInvalidFormat, err, "node %q: attribute %q", id, key.Str).
				WithSubject(id + ".attributes." + key.Str)
			return false
		}
		if bag == nil {
			bag = network.Attributes{}
		}
		bag[key.Str] = v
		return true
	})
	if err != nil {
		return c, err
	}
	c.Attributes = bag
	return c, nil
}

// reportID keeps the JSON type of the id: strings stay strings and integer
// literals stay integers.
func reportID(v gjson.Result, id string) (network.ReportID, error) {
	switch v.Type {
	case gjson.String:
		return network.StringReportID(v.Str), nil
	case gjson.Number:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return network.ReportID{}, invalidField(id, "attributes.reportId", "an integer or a string")
		}
		return network.IntReportID(n), nil
	default:
		return network.ReportID{}, invalidField(id, "attributes.reportId", "an integer or a string")
	}
}

func symbolSet(attrs gjson.Result, id string) (network.SymbolSet, error) {
	v := attrs.Get(network.AttrSymbolSet)
	if !v.Exists() {
		return nil, missing(id, "attributes."+network.AttrSymbolSet)
	}
	if !v.IsObject() {
		return nil, invalidField(id, "attributes."+network.AttrSymbolSet, "an object")
	}
	var (
		out network.SymbolSet
		err error
	)
	v.ForEach(func(port, expr gjson.Result) bool {
		if expr.Type != gjson.String {
			err = invalidField(id, "attributes.symbolSet."+port.Str, "a string")
			return false
		}
		out = append(out, network.SymbolMatch{Port: port.Str, Symbols: expr.Str})
		return true
	})
	return out, err
}

// portSet reads an inputDefs or outputDefs array of a generic node.
func portSet(n gjson.Result, field, id string) (network.PortSet, error) {
	defs := n.Get(field)
	if !defs.Exists() {
		return network.PortSet{}, missing(id, field)
	}
	if !defs.IsArray() {
		return network.PortSet{}, invalidField(id, field, "an array")
	}
	var ports []network.Port
	for i, d := range defs.Array() {
		path := field + "." + strconv.Itoa(i)
		portID, err := requireString(d, "portId", id)
		if err != nil {
			return network.PortSet{}, fmt.Errorf("%s: %w", path, err)
		}
		width, err := requireInt(d, "width", id)
		if err != nil {
			return network.PortSet{}, fmt.Errorf("%s: %w", path, err)
		}
		p, err := network.NewPort(portID, width)
		if err != nil {
			return network.PortSet{}, scoped(err, id)
		}
		ports = append(ports, p)
	}
	ps, err := network.NewPortSet(ports...)
	if err != nil {
		return network.PortSet{}, scoped(err, id)
	}
	return ps, nil
}

func decodeValue(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func requireString(obj gjson.Result, field, id string) (string, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return "", missing(id, prefixed(field))
	}
	if v.Type != gjson.String {
		return "", invalidField(id, prefixed(field), "a string")
	}
	return v.Str, nil
}

func requireBool(obj gjson.Result, field, id string) (bool, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return false, missing(id, prefixed(field))
	}
	if !v.IsBool() {
		return false, invalidField(id, prefixed(field), "a boolean")
	}
	return v.Bool(), nil
}

func requireInt(obj gjson.Result, field, id string) (int, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return 0, missing(id, prefixed(field))
	}
	if v.Type != gjson.Number {
		return 0, invalidField(id, prefixed(field), "an integer")
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return 0, invalidField(id, prefixed(field), "an integer")
	}
	return n, nil
}

// prefixed names typed attribute fields by their path within the node.
func prefixed(field string) string {
	switch field {
	case network.AttrSymbolSet, network.AttrLatched, network.AttrMode, network.AttrThreshold, network.AttrGateType:
		return "attributes." + field
	}
	return field
}

func missing(id, field string) error {
	if id == "" {
		return merrors.New(merrors.ErrCodeMissingField, "missing field %q", field).WithSubject(field)
	}
	return merrors.New(merrors.ErrCodeMissingField, "node %q: missing field %q", id, field).WithSubject(id + "." + field)
}

func invalidField(id, field, want string) error {
	subject := field
	if id != "" {
		subject = id + "." + field
	}
	return merrors.New(merrors.ErrCodeInvalidAttribute, "field %q must be %s", field, want).WithSubject(subject)
}

// scoped qualifies the subject of a model error with the node it came from:
// "enable" becomes "c1.enable" and an empty subject becomes "c1".
func scoped(err error, id string) error {
	e, ok := err.(*merrors.Error)
	if !ok {
		return err
	}
	if e.Subject == "" {
		return e.WithSubject(id)
	}
	return e.WithSubject(id + "." + e.Subject)
}
