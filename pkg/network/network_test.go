package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

func counterAndGate(t *testing.T) *Network {
	t.Helper()
	net := New("net")
	c1, err := NewUpCounter(Common{ID: "c1"}, 3, CounterTrigger)
	require.NoError(t, err)
	b1, err := NewBoolean(Common{ID: "b1"}, BooleanAnd)
	require.NoError(t, err)
	require.NoError(t, net.AddNode(c1))
	require.NoError(t, net.AddNode(b1))
	return net
}

func TestAddNodeDuplicateLeavesGraphUnchanged(t *testing.T) {
	net := counterAndGate(t)
	before := net.Document()

	dup, err := NewHState(Common{ID: "c1"}, "a", false)
	require.NoError(t, err)

	err = net.AddNode(dup)
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.ErrCodeDuplicateID))
	assert.Equal(t, "c1", merrors.GetSubject(err))
	assert.Equal(t, 2, net.NodeCount())
	assert.Equal(t, before, net.Document())

	node, err := net.Node("c1")
	require.NoError(t, err)
	assert.Equal(t, KindUpCounter, node.Kind())
}

func TestAddNodeNil(t *testing.T) {
	assert.True(t, merrors.Is(New("n").AddNode(nil), merrors.ErrCodeInvalidInput))
}

func TestNodeUnknownID(t *testing.T) {
	_, err := New("n").Node("ghost")
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.ErrCodeUnknownID))
	assert.Equal(t, "ghost", merrors.GetSubject(err))
}

func TestAddConnection(t *testing.T) {
	net := counterAndGate(t)

	require.NoError(t, net.AddConnection("c1", "output", "b1", "in0"))
	require.NoError(t, net.AddConnection("c1", "output", "b1", "in1"))
	require.NoError(t, net.AddConnection("b1", "output", "c1", "reset"))

	assert.Equal(t, 3, net.ConnectionCount())
	assert.Equal(t, []Endpoint{{"b1", "in0"}, {"b1", "in1"}}, net.Activations("c1", "output"))
	assert.Equal(t, Connection{
		Source:      Endpoint{Node: "b1", Port: "output"},
		Destination: Endpoint{Node: "c1", Port: "reset"},
	}, net.Connections()[2])
}

func TestAddConnectionFailuresRecordNothing(t *testing.T) {
	tests := []struct {
		name                       string
		srcID, srcPort, dstID, dst string
		code                       merrors.Code
		subject                    string
	}{
		{"unknown source", "ghost", "output", "b1", "in0", merrors.ErrCodeUnknownID, "ghost"},
		{"unknown destination", "c1", "output", "ghost", "in0", merrors.ErrCodeUnknownID, "ghost"},
		{"missing source port", "c1", "nope", "b1", "in0", merrors.ErrCodeUnknownPort, "c1.nope"},
		{"missing destination port", "c1", "output", "b1", "in2", merrors.ErrCodeUnknownPort, "b1.in2"},
		{"source is an input", "c1", "count", "b1", "in0", merrors.ErrCodeUnknownPort, "c1.count"},
		{"destination is an output", "c1", "output", "b1", "output", merrors.ErrCodeUnknownPort, "b1.output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := counterAndGate(t)
			err := net.AddConnection(tt.srcID, tt.srcPort, tt.dstID, tt.dst)
			require.Error(t, err)
			assert.True(t, merrors.Is(err, tt.code), "got %v", err)
			assert.Equal(t, tt.subject, merrors.GetSubject(err))
			assert.Zero(t, net.ConnectionCount())
		})
	}
}

func TestDocumentDerivesActivations(t *testing.T) {
	net := counterAndGate(t)
	require.NoError(t, net.AddConnection("c1", "output", "b1", "in0"))

	doc := net.Document()
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "net", doc.ID)
	assert.Equal(t, "c1", doc.Nodes[0].ID)
	assert.Equal(t, []Activation{{ID: "b1", PortID: "in0"}}, doc.Nodes[0].OutputDefs[0].Activate)
	assert.Empty(t, doc.Nodes[1].OutputDefs[0].Activate)
	assert.NotNil(t, doc.Nodes[1].OutputDefs[0].Activate)
}

func TestNodesKeepInsertionOrder(t *testing.T) {
	net := New("n")
	for _, id := range []string{"z", "a", "m"} {
		h, err := NewHState(Common{ID: id}, "a", false)
		require.NoError(t, err)
		require.NoError(t, net.AddNode(h))
	}
	assert.Equal(t, []string{"z", "a", "m"}, net.NodeIDs())
	nodes := net.Nodes()
	assert.Equal(t, "m", nodes[2].ID())
}

func TestEqual(t *testing.T) {
	a := counterAndGate(t)
	b := counterAndGate(t)
	assert.True(t, a.Equal(b))

	require.NoError(t, a.AddConnection("c1", "output", "b1", "in0"))
	assert.False(t, a.Equal(b))

	require.NoError(t, b.AddConnection("c1", "output", "b1", "in0"))
	assert.True(t, a.Equal(b))

	node, _ := b.Node("b1")
	require.NoError(t, node.SetReportEnable(ReportAlways))
	assert.False(t, a.Equal(b))

	var nilNet *Network
	assert.False(t, a.Equal(nilNet))
}
