package network

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

func TestNewBooleanDerivesArity(t *testing.T) {
	for mode := range booleanModeToString {
		t.Run(mode.String(), func(t *testing.T) {
			g, err := NewBoolean(Common{ID: "g"}, mode)
			require.NoError(t, err)

			ins := g.InputPorts()
			assert.Equal(t, mode.Arity(), ins.Len())
			for i := 0; i < ins.Len(); i++ {
				p, ok := ins.Get(BooleanInputPort(i))
				require.True(t, ok)
				assert.Equal(t, 1, p.Width())
			}
			assert.Equal(t, []string{PortBooleanOutput}, g.OutputPorts().IDs())
		})
	}
}

func TestNewUpCounterPorts(t *testing.T) {
	c, err := NewUpCounter(Common{ID: "c1", Enable: EnableOnActivateIn}, 3, CounterRollover)
	require.NoError(t, err)

	assert.Equal(t, KindUpCounter, c.Kind())
	assert.Equal(t, "upCounter", c.Type())
	assert.Equal(t, []string{PortCounterCount, PortCounterReset}, c.InputPorts().IDs())
	assert.Equal(t, []string{PortCounterOutput}, c.OutputPorts().IDs())
	assert.Equal(t, 3, c.Threshold())
	assert.Equal(t, CounterRollover, c.Mode())
}

func TestNewUpCounterRejectsNegativeThreshold(t *testing.T) {
	_, err := NewUpCounter(Common{ID: "c1"}, -1, CounterTrigger)
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidAttribute))
}

func TestNewStateOutputsFollowSymbolSet(t *testing.T) {
	s, err := NewState(Common{ID: "s"}, SymbolSet{
		{Port: "hit", Symbols: "[a-z]"},
		{Port: "digit", Symbols: "[0-9]"},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{PortStateInput}, s.InputPorts().IDs())
	assert.Equal(t, []string{"hit", "digit"}, s.OutputPorts().IDs())
	assert.True(t, s.Latched())
}

func TestNewStateRejectsDuplicateSymbolPort(t *testing.T) {
	_, err := NewState(Common{ID: "s"}, SymbolSet{
		{Port: "o", Symbols: "a"},
		{Port: "o", Symbols: "b"},
	}, false)
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.ErrCodeDuplicatePortID))
}

func TestReservedAttributesRejected(t *testing.T) {
	tests := []struct {
		name  string
		build func(Attributes) error
		key   string
	}{
		{"state symbolSet", func(a Attributes) error {
			_, err := NewState(Common{ID: "n", Attributes: a}, nil, false)
			return err
		}, AttrSymbolSet},
		{"hState latched", func(a Attributes) error {
			_, err := NewHState(Common{ID: "n", Attributes: a}, "a", false)
			return err
		}, AttrLatched},
		{"counter threshold", func(a Attributes) error {
			_, err := NewUpCounter(Common{ID: "n", Attributes: a}, 1, CounterHigh)
			return err
		}, AttrThreshold},
		{"boolean gateType", func(a Attributes) error {
			_, err := NewBoolean(Common{ID: "n", Attributes: a}, BooleanOr)
			return err
		}, AttrGateType},
		{"generic reportId", func(a Attributes) error {
			_, err := NewGeneric(Common{ID: "n", Attributes: a}, "lut", PortSet{}, PortSet{})
			return err
		}, AttrReportID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(Attributes{tt.key: "x"})
			require.Error(t, err)
			assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidAttribute), "got %v", err)
			assert.Equal(t, "n."+tt.key, merrors.GetSubject(err))
		})
	}
}

func TestNonReservedAttributesPassThrough(t *testing.T) {
	h, err := NewHState(Common{ID: "h", Attributes: Attributes{"comment": "keep me", "mode": "x"}}, "\\x00", false)
	require.NoError(t, err)

	attrs := h.Attributes()
	assert.Equal(t, "keep me", attrs["comment"])
	assert.Equal(t, "x", attrs["mode"], "mode is only reserved for counters")

	attrs["comment"] = "changed"
	assert.Equal(t, "keep me", h.Attributes()["comment"], "Attributes must return a copy")
}

func TestReportIDRequiresReport(t *testing.T) {
	_, err := NewHState(Common{ID: "h", ReportID: IntReportID(1)}, "a", false)
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidAttribute))

	h, err := NewHState(Common{ID: "h", Report: true, ReportID: IntReportID(1)}, "a", false)
	require.NoError(t, err)
	id, ok := h.ReportSettings().ID.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestInvalidEnumValuesRejected(t *testing.T) {
	_, err := NewHState(Common{ID: "h", Enable: EnableMode(99)}, "a", false)
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidEnumValue))

	_, err = NewBoolean(Common{ID: "b"}, BooleanMode(99))
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidEnumValue))

	_, err = NewUpCounter(Common{ID: "c"}, 1, CounterMode(-1))
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidEnumValue))

	h, _ := NewHState(Common{ID: "h"}, "a", false)
	assert.True(t, merrors.Is(h.SetReportEnable(ReportEnable(7)), merrors.ErrCodeInvalidEnumValue))
	_, set := h.ReportEnable()
	assert.False(t, set)
}

func TestNewGenericRejectsBuiltinType(t *testing.T) {
	_, err := NewGeneric(Common{ID: "g"}, "state", PortSet{}, PortSet{})
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidAttribute))

	_, err = NewGeneric(Common{ID: "g"}, "", PortSet{}, PortSet{})
	assert.True(t, merrors.Is(err, merrors.ErrCodeUnknownNodeType))
}

func TestEmptyNodeIDRejected(t *testing.T) {
	_, err := NewBoolean(Common{}, BooleanNot)
	assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidAttribute))
}

func TestUpCounterDocument(t *testing.T) {
	c, err := NewUpCounter(Common{
		ID:         "c1",
		Enable:     EnableOnStartAndActivateIn,
		Report:     true,
		ReportID:   StringReportID("42"),
		Attributes: Attributes{"zeta": 1, "alpha": true},
	}, 3, CounterTrigger)
	require.NoError(t, err)
	require.NoError(t, c.SetReportEnable(ReportOnLast))

	data, err := json.Marshal(c.Document())
	require.NoError(t, err)

	want := `{"id":"c1","type":"upCounter","enable":"onStartAndActivateIn","report":true,"reportEnable":"onLast",` +
		`"inputDefs":[{"portId":"count","width":1},{"portId":"reset","width":1}],` +
		`"outputDefs":[{"portId":"output","width":1,"activate":[]}],` +
		`"attributes":{"mode":"trigger","threshold":3,"reportId":"42","alpha":true,"zeta":1}}`
	assert.JSONEq(t, want, string(data))

	// Key order inside attributes is part of the contract.
	assert.Contains(t, string(data), `"attributes":{"mode":"trigger","threshold":3,"reportId":"42","alpha":true,"zeta":1}`)
}

func TestStateDocumentKeepsSymbolOrder(t *testing.T) {
	s, err := NewState(Common{ID: "s"}, SymbolSet{
		{Port: "z", Symbols: "z"},
		{Port: "a", Symbols: "a"},
	}, false)
	require.NoError(t, err)

	data, err := json.Marshal(s.Document().Attributes)
	require.NoError(t, err)
	assert.Equal(t, `{"symbolSet":{"z":"z","a":"a"},"latched":false}`, string(data))
}
