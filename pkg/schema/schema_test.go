package schema

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

const validDoc = `{
  "id": "net",
  "nodes": [{
    "id": "c1", "type": "upCounter", "enable": "onActivateIn",
    "report": true, "reportEnable": "always",
    "inputDefs":  [{"portId": "count", "width": 1}, {"portId": "reset", "width": 1}],
    "outputDefs": [{"portId": "output", "width": 1,
                    "activate": [{"id": "b1", "portId": "in0"}]}],
    "attributes": {"mode": "trigger", "threshold": 3, "reportId": "42"}
  }]
}`

func mustDefault(t *testing.T) *JSONSchema {
	t.Helper()
	v, err := Default()
	require.NoError(t, err)
	return v
}

func TestValidateAcceptsDocument(t *testing.T) {
	tree, err := mustDefault(t).Validate([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, "net", tree.Get("id").String())
	assert.Equal(t, "upCounter", tree.Get("nodes.0.type").String())
	assert.Equal(t, "String", tree.Get("nodes.0.attributes.reportId").Type.String())
	assert.Equal(t, "b1", tree.Get("nodes.0.outputDefs.0.activate.0.id").String())
}

func TestValidateAcceptsEmptyNetwork(t *testing.T) {
	_, err := mustDefault(t).Validate([]byte(`{"id":"","nodes":[]}`))
	assert.NoError(t, err)
}

func TestValidateMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated", `{"id": "net", "nodes": [`},
		{"not json", `id: net`},
		{"empty", ``},
		{"trailing data", `{"id":"net","nodes":[]} {}`},
	}
	v := mustDefault(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, merrors.ErrCodeInvalidFormat, merrors.GetCode(err))
		})
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		pointer string
		keyword string
	}{
		{
			name:    "missing nodes",
			data:    `{"id":"net"}`,
			pointer: "",
			keyword: "required",
		},
		{
			name:    "nodes not an array",
			data:    `{"id":"net","nodes":{}}`,
			pointer: "/nodes",
			keyword: "type",
		},
		{
			name:    "unknown node member",
			data:    `{"id":"net","nodes":[{"id":"a","type":"state","enable":"always","report":false,"colour":"red"}]}`,
			pointer: "/nodes/0",
			keyword: "additionalProperties",
		},
		{
			name:    "missing enable",
			data:    `{"id":"net","nodes":[{"id":"a","type":"state","report":false}]}`,
			pointer: "/nodes/0",
			keyword: "required",
		},
		{
			name:    "empty node id",
			data:    `{"id":"net","nodes":[{"id":"","type":"state","enable":"always","report":false}]}`,
			pointer: "/nodes/0/id",
			keyword: "minLength",
		},
		{
			name:    "fractional reportId",
			data:    `{"id":"net","nodes":[{"id":"a","type":"state","enable":"always","report":true,"attributes":{"reportId":1.5}}]}`,
			pointer: "/nodes/0/attributes/reportId",
			keyword: "type",
		},
		{
			name:    "activation without port",
			data:    `{"id":"net","nodes":[{"id":"a","type":"x","enable":"always","report":false,"outputDefs":[{"portId":"o","width":1,"activate":[{"id":"b"}]}]}]}`,
			pointer: "/nodes/0/outputDefs/0/activate/0",
			keyword: "required",
		},
	}

	v := mustDefault(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, merrors.Is(err, merrors.ErrCodeSchemaViolation))

			var viol *Violation
			require.True(t, errors.As(err, &viol))
			assert.Equal(t, tt.pointer, viol.Pointer)
			assert.Equal(t, tt.keyword, viol.Keyword)
			assert.Equal(t, tt.pointer, merrors.GetSubject(err))
		})
	}
}

func TestValidateDoesNotCheckEnums(t *testing.T) {
	doc := `{"id":"net","nodes":[{"id":"a","type":"state","enable":"sometimes","report":false}]}`
	_, err := mustDefault(t).Validate([]byte(doc))
	assert.NoError(t, err)
}

func TestCompileCustomSchema(t *testing.T) {
	v, err := Compile("https://example.test/strict.json", []byte(`{"type":"object","required":["version"]}`))
	require.NoError(t, err)

	_, err = v.Validate([]byte(`{"id":"net","nodes":[]}`))
	assert.True(t, merrors.Is(err, merrors.ErrCodeSchemaViolation))

	_, err = v.Validate([]byte(`{"version":1}`))
	assert.NoError(t, err)
}

func TestCompileInvalidSchema(t *testing.T) {
	_, err := Compile("https://example.test/broken.json", []byte(`{"type":`))
	require.Error(t, err)
	assert.Equal(t, merrors.ErrCodeInternal, merrors.GetCode(err))
}

func TestDefaultConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Default()
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := v.Validate([]byte(validDoc)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestViolationError(t *testing.T) {
	v := &Violation{Pointer: "", Keyword: "required", Message: "missing properties: 'nodes'"}
	assert.Equal(t, `/: missing properties: 'nodes' (keyword "required")`, v.Error())
}
