package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

func TestNewPort(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		width   int
		wantErr bool
	}{
		{"unit width", "i", 1, false},
		{"wide", "data", 8, false},
		{"zero width", "i", 0, true},
		{"negative width", "i", -3, true},
		{"empty id", "", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPort(tt.id, tt.width)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, merrors.Is(err, merrors.ErrCodeInvalidPort), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, p.ID())
			assert.Equal(t, tt.width, p.Width())
		})
	}
}

func TestNewPortSetRejectsDuplicates(t *testing.T) {
	a, _ := NewPort("a", 1)
	b, _ := NewPort("b", 2)
	a2, _ := NewPort("a", 4)

	_, err := NewPortSet(a, b, a2)
	require.Error(t, err)
	assert.True(t, merrors.Is(err, merrors.ErrCodeDuplicatePortID))
	assert.Equal(t, "a", merrors.GetSubject(err))
}

func TestPortSetPreservesOrder(t *testing.T) {
	z, _ := NewPort("z", 1)
	a, _ := NewPort("a", 1)
	m, _ := NewPort("m", 3)

	s, err := NewPortSet(z, a, m)
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, s.IDs())
	assert.Equal(t, 3, s.Len())

	got, ok := s.Get("m")
	require.True(t, ok)
	assert.Equal(t, 3, got.Width())
	assert.False(t, s.Has("q"))

	ports := s.Ports()
	ports[0] = m
	assert.Equal(t, "z", s.IDs()[0], "Ports must return a copy")
}

func TestEmptyPortSet(t *testing.T) {
	var s PortSet
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("i"))
	assert.Empty(t, s.IDs())
}
