package network

import (
	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// Fixed port ids of an up-counter.
const (
	PortCounterCount  = "count"
	PortCounterReset  = "reset"
	PortCounterOutput = "output"
)

// UpCounter counts activations on its count port and signals on its output
// port according to its mode once the threshold is reached.
type UpCounter struct {
	nodeBase
	threshold int
	mode      CounterMode
}

// NewUpCounter creates a counter with inputs count(1), reset(1) and output
// output(1). The threshold must not be negative.
func NewUpCounter(c Common, threshold int, mode CounterMode) (*UpCounter, error) {
	if !mode.valid() {
		return nil, merrors.New(merrors.ErrCodeInvalidEnumValue, "node %q: invalid counter mode %d", c.ID, int(mode)).
			WithSubject(c.ID)
	}
	if threshold < 0 {
		return nil, merrors.New(merrors.ErrCodeInvalidAttribute, "node %q: threshold must not be negative, got %d", c.ID, threshold).
			WithSubject(c.ID + "." + AttrThreshold)
	}
	b, err := newBase(c, KindUpCounter,
		unitPorts(PortCounterCount, PortCounterReset),
		unitPorts(PortCounterOutput))
	if err != nil {
		return nil, err
	}
	return &UpCounter{nodeBase: b, threshold: threshold, mode: mode}, nil
}

// Kind returns KindUpCounter.
func (u *UpCounter) Kind() Kind { return KindUpCounter }

// Type returns "upCounter".
func (u *UpCounter) Type() string { return KindUpCounter.String() }

// Threshold returns the count at which the counter fires.
func (u *UpCounter) Threshold() int { return u.threshold }

// Mode returns the counter mode.
func (u *UpCounter) Mode() CounterMode { return u.mode }

// Document returns the node in its wire shape.
func (u *UpCounter) Document() NodeDocument {
	return u.document(u.Type(), AttributeList{
		{Key: AttrMode, Value: u.mode.String()},
		{Key: AttrThreshold, Value: u.threshold},
	})
}
