package network

import (
	"bytes"
	"encoding/json"
)

// Document is the wire shape of a whole MNRL network.
type Document struct {
	ID    string         `json:"id"`
	Nodes []NodeDocument `json:"nodes"`
}

// NodeDocument is the wire shape of a single node.
type NodeDocument struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Enable       string        `json:"enable"`
	Report       bool          `json:"report"`
	ReportEnable string        `json:"reportEnable,omitempty"`
	InputDefs    []InputDef    `json:"inputDefs"`
	OutputDefs   []OutputDef   `json:"outputDefs"`
	Attributes   AttributeList `json:"attributes"`
}

// InputDef declares an input port.
type InputDef struct {
	PortID string `json:"portId"`
	Width  int    `json:"width"`
}

// OutputDef declares an output port and the input ports it activates.
type OutputDef struct {
	PortID   string       `json:"portId"`
	Width    int          `json:"width"`
	Activate []Activation `json:"activate"`
}

// Activation names a destination node and input port.
type Activation struct {
	ID     string `json:"id"`
	PortID string `json:"portId"`
}

// Attribute is one key/value pair of an [AttributeList].
type Attribute struct {
	Key   string
	Value any
}

// AttributeList is a JSON object whose key order is significant. MNRL keeps
// typed fields and pass-through attributes in the same object, so the
// serializer emits typed fields first in a fixed order.
type AttributeList []Attribute

// Get returns the value stored under key.
func (l AttributeList) Get(key string) (any, bool) {
	for _, a := range l {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the list as a JSON object in list order.
func (l AttributeList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
