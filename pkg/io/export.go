package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/network"
)

// WriteJSON encodes a network as an indented MNRL document and writes it
// to w. Activation lists are derived from the network's connections.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(net *network.Network, w io.Writer) error {
	if net == nil {
		return merrors.New(merrors.ErrCodeInvalidInput, "nil network")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(net.Document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the document [WriteJSON] would write.
func Marshal(net *network.Network) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(net, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes a network to an MNRL file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(net, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
