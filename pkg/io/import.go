package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/network"
	"github.com/matzehuels/mnrl/pkg/schema"
)

// Loader validates documents with a [schema.Validator] and translates them
// into networks. The zero value uses [schema.Default].
type Loader struct {
	Validator schema.Validator
}

// NewLoader returns a loader that gates documents with v.
func NewLoader(v schema.Validator) *Loader {
	return &Loader{Validator: v}
}

func (l *Loader) validator() (schema.Validator, error) {
	if l != nil && l.Validator != nil {
		return l.Validator, nil
	}
	return schema.Default()
}

// Load validates data and translates it into a network.
//
// Load returns an error if:
//   - data is not JSON (INVALID_FORMAT)
//   - data does not satisfy the schema (SCHEMA_VIOLATION)
//   - a node is malformed (MISSING_FIELD, UNKNOWN_NODE_TYPE,
//     INVALID_ENUM_VALUE, INVALID_ATTRIBUTE, INVALID_PORT, DUPLICATE_PORT_ID)
//   - two nodes share an id (DUPLICATE_ID)
//   - an activation names a missing node or port (UNKNOWN_ID, UNKNOWN_PORT)
//
// No network is returned alongside an error.
func (l *Loader) Load(data []byte) (*network.Network, error) {
	v, err := l.validator()
	if err != nil {
		return nil, err
	}
	tree, err := v.Validate(data)
	if err != nil {
		return nil, err
	}
	return Translate(tree)
}

// Read reads all of r and loads it. Read does not close r.
func (l *Loader) Read(r io.Reader) (*network.Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return l.Load(data)
}

// Import loads the document at path. A missing file fails with
// FILE_NOT_FOUND.
func (l *Loader) Import(path string) (*network.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, merrors.Wrap(merrors.ErrCodeFileNotFound, err, "open %s", path).WithSubject(path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	net, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return net, nil
}

// ReadJSON loads an MNRL document from r using the embedded schema.
// See [Loader.Load] for the errors it reports.
//
// The returned network is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*network.Network, error) {
	return (&Loader{}).Read(r)
}

// ImportJSON loads the MNRL document at path using the embedded schema.
func ImportJSON(path string) (*network.Network, error) {
	return (&Loader{}).Import(path)
}

// Unmarshal loads an MNRL document held in memory using the embedded schema.
func Unmarshal(data []byte) (*network.Network, error) {
	return (&Loader{}).Load(data)
}
