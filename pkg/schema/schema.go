package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// Version is the MNRL schema version embedded in this package.
const Version = "1.0"

// URL identifies the embedded schema.
const URL = "https://github.com/matzehuels/mnrl/schema/mnrl-1.0.json"

//go:embed mnrl-schema.json
var embedded []byte

// Embedded returns a copy of the embedded schema document.
func Embedded() []byte { return bytes.Clone(embedded) }

// Validator gates raw documents before translation. Implementations return
// the validated document as a [Tree], or an error with code
// SCHEMA_VIOLATION (document does not satisfy the schema) or INVALID_FORMAT
// (document is not JSON).
type Validator interface {
	Validate(data []byte) (Tree, error)
}

// Tree is a validated JSON document. Object members are visited in document
// order and values keep their JSON type, so a string "42" and a number 42
// remain distinguishable.
type Tree struct {
	root gjson.Result
}

// NewTree wraps data without validating it. It is meant for Validator
// implementations; callers should obtain trees from a Validator.
func NewTree(data []byte) Tree { return Tree{root: gjson.ParseBytes(data)} }

// Root returns the document root.
func (t Tree) Root() gjson.Result { return t.root }

// Get returns the value at a gjson path such as "nodes.0.id".
func (t Tree) Get(path string) gjson.Result { return t.root.Get(path) }

// Violation describes the first failing schema check.
type Violation struct {
	// Pointer is the JSON pointer of the offending document value ("" is the root).
	Pointer string
	// Keyword is the violated schema keyword, e.g. "required" or "type".
	Keyword string
	// SchemaLocation is the keyword's location within the schema.
	SchemaLocation string
	// Message is the validator's description of the failure.
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	ptr := v.Pointer
	if ptr == "" {
		ptr = "/"
	}
	return fmt.Sprintf("%s: %s (keyword %q)", ptr, v.Message, v.Keyword)
}

// JSONSchema validates documents against a compiled JSON schema.
// It is safe for concurrent use.
type JSONSchema struct {
	schema *jsonschema.Schema
}

// Compile compiles a schema document identified by url.
func Compile(url string, doc []byte) (*JSONSchema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeInternal, err, "load schema %s", url)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeInternal, err, "compile schema %s", url)
	}
	return &JSONSchema{schema: s}, nil
}

var (
	defaultOnce   sync.Once
	defaultSchema *JSONSchema
	defaultErr    error
)

// Default returns the validator for the embedded MNRL schema, compiling it
// on first use.
func Default() (*JSONSchema, error) {
	defaultOnce.Do(func() {
		defaultSchema, defaultErr = Compile(URL, embedded)
	})
	return defaultSchema, defaultErr
}

// Validate decodes data and checks it against the schema.
func (s *JSONSchema) Validate(data []byte) (Tree, error) {
	v, err := decode(data)
	if err != nil {
		return Tree{}, err
	}
	if err := s.schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return Tree{}, merrors.Wrap(merrors.ErrCodeInternal, err, "schema validation")
		}
		viol := violation(ve)
		return Tree{}, merrors.Wrap(merrors.ErrCodeSchemaViolation, viol, "document does not match MNRL schema %s", Version).
			WithSubject(viol.Pointer)
	}
	return NewTree(data), nil
}

// decode parses exactly one JSON value, keeping number literals intact.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, merrors.Wrap(merrors.ErrCodeInvalidFormat, err, "decode document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, merrors.New(merrors.ErrCodeInvalidFormat, "decode document: trailing data after JSON value")
	}
	return v, nil
}

// violation reduces a validation error tree to its first leaf, which names
// the concrete keyword that failed.
func violation(ve *jsonschema.ValidationError) *Violation {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	keyword := leaf.KeywordLocation
	if i := strings.LastIndex(keyword, "/"); i >= 0 {
		keyword = keyword[i+1:]
	}
	return &Violation{
		Pointer:        leaf.InstanceLocation,
		Keyword:        keyword,
		SchemaLocation: leaf.KeywordLocation,
		Message:        leaf.Message,
	}
}

var _ Validator = (*JSONSchema)(nil)
