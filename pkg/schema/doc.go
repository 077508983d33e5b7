// Package schema gates MNRL documents with a JSON schema before they are
// translated into a network.
//
// The [Validator] interface is the only thing the loader depends on. The
// default implementation, [JSONSchema], compiles the schema embedded in this
// package (see [Embedded]) with santhosh-tekuri/jsonschema and hands back a
// [Tree] built on tidwall/gjson.
//
// The schema checks document structure only: required members, JSON types
// and unknown members. Enumerated values, per-variant attributes and
// cross-node references are invariants of the model and are checked by
// package io while translating.
//
// A failing document yields SCHEMA_VIOLATION wrapping a [*Violation] that
// carries the document pointer and the violated keyword:
//
//	_, err := v.Validate(data)
//	var viol *schema.Violation
//	if errors.As(err, &viol) {
//	    fmt.Println(viol.Pointer, viol.Keyword) // /nodes/0 required
//	}
package schema
