// Package io reads and writes MNRL documents.
//
// # Overview
//
// Loading is a pipeline of two stages:
//
//  1. A [schema.Validator] checks the raw bytes and yields a JSON tree.
//  2. A [Translator] rebuilds the network from the tree.
//
// The translator makes two passes. The node pass creates every node, in
// document order, from its "type", "enable", "report", optional
// "reportEnable" and "attributes". The connection pass then walks every
// output definition's "activate" list and adds one connection per entry.
// Because all nodes exist before any connection is added, activations may
// point forward in the document and networks may contain cycles.
//
// # Import
//
//	net, err := io.ImportJSON("counter.mnrl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [ReadJSON], [ImportJSON] and [Unmarshal] use the schema embedded in
// package schema. Use a [Loader] to gate documents with a different
// validator. Every error carries a code from package errors and, where one
// exists, the offending node id, "node.port" pair or field in its subject.
// On error no network is returned.
//
// # Attributes
//
// Each variant owns some attribute keys as typed fields (see
// [network.ReservedKeys]); the loader parses those and hands every other key
// through untouched as a pass-through attribute. Numbers in pass-through
// values are kept as json.Number so their literal form survives. A string
// "reportId" stays a string and an integer one stays an integer.
//
// # Export
//
//	err := io.ExportJSON(net, "out.mnrl")
//
// The writer emits the node fields in a fixed order, typed attributes first
// followed by pass-through attributes sorted by key. Nested objects inside
// pass-through values are written with sorted keys. Port definitions of
// built-in variants are always the derived ones. Apart from these
// normalizations, load followed by save reproduces the document, and save
// followed by load reproduces the network.
//
// # Concurrency
//
// Loading creates an independent network per call, so documents may be
// loaded concurrently. A [Translator] itself is single-owner.
package io
