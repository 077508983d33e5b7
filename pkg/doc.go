// Package pkg provides the core libraries for working with MNRL automata
// networks.
//
// # Overview
//
// MNRL describes an automaton as a network of typed nodes (states,
// homogeneous states, up-counters, boolean gates and generic elements)
// wired together through width-bounded ports. The pkg directory is
// organized into three areas:
//
//  1. Model - [network], [errors]
//  2. Documents - [schema], [io]
//  3. Tooling - [pipeline], [cache], [observability], [render/nodelink],
//     [config], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	MNRL JSON document
//	         ↓
//	    [schema] package (syntax + JSON schema check)
//	         ↓
//	    [io] package (two-pass translation: nodes, then connections)
//	         ↓
//	    [network] package (typed in-memory graph)
//	         ↓
//	    canonical JSON / DOT / SVG / PNG output
//
// # Quick Start
//
// Load, inspect and save a document:
//
//	import (
//	    "os"
//	    mnrlio "github.com/matzehuels/mnrl/pkg/io"
//	)
//
//	net, err := mnrlio.ImportJSON("counter.mnrl")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(net.NodeCount(), net.ConnectionCount())
//	_ = mnrlio.WriteJSON(net, os.Stdout)
//
// Build a network in code:
//
//	net := network.New("demo")
//	c1, _ := network.NewUpCounter(network.Common{ID: "c1"}, 3, network.CounterTrigger)
//	b1, _ := network.NewBoolean(network.Common{ID: "b1"}, network.BooleanAnd)
//	_ = net.AddNode(c1)
//	_ = net.AddNode(b1)
//	_ = net.AddConnection("c1", "output", "b1", "in0")
//
// # Main Packages
//
// [network] - Ports, the closed node taxonomy, enumerations and the
// arena-based graph. Activation lists are derived from connections at
// serialization time.
//
// [schema] - The embedded MNRL JSON schema (draft-07) and the [schema.Validator]
// interface. Validation returns a gjson-backed tree that preserves document
// order and raw number/string typing.
//
// [io] - Document translator. Loading is a strict state machine
// (nodes, then connections) so no partially built network escapes.
//
// [errors] - Code-based structured errors carrying the offending
// identifier.
//
// ## Tooling
//
// [pipeline] - validate → load → normalize/render runner with a
// content-addressed cache, shared by the CLI and the HTTP service.
//
// [cache] - Cache backends: null, file and Redis.
//
// [observability] - Hooks for loads, cache and HTTP traffic plus a
// Prometheus implementation.
//
// [render/nodelink] - Graphviz node-link diagrams with optional port
// records.
//
// [config] - TOML configuration with struct validation.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/io/...       # Specific package
//	go test -run Example       # Examples only
//
// [network]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/network
// [errors]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/errors
// [schema]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/schema
// [io]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/config
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mnrl/pkg/buildinfo
package pkg
