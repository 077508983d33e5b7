// Package network provides the in-memory model of an MNRL automata network:
// typed nodes connected through width-bounded ports.
//
// # Overview
//
// A [Network] owns its nodes in an id-keyed arena and records connections as
// (node, port) → (node, port) pairs. Nodes never point at each other, so the
// graph has no ownership cycles and serializes by walking the arena.
//
//	net := network.New("counter-demo")
//	c1, _ := network.NewUpCounter(network.Common{ID: "c1"}, 3, network.CounterTrigger)
//	b1, _ := network.NewBoolean(network.Common{ID: "b1"}, network.BooleanAnd)
//	_ = net.AddNode(c1)
//	_ = net.AddNode(b1)
//	_ = net.AddConnection("c1", "output", "b1", "in0")
//
// # Node Variants
//
// The taxonomy is closed:
//
//   - [Generic]: arbitrary element with caller-declared ports
//   - [State]: automaton state, one output per symbol-set entry
//   - [HState]: homogeneous state with a single shared symbol-set expression
//   - [UpCounter]: counter with fixed count/reset inputs and one output
//   - [Boolean]: logic gate whose input arity is derived from its mode
//
// Each variant reserves the attribute keys that carry its typed fields (see
// [ReservedKeys]). Passing a reserved key in [Common.Attributes] fails with
// INVALID_ATTRIBUTE, so every value has exactly one owner.
//
// # Enumerations
//
// [EnableMode], [ReportEnable], [CounterMode] and [BooleanMode] are closed
// sets with one canonical MNRL string per value. The Parse functions reject
// any other string with INVALID_ENUM_VALUE; there are no silent defaults.
//
// # Serialization
//
// [Network.Document] produces the wire shape of the network. Activation
// lists on output ports are derived from the connection list at that point
// and are never stored on nodes. Reading documents lives in package io.
//
// # Concurrency
//
// A Network is built by a single owner and is immutable by convention once
// complete. Independent networks share no mutable state.
package network
