// Package nodewire is a client-side protocol library for an IoT
// device-management platform built on NATS.
//
// The platform models everything (devices, users, groups) as a
// hierarchical graph of nodes connected by edges. The atomic unit of
// state and telemetry is the point: a compact typed key/value record
// with a timestamp. This module implements the client half of the
// node/edge/point protocol: subject conventions, request/reply tree
// retrieval and mutation, recursive descendant traversal with per-call
// caching, and lazily-decoded telemetry subscriptions.
//
// # Packages
//
//   - wire: the protobuf wire schema (Point, Points, Node,
//     NodesRequest, Message, Notification) with hand-maintained
//     codecs on protowire
//   - point: native Point/Points types and the wire codec rules
//   - node: NodeEdge and the tree-reply decoder
//   - message: user message and notification envelopes
//   - client: the protocol client (get, send, subscribe, traversal)
//   - natsclient: NATS connection management
//   - errors: classified error handling (caller/protocol/transport)
//   - metric: Prometheus instrumentation
//   - config: YAML configuration for the CLI
//
// # Data flow
//
//	caller → client.Client → (point codec, transport request)
//	       → node.DecodeNodesRequest → traversal → caller
//
// Telemetry flows the other way: a NATS subscription feeds a decode
// goroutine which yields points on a channel until the stream is
// closed.
//
// This module is a client only. It is not a server or a broker, and it
// makes no storage or authorization decisions; those live behind the
// subjects it calls.
package nodewire
