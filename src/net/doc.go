// Package net implements the transports that carry Envelopes between a node
// and the rest of the cluster.
//
// There are two implementations of the Transport interface:
//
// - Stdio: one JSON object per line on a reader/writer pair. This is what a
// node uses in production, where the test harness owns the process's stdin
// and stdout and routes every message itself.
//
// - Inmem: in-memory transport used only for testing. Transports are wired
// together with Connect and routed by Dest, which makes it easy to build
// clusters and to cut links to simulate partitions.
//
// Stdio
//
// Lines that cannot be decoded (invalid JSON, unknown body type, missing
// field) are logged and dropped; they never reach the node. The consumer
// channel is closed when the input ends, which is how a node learns that it
// should stop.
package net
