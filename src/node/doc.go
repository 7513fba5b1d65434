// Package node implements a single participant of a simulated cluster.
//
// Core is the reactive part: it holds the node's state and turns each inbound
// message into the messages to send back. It supports echo, unique id
// generation, and broadcast of integer values across the topology given by
// the harness. Core never blocks and does no locking.
//
// Node runs a Core. It reads from a net.Transport and from a ControlTimer and
// serializes both event sources into the Core under a single lock.
//
// Broadcast
//
// A value is forwarded only the first time it is seen, to every neighbour
// except the node it came from. Each forward creates an obligation in the
// Ledger, cleared when the neighbour acknowledges it with broadcast_ok. On
// every timer tick all outstanding obligations are resent with fresh message
// ids. The Ledger remembers the last RetryWindow ids of each obligation, so an
// acknowledgement for an earlier send still counts.
//
// Errors
//
// An init_ok message is never valid input. Core reports it as a
// ProtocolViolation and Node stops with that error.
package node
