package net

import (
	"errors"

	"github.com/mosaicnetworks/murmur/src/message"
)

var (
	// ErrTransportShutdown is returned when operations on a transport are
	// invoked after it's been terminated.
	ErrTransportShutdown = errors.New("transport shutdown")
)

// Transport provides an interface for transports that carry Envelopes
// between a node and the rest of the cluster.
type Transport interface {

	// Listen starts reading inbound Envelopes. It may block until the input
	// ends, so callers usually run it in its own goroutine.
	Listen()

	// Consumer returns the channel of inbound Envelopes. The channel is
	// closed when there is no more input.
	Consumer() <-chan message.Envelope

	// Send delivers an Envelope to its Dest.
	Send(e message.Envelope) error

	// LocalAddr is used to return our local address
	LocalAddr() string

	// Close permanently closes a transport, stopping
	// any associated goroutines and freeing other resources.
	Close() error
}
