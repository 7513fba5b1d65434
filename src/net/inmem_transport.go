package net

import (
	"fmt"
	"sync"
	"time"

	"github.com/mosaicnetworks/murmur/src/message"
)

// InmemTransport Implements the Transport interface, to allow nodes to be
// tested in-memory. Envelopes are routed by Dest to connected transports.
type InmemTransport struct {
	sync.RWMutex
	consumerCh chan message.Envelope
	localAddr  string
	peers      map[string]*InmemTransport
	timeout    time.Duration
	closed     bool
}

// NewInmemTransport is used to initialize a new transport.
func NewInmemTransport(addr string) *InmemTransport {
	return &InmemTransport{
		consumerCh: make(chan message.Envelope, 64),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
		timeout:    50 * time.Millisecond,
	}
}

// Consumer implements the Transport interface.
func (i *InmemTransport) Consumer() <-chan message.Envelope {
	return i.consumerCh
}

// LocalAddr implements the Transport interface.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// Send implements the Transport interface. It fails if Dest is not connected
// or if its queue stays full for longer than the timeout.
func (i *InmemTransport) Send(e message.Envelope) error {
	i.RLock()
	peer, ok := i.peers[e.Dest]
	closed := i.closed
	i.RUnlock()

	if closed {
		return ErrTransportShutdown
	}
	if !ok {
		return fmt.Errorf("failed to connect to peer: %v", e.Dest)
	}

	return peer.enqueue(e)
}

func (i *InmemTransport) enqueue(e message.Envelope) error {
	i.RLock()
	defer i.RUnlock()

	if i.closed {
		return fmt.Errorf("peer %v is shut down", i.localAddr)
	}

	select {
	case i.consumerCh <- e:
		return nil
	case <-time.After(i.timeout):
		return fmt.Errorf("enqueue to %v timed out", i.localAddr)
	}
}

// Connect is used to connect this transport to another transport for
// a given peer name. This allows for local routing.
func (i *InmemTransport) Connect(peer string, t Transport) {
	trans := t.(*InmemTransport)
	i.Lock()
	defer i.Unlock()
	i.peers[peer] = trans
}

// Disconnect is used to remove the ability to route to a given peer.
func (i *InmemTransport) Disconnect(peer string) {
	i.Lock()
	defer i.Unlock()
	delete(i.peers, peer)
}

// DisconnectAll is used to remove all routes to peers.
func (i *InmemTransport) DisconnectAll() {
	i.Lock()
	defer i.Unlock()
	i.peers = make(map[string]*InmemTransport)
}

// Close is used to permanently disable the transport. The consumer channel
// is closed once no send is in progress.
func (i *InmemTransport) Close() error {
	i.Lock()
	defer i.Unlock()

	if !i.closed {
		i.closed = true
		i.peers = make(map[string]*InmemTransport)
		close(i.consumerCh)
	}
	return nil
}

// Listen is an empty function as there is no need to defer
// initialisation of the InMem service
func (i *InmemTransport) Listen() {
}

// ConnectAll connects every transport to every other, keyed by LocalAddr.
func ConnectAll(trans ...*InmemTransport) {
	for _, a := range trans {
		for _, b := range trans {
			if a != b {
				a.Connect(b.LocalAddr(), b)
			}
		}
	}
}
