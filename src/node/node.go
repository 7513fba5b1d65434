package node

import (
	"strconv"
	"sync"
	"time"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/sirupsen/logrus"
)

// Node drives a Core. It feeds it the Envelopes read from the transport and
// the ticks of the retry timer, one at a time, and sends whatever it returns.
type Node struct {
	state

	conf   *Config
	logger *logrus.Entry

	core     *Core
	coreLock sync.Mutex

	trans net.Transport
	netCh <-chan message.Envelope

	metrics *telemetry.Metrics

	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	controlTimer *ControlTimer

	start      time.Time
	received   int
	sent       int
	sendErrors int
}

// NewNode is a factory method that returns a Node instance
func NewNode(conf *Config, trans net.Transport) *Node {
	logger := logrus.NewEntry(conf.Logger).WithField("addr", trans.LocalAddr())

	controlTimer := NewFixedControlTimer()
	if conf.RetryJitter > 0 {
		controlTimer = NewRandomControlTimer(conf.RetryJitter)
	}

	node := Node{
		conf:         conf,
		logger:       logger,
		core:         NewCore(common.NewSequence(), conf.RetryWindow, logger),
		trans:        trans,
		netCh:        trans.Consumer(),
		shutdownCh:   make(chan struct{}),
		controlTimer: controlTimer,
		start:        time.Now(),
	}

	return &node
}

// SetMetrics makes the node report to m. It must be called before Run.
func (n *Node) SetMetrics(m *telemetry.Metrics) {
	n.metrics = m
}

// RunAsync calls Run as a separate thread
func (n *Node) RunAsync() {
	go func() {
		if err := n.Run(); err != nil {
			n.logger.WithError(err).Error("Node stopped")
		}
	}()
}

// Run invokes the main loop of the node. It returns nil when the input ends
// or the node is shut down, and the error that stopped it otherwise.
func (n *Node) Run() error {
	go n.controlTimer.Run(n.conf.RetryInterval)

	n.logger.WithField("retry_interval", n.conf.RetryInterval).Debug("Run loop")

	for {
		select {
		case env, ok := <-n.netCh:
			if !ok {
				n.logger.Debug("Input closed")
				n.Shutdown()
				return nil
			}
			if err := n.processMessage(env); err != nil {
				n.logger.WithError(err).Error("Fatal error processing message")
				n.Shutdown()
				return err
			}
		case <-n.controlTimer.tickCh:
			n.retry()
			n.controlTimer.Reset(n.conf.RetryInterval)
		case <-n.shutdownCh:
			return nil
		}
	}
}

func (n *Node) processMessage(env message.Envelope) error {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	n.received++
	n.metrics.MessageReceived(env.Type())

	matched, unknown := n.core.AcksMatched(), n.core.AcksUnknown()

	out, err := n.core.ProcessMessage(env)
	if err != nil {
		return err
	}

	n.metrics.Acks(telemetry.AckMatched, n.core.AcksMatched()-matched)
	n.metrics.Acks(telemetry.AckUnknown, n.core.AcksUnknown()-unknown)

	n.send(out)
	n.updateGauges()
	return nil
}

func (n *Node) retry() {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	out := n.core.PendingBroadcasts()
	n.metrics.Retries(len(out))

	n.send(out)
	n.updateGauges()
}

// send must be called with coreLock held.
func (n *Node) send(out []message.Envelope) {
	for _, e := range out {
		if err := n.trans.Send(e); err != nil {
			n.sendErrors++
			n.logger.WithFields(logrus.Fields{
				"dest":  e.Dest,
				"type":  e.Type(),
				"error": err,
			}).Warn("Failed to send message")
			continue
		}
		n.sent++
		n.metrics.MessageSent(e.Type())
	}
}

func (n *Node) updateGauges() {
	n.metrics.SetPending(n.core.Pending())
	n.metrics.SetSeen(n.core.SeenCount())
}

// Shutdown stops the run loop and closes the transport. It is safe to call
// more than once.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.logger.Debug("Shutdown")

		n.setState(Shutdown)

		close(n.shutdownCh)

		n.controlTimer.Shutdown()

		n.trans.Close()
	})
}

// GetState ...
func (n *Node) GetState() State {
	return n.getState()
}

// GetStats returns a snapshot of the node's counters. It is safe to call
// from other goroutines.
func (n *Node) GetStats() map[string]string {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()

	timeElapsed := time.Since(n.start)
	messagesPerSecond := float64(n.received) / timeElapsed.Seconds()

	s := map[string]string{
		"id":                  n.core.NodeID(),
		"state":               n.getState().String(),
		"sequence":            strconv.Itoa(n.core.Sequence()),
		"seen_values":         strconv.Itoa(n.core.SeenCount()),
		"pending_obligations": strconv.Itoa(n.core.Pending()),
		"in_flight":           strconv.Itoa(n.core.InFlight()),
		"retries":             strconv.Itoa(n.core.Retries()),
		"acks_matched":        strconv.Itoa(n.core.AcksMatched()),
		"acks_unknown":        strconv.Itoa(n.core.AcksUnknown()),
		"messages_received":   strconv.Itoa(n.received),
		"messages_sent":       strconv.Itoa(n.sent),
		"send_errors":         strconv.Itoa(n.sendErrors),
		"messages_per_second": strconv.FormatFloat(messagesPerSecond, 'f', 2, 64),
	}
	return s
}

// NodeID ...
func (n *Node) NodeID() string {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.NodeID()
}
