package node

import (
	"fmt"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

// UnknownNode is the node id used until an init message assigns one.
const UnknownNode = "UNKNOWN_NODE"

// Core is the reactive part of a node. It turns one inbound Envelope into the
// Envelopes to send back, and a timer tick into retries. Core does no locking;
// callers must serialize access to it.
type Core struct {

	// nodeID is this node's identifier, assigned by init. It is the src of
	// every outbound Envelope.
	nodeID string

	// seq allocates every outbound msg_id and the suffix of generated ids.
	seq *common.Sequence

	// seen holds every broadcast value this node has observed.
	seen *common.ValueSet

	topology *Topology
	ledger   *Ledger

	retries     int
	acksMatched int
	acksUnknown int

	logger *logrus.Entry
}

// NewCore ...
func NewCore(seq *common.Sequence, retryWindow int, logger *logrus.Entry) *Core {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &Core{
		nodeID:   UnknownNode,
		seq:      seq,
		seen:     common.NewValueSet(),
		topology: NewTopology(),
		ledger:   NewLedger(seq, retryWindow),
		logger:   logger,
	}
}

// ProcessMessage handles one inbound Envelope. The returned Envelopes must be
// sent in order. A non-nil error is always fatal for the node.
func (c *Core) ProcessMessage(in message.Envelope) ([]message.Envelope, error) {
	c.logger.WithFields(logrus.Fields{
		"src":  in.Src,
		"type": in.Type(),
	}).Debug("ProcessMessage")

	switch body := in.Body.(type) {
	case message.Init:
		return c.processInit(in.Src, body), nil
	case message.InitOk:
		c.logger.WithField("src", in.Src).Error("Received init_ok")
		return nil, NewError(ProtocolViolation, body.Type(), in.Src)
	case message.Echo:
		return c.reply(in.Src, message.EchoOk{
			MsgID:     c.seq.Next(),
			InReplyTo: body.MsgID,
			Echo:      body.Echo,
		}), nil
	case message.Generate:
		s := c.seq.Next()
		return c.reply(in.Src, message.GenerateOk{
			MsgID:     s,
			InReplyTo: body.MsgID,
			ID:        fmt.Sprintf("%s-%d", c.nodeID, s),
		}), nil
	case message.Broadcast:
		return c.processBroadcast(in.Src, body), nil
	case message.BroadcastOk:
		c.processBroadcastOk(in.Src, body)
		return nil, nil
	case message.Read:
		return c.reply(in.Src, message.ReadOk{
			MsgID:     c.seq.Next(),
			InReplyTo: body.MsgID,
			Messages:  c.seen.Values(),
		}), nil
	case message.Topology:
		c.topology.Replace(body.Topology)
		c.logger.WithField("neighbours", c.topology.Neighbours(c.nodeID)).Debug("Topology replaced")
		return c.reply(in.Src, message.TopologyOk{
			MsgID:     c.seq.Next(),
			InReplyTo: body.MsgID,
		}), nil
	case message.EchoOk, message.GenerateOk, message.ReadOk, message.TopologyOk:
		return nil, nil
	default:
		return nil, NewError(UnknownPayload, in.Type(), in.Src)
	}
}

// PendingBroadcasts resends every unacknowledged broadcast. It is called on
// each retry tick.
func (c *Core) PendingBroadcasts() []message.Envelope {
	out := c.ledger.Flush(c.nodeID)
	c.retries += len(out)
	if len(out) > 0 {
		c.logger.WithField("count", len(out)).Debug("Resending pending broadcasts")
	}
	return out
}

func (c *Core) processInit(src string, body message.Init) []message.Envelope {
	if c.nodeID != UnknownNode {
		c.logger.WithFields(logrus.Fields{
			"old": c.nodeID,
			"new": body.NodeID,
		}).Warn("Node id re-assigned by a second init")
	}

	c.nodeID = body.NodeID
	c.logger = c.logger.WithField("this_id", c.nodeID)
	c.logger.WithField("node_ids", body.NodeIDs).Debug("Initialized")

	return []message.Envelope{
		message.NewEnvelope(c.nodeID, src, message.InitOk{InReplyTo: body.MsgID}),
	}
}

func (c *Core) processBroadcast(src string, body message.Broadcast) []message.Envelope {
	out := c.reply(src, message.BroadcastOk{
		MsgID:     c.seq.Next(),
		InReplyTo: body.MsgID,
	})

	if !c.seen.Add(body.Message) {
		return out
	}

	for _, peer := range c.topology.Neighbours(c.nodeID) {
		if peer == src || peer == c.nodeID {
			continue
		}
		out = append(out, c.ledger.Register(c.nodeID, peer, body.Message))
	}

	return out
}

func (c *Core) processBroadcastOk(src string, body message.BroadcastOk) {
	ob, ok := c.ledger.OnAck(body.InReplyTo)
	if !ok {
		c.acksUnknown++
		c.logger.WithFields(logrus.Fields{
			"src":         src,
			"in_reply_to": body.InReplyTo,
		}).Debug("Ack does not match a pending broadcast")
		return
	}

	c.acksMatched++
	c.logger.WithFields(logrus.Fields{
		"peer":  ob.Peer,
		"value": ob.Value,
	}).Debug("Broadcast acknowledged")
}

func (c *Core) reply(dest string, body message.Payload) []message.Envelope {
	return []message.Envelope{message.NewEnvelope(c.nodeID, dest, body)}
}

// NodeID ...
func (c *Core) NodeID() string {
	return c.nodeID
}

// Sequence returns the last id allocated by this node.
func (c *Core) Sequence() int {
	return c.seq.Current()
}

// SeenCount ...
func (c *Core) SeenCount() int {
	return c.seen.Len()
}

// Pending returns the number of obligations awaiting an ack.
func (c *Core) Pending() int {
	return c.ledger.Pending()
}

// InFlight ...
func (c *Core) InFlight() int {
	return c.ledger.InFlight()
}

// IsPending ...
func (c *Core) IsPending(peer string, value int) bool {
	return c.ledger.IsPending(peer, value)
}

// Retries returns the number of Broadcasts resent by PendingBroadcasts.
func (c *Core) Retries() int {
	return c.retries
}

// AcksMatched ...
func (c *Core) AcksMatched() int {
	return c.acksMatched
}

// AcksUnknown ...
func (c *Core) AcksUnknown() int {
	return c.acksUnknown
}
