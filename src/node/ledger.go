package node

import (
	"sort"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
)

// DefaultRetryWindow is the number of in-flight message ids remembered per
// obligation when none is configured.
const DefaultRetryWindow = 16

// Obligation is a broadcast value that still has to be acknowledged by a
// peer.
type Obligation struct {
	Peer  string
	Value int
}

type obligationEntry struct {
	// ids of the Broadcasts sent for this obligation, oldest first
	ids []int
}

// Ledger tracks outstanding delivery obligations and correlates
// acknowledgements with them. Every send for an obligation gets a fresh msg_id
// from the shared Sequence. The last window ids of an obligation are kept, so
// a late ack for an earlier send still clears it.
type Ledger struct {
	seq         *common.Sequence
	window      int
	pending     map[Obligation]*obligationEntry
	correlation map[int]Obligation
}

// NewLedger ...
func NewLedger(seq *common.Sequence, window int) *Ledger {
	if window <= 0 {
		window = DefaultRetryWindow
	}
	return &Ledger{
		seq:         seq,
		window:      window,
		pending:     make(map[Obligation]*obligationEntry),
		correlation: make(map[int]Obligation),
	}
}

// Register records the obligation to deliver value to peer and returns the
// first Broadcast for it.
func (l *Ledger) Register(src, peer string, value int) message.Envelope {
	ob := Obligation{Peer: peer, Value: value}
	if _, ok := l.pending[ob]; !ok {
		l.pending[ob] = &obligationEntry{}
	}
	return l.send(src, ob)
}

// OnAck resolves an acknowledgement. It returns the cleared obligation, or
// false if inReplyTo does not correlate with any outstanding send.
func (l *Ledger) OnAck(inReplyTo int) (Obligation, bool) {
	ob, ok := l.correlation[inReplyTo]
	if !ok {
		return Obligation{}, false
	}

	if entry, ok := l.pending[ob]; ok {
		for _, id := range entry.ids {
			delete(l.correlation, id)
		}
		delete(l.pending, ob)
	}
	delete(l.correlation, inReplyTo)

	return ob, true
}

// Flush resends every pending obligation, ordered by peer then value.
func (l *Ledger) Flush(src string) []message.Envelope {
	obs := make([]Obligation, 0, len(l.pending))
	for ob := range l.pending {
		obs = append(obs, ob)
	}
	sort.Slice(obs, func(i, j int) bool {
		if obs[i].Peer != obs[j].Peer {
			return obs[i].Peer < obs[j].Peer
		}
		return obs[i].Value < obs[j].Value
	})

	res := make([]message.Envelope, 0, len(obs))
	for _, ob := range obs {
		res = append(res, l.send(src, ob))
	}
	return res
}

// Pending returns the number of unacknowledged obligations.
func (l *Ledger) Pending() int {
	return len(l.pending)
}

// InFlight returns the number of message ids that can still be acknowledged.
func (l *Ledger) InFlight() int {
	return len(l.correlation)
}

// IsPending ...
func (l *Ledger) IsPending(peer string, value int) bool {
	_, ok := l.pending[Obligation{Peer: peer, Value: value}]
	return ok
}

func (l *Ledger) send(src string, ob Obligation) message.Envelope {
	entry := l.pending[ob]

	id := l.seq.Next()
	entry.ids = append(entry.ids, id)
	l.correlation[id] = ob

	if len(entry.ids) > l.window {
		stale := entry.ids[0]
		delete(l.correlation, stale)
		entry.ids = entry.ids[1:]
	}

	return message.NewEnvelope(src, ob.Peer, message.Broadcast{
		MsgID:   id,
		Message: ob.Value,
	})
}
