package node

import (
	"testing"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
)

func TestLedgerRegister(t *testing.T) {
	seq := common.NewSequence()
	l := NewLedger(seq, 4)

	e := l.Register("n1", "n2", 7)

	b, ok := e.Body.(message.Broadcast)
	if !ok {
		t.Fatalf("Register should return a broadcast, not %v", e.Body)
	}
	if e.Src != "n1" || e.Dest != "n2" || b.Message != 7 || b.MsgID != 1 {
		t.Fatalf("unexpected envelope %v", e)
	}
	if l.Pending() != 1 || l.InFlight() != 1 || !l.IsPending("n2", 7) {
		t.Fatalf("(n2, 7) should be pending with one id in flight")
	}
}

func TestLedgerOnAck(t *testing.T) {
	l := NewLedger(common.NewSequence(), 4)

	id := l.Register("n1", "n2", 7).Body.(message.Broadcast).MsgID
	l.Register("n1", "n3", 7)

	ob, ok := l.OnAck(id)
	if !ok {
		t.Fatalf("ack %d should match", id)
	}
	if ob != (Obligation{Peer: "n2", Value: 7}) {
		t.Fatalf("ack should clear (n2, 7), not %v", ob)
	}
	if l.IsPending("n2", 7) || !l.IsPending("n3", 7) {
		t.Fatalf("only (n2, 7) should be cleared")
	}

	if _, ok := l.OnAck(id); ok {
		t.Fatalf("a duplicate ack should not match")
	}
	if _, ok := l.OnAck(12345); ok {
		t.Fatalf("an unknown ack should not match")
	}
}

func TestLedgerFlushOrder(t *testing.T) {
	l := NewLedger(common.NewSequence(), 4)

	l.Register("n1", "n3", 2)
	l.Register("n1", "n2", 9)
	l.Register("n1", "n3", 1)
	l.Register("n1", "n2", 4)

	out := l.Flush("n1")

	expected := []Obligation{{"n2", 4}, {"n2", 9}, {"n3", 1}, {"n3", 2}}
	if len(out) != len(expected) {
		t.Fatalf("Flush should return %d envelopes, not %d", len(expected), len(out))
	}

	last := 4
	for i, e := range out {
		b := e.Body.(message.Broadcast)
		if e.Dest != expected[i].Peer || b.Message != expected[i].Value {
			t.Fatalf("envelope %d should be %v, not %v", i, expected[i], e)
		}
		if b.MsgID <= last {
			t.Fatalf("Flush should allocate fresh ids, got %d after %d", b.MsgID, last)
		}
		last = b.MsgID
	}
}

func TestLedgerWindow(t *testing.T) {
	l := NewLedger(common.NewSequence(), 2)

	first := l.Register("n1", "n2", 7).Body.(message.Broadcast).MsgID
	second := l.Flush("n1")[0].Body.(message.Broadcast).MsgID
	third := l.Flush("n1")[0].Body.(message.Broadcast).MsgID

	if l.InFlight() != 2 {
		t.Fatalf("only 2 ids should be in flight, not %d", l.InFlight())
	}

	if _, ok := l.OnAck(first); ok {
		t.Fatalf("ack for an id outside the window should not match")
	}
	if !l.IsPending("n2", 7) {
		t.Fatalf("(n2, 7) should still be pending")
	}

	if _, ok := l.OnAck(second); !ok {
		t.Fatalf("ack for an id inside the window should match")
	}
	if l.Pending() != 0 || l.InFlight() != 0 {
		t.Fatalf("ledger should be empty, got %d pending %d in flight", l.Pending(), l.InFlight())
	}

	if _, ok := l.OnAck(third); ok {
		t.Fatalf("ids of a cleared obligation should be forgotten")
	}
}

func TestLedgerDefaultWindow(t *testing.T) {
	l := NewLedger(common.NewSequence(), 0)
	if l.window != DefaultRetryWindow {
		t.Fatalf("window should default to %d, not %d", DefaultRetryWindow, l.window)
	}
}
