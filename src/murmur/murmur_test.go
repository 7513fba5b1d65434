package murmur

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/sirupsen/logrus"
)

func runLines(t *testing.T, lines ...string) ([]message.Envelope, error) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer

	m := NewMurmur(conf, in, &out)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}

	runErr := m.Run()

	codec := message.NewCodec()
	res := []message.Envelope{}
	for _, l := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if l == "" {
			continue
		}
		e, err := codec.Decode([]byte(l))
		if err != nil {
			t.Fatalf("output line %q is not a valid envelope: %v", l, err)
		}
		res = append(res, e)
	}

	return res, runErr
}

func TestEndToEnd(t *testing.T) {
	out, err := runLines(t,
		`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1","n2"]}}`,
		`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":5,"echo":"hi"}}`,
		`this line is garbage`,
		`{"src":"c1","dest":"n1","body":{"type":"topology","msg_id":6,"topology":{"n1":["n2"],"n2":["n1"]}}}`,
		`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":7,"message":42}}`,
		`{"src":"c1","dest":"n1","body":{"type":"read","msg_id":8}}`,
	)
	if err != nil {
		t.Fatalf("Run should return nil at end of input, not %v", err)
	}

	if len(out) < 6 {
		t.Fatalf("expected at least 6 output messages, got %v", out)
	}

	expectedInit := message.NewEnvelope("n1", "c1", message.InitOk{InReplyTo: 1})
	if !reflect.DeepEqual(out[0], expectedInit) {
		t.Fatalf("first output should be %v, not %v", expectedInit, out[0])
	}

	expectedEcho := message.NewEnvelope("n1", "c1", message.EchoOk{MsgID: 1, InReplyTo: 5, Echo: "hi"})
	if !reflect.DeepEqual(out[1], expectedEcho) {
		t.Fatalf("second output should be %v, not %v", expectedEcho, out[1])
	}

	if tok, ok := out[2].Body.(message.TopologyOk); !ok || tok.InReplyTo != 6 {
		t.Fatalf("third output should be topology_ok, not %v", out[2])
	}

	if bok, ok := out[3].Body.(message.BroadcastOk); !ok || bok.InReplyTo != 7 || out[3].Dest != "c1" {
		t.Fatalf("fourth output should be broadcast_ok to c1, not %v", out[3])
	}

	if b, ok := out[4].Body.(message.Broadcast); !ok || b.Message != 42 || out[4].Dest != "n2" {
		t.Fatalf("fifth output should be a broadcast of 42 to n2, not %v", out[4])
	}

	var read *message.ReadOk
	for _, e := range out[5:] {
		if r, ok := e.Body.(message.ReadOk); ok {
			read = &r
		}
	}
	if read == nil {
		t.Fatalf("no read_ok in output %v", out)
	}
	if read.InReplyTo != 8 || !reflect.DeepEqual(read.Messages, []int{42}) {
		t.Fatalf("unexpected read_ok %+v", read)
	}
}

func TestInitOkStopsProcess(t *testing.T) {
	out, err := runLines(t,
		`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}`,
		`{"src":"n2","dest":"n1","body":{"type":"init_ok","in_reply_to":3}}`,
		`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":5,"echo":"hi"}}`,
	)

	if !node.IsError(err, node.ProtocolViolation) {
		t.Fatalf("Run should return a protocol violation, not %v", err)
	}

	for _, e := range out {
		if _, ok := e.Body.(message.EchoOk); ok {
			t.Fatalf("nothing should be processed after init_ok, got %v", out)
		}
	}
}
