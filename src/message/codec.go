package message

import (
	"github.com/ugorji/go/codec"
)

// wireEnvelope and wireBody are the decoding side of the wire format. Every
// optional field is a pointer so that presence can be checked per message
// type.
type wireEnvelope struct {
	Src  *string   `json:"src"`
	Dest *string   `json:"dest"`
	Body *wireBody `json:"body"`
}

type wireBody struct {
	Type      string              `json:"type"`
	MsgID     *int                `json:"msg_id"`
	InReplyTo *int                `json:"in_reply_to"`
	NodeID    *string             `json:"node_id"`
	NodeIDs   []string            `json:"node_ids"`
	Echo      *string             `json:"echo"`
	ID        *string             `json:"id"`
	Message   *int                `json:"message"`
	Messages  []int               `json:"messages"`
	Topology  map[string][]string `json:"topology"`
}

// outEnvelope is the encoding side. Body holds one of the tagged structs
// built by tag.
type outEnvelope struct {
	Src  string      `json:"src"`
	Dest string      `json:"dest"`
	Body interface{} `json:"body"`
}

// Codec reads and writes Envelopes in the line-oriented JSON format used by
// the test harness: one object per line with src, dest, and body, where body
// carries a "type" tag plus the fields of that message type.
type Codec struct {
	handle *codec.JsonHandle
	indent *codec.JsonHandle
}

// NewCodec ...
func NewCodec() *Codec {
	jh := new(codec.JsonHandle)
	jh.Canonical = true

	ih := new(codec.JsonHandle)
	ih.Canonical = true
	ih.Indent = 2

	return &Codec{
		handle: jh,
		indent: ih,
	}
}

// Encode returns the single-line JSON form of e, without a trailing newline.
func (c *Codec) Encode(e Envelope) ([]byte, error) {
	return c.encode(c.handle, e)
}

// EncodeIndent returns a pretty-printed form of e, for humans.
func (c *Codec) EncodeIndent(e Envelope) ([]byte, error) {
	return c.encode(c.indent, e)
}

func (c *Codec) encode(h *codec.JsonHandle, e Envelope) ([]byte, error) {
	body, err := tag(e.Body)
	if err != nil {
		return nil, err
	}

	var out []byte
	enc := codec.NewEncoderBytes(&out, h)
	if err := enc.Encode(outEnvelope{Src: e.Src, Dest: e.Dest, Body: body}); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode parses one line into an Envelope.
func (c *Codec) Decode(line []byte) (Envelope, error) {
	var w wireEnvelope

	dec := codec.NewDecoderBytes(line, c.handle)
	if err := dec.Decode(&w); err != nil {
		return Envelope{}, NewDecodeErr(Malformed, "envelope", err)
	}

	if w.Src == nil {
		return Envelope{}, NewDecodeErr(MissingField, "src", nil)
	}
	if w.Dest == nil {
		return Envelope{}, NewDecodeErr(MissingField, "dest", nil)
	}
	if w.Body == nil {
		return Envelope{}, NewDecodeErr(MissingField, "body", nil)
	}

	body, err := w.Body.payload()
	if err != nil {
		return Envelope{}, err
	}

	return NewEnvelope(*w.Src, *w.Dest, body), nil
}

func (b *wireBody) payload() (Payload, error) {
	switch b.Type {
	case TypeInit:
		msgID, err := b.requireInt("msg_id", b.MsgID)
		if err != nil {
			return nil, err
		}
		nodeID, err := b.requireString("node_id", b.NodeID)
		if err != nil {
			return nil, err
		}
		return Init{MsgID: msgID, NodeID: nodeID, NodeIDs: b.NodeIDs}, nil
	case TypeInitOk:
		inReplyTo, err := b.requireInt("in_reply_to", b.InReplyTo)
		if err != nil {
			return nil, err
		}
		return InitOk{InReplyTo: inReplyTo}, nil
	case TypeEcho:
		msgID, err := b.requireInt("msg_id", b.MsgID)
		if err != nil {
			return nil, err
		}
		echo, err := b.requireString("echo", b.Echo)
		if err != nil {
			return nil, err
		}
		return Echo{MsgID: msgID, Echo: echo}, nil
	case TypeEchoOk:
		inReplyTo, err := b.requireInt("in_reply_to", b.InReplyTo)
		if err != nil {
			return nil, err
		}
		return EchoOk{MsgID: optInt(b.MsgID), InReplyTo: inReplyTo, Echo: optString(b.Echo)}, nil
	case TypeGenerate:
		msgID, err := b.requireInt("msg_id", b.MsgID)
		if err != nil {
			return nil, err
		}
		return Generate{MsgID: msgID}, nil
	case TypeGenerateOk:
		inReplyTo, err := b.requireInt("in_reply_to", b.InReplyTo)
		if err != nil {
			return nil, err
		}
		return GenerateOk{MsgID: optInt(b.MsgID), InReplyTo: inReplyTo, ID: optString(b.ID)}, nil
	case TypeBroadcast:
		msgID, err := b.requireInt("msg_id", b.MsgID)
		if err != nil {
			return nil, err
		}
		msg, err := b.requireInt("message", b.Message)
		if err != nil {
			return nil, err
		}
		return Broadcast{MsgID: msgID, Message: msg}, nil
	case TypeBroadcastOk:
		inReplyTo, err := b.requireInt("in_reply_to", b.InReplyTo)
		if err != nil {
			return nil, err
		}
		return BroadcastOk{MsgID: optInt(b.MsgID), InReplyTo: inReplyTo}, nil
	case TypeRead:
		msgID, err := b.requireInt("msg_id", b.MsgID)
		if err != nil {
			return nil, err
		}
		return Read{MsgID: msgID}, nil
	case TypeReadOk:
		inReplyTo, err := b.requireInt("in_reply_to", b.InReplyTo)
		if err != nil {
			return nil, err
		}
		return ReadOk{MsgID: optInt(b.MsgID), InReplyTo: inReplyTo, Messages: b.Messages}, nil
	case TypeTopology:
		msgID, err := b.requireInt("msg_id", b.MsgID)
		if err != nil {
			return nil, err
		}
		topology := b.Topology
		if topology == nil {
			topology = map[string][]string{}
		}
		return Topology{MsgID: msgID, Topology: topology}, nil
	case TypeTopologyOk:
		inReplyTo, err := b.requireInt("in_reply_to", b.InReplyTo)
		if err != nil {
			return nil, err
		}
		return TopologyOk{MsgID: optInt(b.MsgID), InReplyTo: inReplyTo}, nil
	case "":
		return nil, NewDecodeErr(MissingField, "type", nil)
	default:
		return nil, NewDecodeErr(UnknownType, b.Type, nil)
	}
}

func (b *wireBody) requireInt(field string, v *int) (int, error) {
	if v == nil {
		return 0, NewDecodeErr(MissingField, b.Type+"."+field, nil)
	}
	return *v, nil
}

func (b *wireBody) requireString(field string, v *string) (string, error) {
	if v == nil {
		return "", NewDecodeErr(MissingField, b.Type+"."+field, nil)
	}
	return *v, nil
}

func optInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// tag wraps a payload in a struct that inlines its fields next to the "type"
// discriminator.
func tag(p Payload) (interface{}, error) {
	switch b := p.(type) {
	case Init:
		if b.NodeIDs == nil {
			b.NodeIDs = []string{}
		}
		return struct {
			Type string `json:"type"`
			Init
		}{TypeInit, b}, nil
	case InitOk:
		return struct {
			Type string `json:"type"`
			InitOk
		}{TypeInitOk, b}, nil
	case Echo:
		return struct {
			Type string `json:"type"`
			Echo
		}{TypeEcho, b}, nil
	case EchoOk:
		return struct {
			Type string `json:"type"`
			EchoOk
		}{TypeEchoOk, b}, nil
	case Generate:
		return struct {
			Type string `json:"type"`
			Generate
		}{TypeGenerate, b}, nil
	case GenerateOk:
		return struct {
			Type string `json:"type"`
			GenerateOk
		}{TypeGenerateOk, b}, nil
	case Broadcast:
		return struct {
			Type string `json:"type"`
			Broadcast
		}{TypeBroadcast, b}, nil
	case BroadcastOk:
		return struct {
			Type string `json:"type"`
			BroadcastOk
		}{TypeBroadcastOk, b}, nil
	case Read:
		return struct {
			Type string `json:"type"`
			Read
		}{TypeRead, b}, nil
	case ReadOk:
		if b.Messages == nil {
			b.Messages = []int{}
		}
		return struct {
			Type string `json:"type"`
			ReadOk
		}{TypeReadOk, b}, nil
	case Topology:
		if b.Topology == nil {
			b.Topology = map[string][]string{}
		}
		return struct {
			Type string `json:"type"`
			Topology
		}{TypeTopology, b}, nil
	case TopologyOk:
		return struct {
			Type string `json:"type"`
			TopologyOk
		}{TypeTopologyOk, b}, nil
	default:
		return nil, NewDecodeErr(UnknownType, "cannot encode payload", nil)
	}
}
