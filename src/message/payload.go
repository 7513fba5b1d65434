package message

// Wire tags of the protocol message types.
const (
	TypeInit        = "init"
	TypeInitOk      = "init_ok"
	TypeEcho        = "echo"
	TypeEchoOk      = "echo_ok"
	TypeGenerate    = "generate"
	TypeGenerateOk  = "generate_ok"
	TypeBroadcast   = "broadcast"
	TypeBroadcastOk = "broadcast_ok"
	TypeRead        = "read"
	TypeReadOk      = "read_ok"
	TypeTopology    = "topology"
	TypeTopologyOk  = "topology_ok"
)

// Payload is the body of an Envelope. There is one implementation per protocol
// message type and Type returns its wire tag.
type Payload interface {
	Type() string
}

// Init assigns a node its identifier and tells it about the cluster.
type Init struct {
	MsgID   int      `json:"msg_id"`
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

// InitOk acknowledges an Init. It is the only reply without a msg_id.
type InitOk struct {
	InReplyTo int `json:"in_reply_to"`
}

type Echo struct {
	MsgID int    `json:"msg_id"`
	Echo  string `json:"echo"`
}

type EchoOk struct {
	MsgID     int    `json:"msg_id"`
	InReplyTo int    `json:"in_reply_to"`
	Echo      string `json:"echo"`
}

type Generate struct {
	MsgID int `json:"msg_id"`
}

// GenerateOk carries a cluster-wide unique ID.
type GenerateOk struct {
	MsgID     int    `json:"msg_id"`
	InReplyTo int    `json:"in_reply_to"`
	ID        string `json:"id"`
}

// Broadcast asks the receiver to record Message and spread it to its
// neighbours. Nodes also use it among themselves to gossip values.
type Broadcast struct {
	MsgID   int `json:"msg_id"`
	Message int `json:"message"`
}

type BroadcastOk struct {
	MsgID     int `json:"msg_id"`
	InReplyTo int `json:"in_reply_to"`
}

type Read struct {
	MsgID int `json:"msg_id"`
}

// ReadOk returns every value the node has seen. Messages is a set.
type ReadOk struct {
	MsgID     int   `json:"msg_id"`
	InReplyTo int   `json:"in_reply_to"`
	Messages  []int `json:"messages"`
}

// Topology maps node identifiers to their direct neighbours.
type Topology struct {
	MsgID    int                 `json:"msg_id"`
	Topology map[string][]string `json:"topology"`
}

type TopologyOk struct {
	MsgID     int `json:"msg_id"`
	InReplyTo int `json:"in_reply_to"`
}

func (Init) Type() string        { return TypeInit }
func (InitOk) Type() string      { return TypeInitOk }
func (Echo) Type() string        { return TypeEcho }
func (EchoOk) Type() string      { return TypeEchoOk }
func (Generate) Type() string    { return TypeGenerate }
func (GenerateOk) Type() string  { return TypeGenerateOk }
func (Broadcast) Type() string   { return TypeBroadcast }
func (BroadcastOk) Type() string { return TypeBroadcastOk }
func (Read) Type() string        { return TypeRead }
func (ReadOk) Type() string      { return TypeReadOk }
func (Topology) Type() string    { return TypeTopology }
func (TopologyOk) Type() string  { return TypeTopologyOk }
