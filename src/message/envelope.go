package message

import "fmt"

// Envelope is a routed protocol message. Routing is by identifier equality on
// Src and Dest; nothing else about an Envelope is interpreted by transports.
type Envelope struct {
	Src  string
	Dest string
	Body Payload
}

// NewEnvelope ...
func NewEnvelope(src, dest string, body Payload) Envelope {
	return Envelope{
		Src:  src,
		Dest: dest,
		Body: body,
	}
}

// Type returns the wire tag of the body, or "" if there is no body.
func (e Envelope) Type() string {
	if e.Body == nil {
		return ""
	}
	return e.Body.Type()
}

func (e Envelope) String() string {
	return fmt.Sprintf("%s->%s %s %+v", e.Src, e.Dest, e.Type(), e.Body)
}
