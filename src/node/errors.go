package node

import "fmt"

// ErrorKind ...
type ErrorKind uint32

const (
	// ProtocolViolation is raised when a peer or the harness sends a message
	// this node can never legitimately receive. It is unrecoverable.
	ProtocolViolation ErrorKind = iota
	// UnknownPayload is raised for a body the core has no handler for.
	UnknownPayload
)

// Error is the error type returned by Core and Node.
type Error struct {
	kind   ErrorKind
	msgTyp string
	src    string
}

// NewError ...
func NewError(kind ErrorKind, msgType string, src string) *Error {
	return &Error{
		kind:   kind,
		msgTyp: msgType,
		src:    src,
	}
}

// Kind ...
func (e *Error) Kind() ErrorKind {
	return e.kind
}

// Error ...
func (e *Error) Error() string {
	m := ""
	switch e.kind {
	case ProtocolViolation:
		m = "Protocol Violation"
	case UnknownPayload:
		m = "Unknown Payload"
	}

	return fmt.Sprintf("%s, unexpected %s from %s", m, e.msgTyp, e.src)
}

// IsError checks that an error is a node Error of the given kind.
func IsError(err error, k ErrorKind) bool {
	nodeErr, ok := err.(*Error)
	return ok && nodeErr.kind == k
}
