package message

import "fmt"

// DecodeErrType ...
type DecodeErrType uint32

const (
	// Malformed means the line is not a valid JSON envelope.
	Malformed DecodeErrType = iota
	// UnknownType means the body carries a type tag we do not handle.
	UnknownType
	// MissingField means a field required by the message type is absent.
	MissingField
)

// DecodeErr is returned by Codec.Decode. Lines that fail to decode are a
// transport concern and never reach the node.
type DecodeErr struct {
	errType DecodeErrType
	detail  string
	cause   error
}

// NewDecodeErr ...
func NewDecodeErr(errType DecodeErrType, detail string, cause error) DecodeErr {
	return DecodeErr{
		errType: errType,
		detail:  detail,
		cause:   cause,
	}
}

// Error ...
func (e DecodeErr) Error() string {
	m := ""
	switch e.errType {
	case Malformed:
		m = "Malformed"
	case UnknownType:
		m = "Unknown Type"
	case MissingField:
		m = "Missing Field"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s, %s: %v", m, e.detail, e.cause)
	}
	return fmt.Sprintf("%s, %s", m, e.detail)
}

// IsDecodeErr checks that an error is a DecodeErr of the given type.
func IsDecodeErr(err error, t DecodeErrType) bool {
	decodeErr, ok := err.(DecodeErr)
	return ok && decodeErr.errType == t
}
