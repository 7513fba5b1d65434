package net

import (
	"bufio"
	"io"
	"sync"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

const (
	// MaxLineSize is the longest line StdioTransport accepts.
	MaxLineSize = 1024 * 1024

	stdioAddr = "stdio"
)

// StdioTransport exchanges Envelopes over a pair of streams, usually the
// process's stdin and stdout, one JSON record per line. Every Envelope is
// delivered to the same writer regardless of its Dest; routing is done by
// whoever reads the other end.
type StdioTransport struct {
	logger *logrus.Entry
	codec  *message.Codec

	r io.Reader

	w     *bufio.Writer
	wLock sync.Mutex

	consumeCh chan message.Envelope

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex
}

// NewStdioTransport ...
func NewStdioTransport(r io.Reader, w io.Writer, logger *logrus.Entry) *StdioTransport {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &StdioTransport{
		logger:     logger,
		codec:      message.NewCodec(),
		r:          r,
		w:          bufio.NewWriter(w),
		consumeCh:  make(chan message.Envelope, 16),
		shutdownCh: make(chan struct{}),
	}
}

// Listen reads lines until the reader is exhausted, then closes the consumer
// channel. Lines that cannot be decoded are logged and skipped.
func (s *StdioTransport) Listen() {
	defer close(s.consumeCh)

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		env, err := s.codec.Decode(line)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"error": err,
				"line":  string(line),
			}).Error("Failed to decode incoming message")
			continue
		}

		select {
		case s.consumeCh <- env:
		case <-s.shutdownCh:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.WithField("error", err).Error("Failed to read input")
		return
	}

	s.logger.Debug("End of input")
}

// Consumer implements the Transport interface.
func (s *StdioTransport) Consumer() <-chan message.Envelope {
	return s.consumeCh
}

// Send writes e as one line and flushes it.
func (s *StdioTransport) Send(e message.Envelope) error {
	if s.IsShutdown() {
		return ErrTransportShutdown
	}

	out, err := s.codec.Encode(e)
	if err != nil {
		return err
	}

	s.wLock.Lock()
	defer s.wLock.Unlock()

	if _, err := s.w.Write(out); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	return s.w.Flush()
}

// LocalAddr implements the Transport interface.
func (s *StdioTransport) LocalAddr() string {
	return stdioAddr
}

// IsShutdown ...
func (s *StdioTransport) IsShutdown() bool {
	select {
	case <-s.shutdownCh:
		return true
	default:
		return false
	}
}

// Close stops delivering input. A Listen blocked on a read returns once the
// read completes.
func (s *StdioTransport) Close() error {
	s.shutdownLock.Lock()
	defer s.shutdownLock.Unlock()

	if !s.shutdown {
		close(s.shutdownCh)
		s.shutdown = true
	}
	return nil
}
