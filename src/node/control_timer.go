package node

import (
	"math/rand"
	"time"
)

type timerFactory func(time.Duration) <-chan time.Time

// ControlTimer emits a tick on tickCh when its timer expires. It must be
// re-armed through resetCh after every tick.
type ControlTimer struct {
	timerFactory timerFactory
	tickCh       chan struct{}      //sends a signal to listening process
	resetCh      chan time.Duration //receives instruction to reset the timer
	stopCh       chan struct{}      //receives instruction to stop the timer
	shutdownCh   chan struct{}      //receives instruction to exit Run loop
}

// NewControlTimer ...
func NewControlTimer(timerFactory timerFactory) *ControlTimer {
	return &ControlTimer{
		timerFactory: timerFactory,
		tickCh:       make(chan struct{}),
		resetCh:      make(chan time.Duration),
		stopCh:       make(chan struct{}),
		shutdownCh:   make(chan struct{}),
	}
}

// NewFixedControlTimer ticks exactly once per requested duration.
func NewFixedControlTimer() *ControlTimer {
	fixedTimeout := func(d time.Duration) <-chan time.Time {
		if d == 0 {
			return nil
		}
		return time.After(d)
	}
	return NewControlTimer(fixedTimeout)
}

// NewRandomControlTimer adds a random delay in [0, jitter) to every requested
// duration.
func NewRandomControlTimer(jitter time.Duration) *ControlTimer {
	randomTimeout := func(min time.Duration) <-chan time.Time {
		if min == 0 {
			return nil
		}
		extra := time.Duration(0)
		if jitter > 0 {
			extra = time.Duration(rand.Int63()) % jitter
		}
		return time.After(min + extra)
	}
	return NewControlTimer(randomTimeout)
}

// Run arms the timer with init and serves it until Shutdown.
func (c *ControlTimer) Run(init time.Duration) {
	timer := c.timerFactory(init)
	for {
		select {
		case <-timer:
			timer = nil
			select {
			case c.tickCh <- struct{}{}:
			case <-c.shutdownCh:
				return
			}
		case t := <-c.resetCh:
			timer = c.timerFactory(t)
		case <-c.stopCh:
			timer = nil
		case <-c.shutdownCh:
			return
		}
	}
}

// Reset re-arms the timer. It returns false if the timer was shut down.
func (c *ControlTimer) Reset(t time.Duration) bool {
	select {
	case c.resetCh <- t:
		return true
	case <-c.shutdownCh:
		return false
	}
}

// Stop disarms the timer without shutting it down.
func (c *ControlTimer) Stop() bool {
	select {
	case c.stopCh <- struct{}{}:
		return true
	case <-c.shutdownCh:
		return false
	}
}

// Shutdown ...
func (c *ControlTimer) Shutdown() {
	close(c.shutdownCh)
}
