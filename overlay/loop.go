package overlay

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// ErrLoopClosed is returned by Do once the loop has stopped.
var ErrLoopClosed = errors.New("ui loop closed")

// DefaultPumpInterval is how often native messages are drained when no
// calls are pending.
const DefaultPumpInterval = 10 * time.Millisecond

type call struct {
	fn   func()
	done chan error
}

// Loop runs every overlay operation on one locked OS thread. Native
// surfaces belong to the thread that created them, so the pump that
// dispatches their messages runs on the same thread.
type Loop struct {
	calls    chan call
	pump     func()
	interval time.Duration

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewLoop creates a loop. pump, if non-nil, drains pending native messages
// and is called between calls and on every tick.
func NewLoop(pump func()) *Loop {
	return &Loop{
		calls:    make(chan call),
		pump:     pump,
		interval: DefaultPumpInterval,
		stopped:  make(chan struct{}),
	}
}

// Run processes calls until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer l.stopOnce.Do(func() { close(l.stopped) })

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-l.calls:
			c.done <- l.invoke(c.fn)
			l.drain()
		case <-ticker.C:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	if l.pump != nil {
		l.pump()
	}
}

func (l *Loop) invoke(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ui call panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// Do runs fn on the loop thread and waits for it to finish. It must not be
// called from the loop thread itself.
func (l *Loop) Do(fn func()) error {
	c := call{fn: fn, done: make(chan error, 1)}
	select {
	case l.calls <- c:
	case <-l.stopped:
		return ErrLoopClosed
	}
	return <-c.done
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.stopped }
