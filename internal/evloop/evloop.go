// Package evloop implements the single-threaded event loop that drives the
// air-quality monitor: an epoll-backed readiness multiplexer, timerfd
// periodic sources, and a dispatch loop with a cooperative termination
// token.
//
// Everything runs on the calling goroutine. Callbacks execute to completion
// before the next wait; a slow callback delays every other source,
// including the termination check. Blocking happens only inside
// WaitDispatch.
//
// The real multiplexer and timers are Linux-only. Other platforms get
// constructors that fail, matching the hardware packages.
package evloop

import (
	"fmt"
	"sync/atomic"
)

// Waiter blocks until at least one registered source is ready and
// dispatches its callback. Implemented by *Multiplexer; tests substitute
// their own.
type Waiter interface {
	WaitDispatch() error
}

// Term is the process-wide termination token: set once, never reset.
// Request may be called from any goroutine (it is what the signal watcher
// uses); Requested is checked once per loop iteration.
type Term struct {
	requested atomic.Bool
	kick      func()
}

// NewTerm returns a termination token. kick, if non-nil, is invoked after
// the flag is set to interrupt a blocked WaitDispatch; it must be safe to
// call from any goroutine and must not allocate or log (it stands in for
// an async-signal-safe handler body).
func NewTerm(kick func()) *Term {
	return &Term{kick: kick}
}

// Request marks the process for termination.
func (t *Term) Request() {
	t.requested.Store(true)
	if t.kick != nil {
		t.kick()
	}
}

// Requested reports whether termination has been requested.
func (t *Term) Requested() bool {
	return t.requested.Load()
}

// Loop is the dispatch loop. It has two states, running and terminating;
// terminating is absorbing and is entered when the token is set or when
// the waiter fails.
type Loop struct {
	waiter      Waiter
	term        *Term
	maintenance func()
}

// NewLoop builds a loop over the given waiter and token. maintenance, if
// non-nil, runs once per iteration after a successful dispatch pass,
// whether or not any particular source fired; it must be cheap and a no-op
// when there is no pending work.
func NewLoop(waiter Waiter, term *Term, maintenance func()) *Loop {
	return &Loop{waiter: waiter, term: term, maintenance: maintenance}
}

// Run dispatches until termination is requested. A waiter failure requests
// termination itself and is returned to the caller; a termination that
// arrived via the token returns nil.
func (l *Loop) Run() error {
	for !l.term.Requested() {
		if err := l.waiter.WaitDispatch(); err != nil {
			l.term.Request()
			return fmt.Errorf("evloop: wait and dispatch: %w", err)
		}
		if l.maintenance != nil {
			l.maintenance()
		}
	}
	return nil
}
