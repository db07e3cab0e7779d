package protocol

import (
	"sync"
)

// ReadyGate is a one-shot signal marking a connection attempt's outcome.
//
// A fresh gate is created per connection attempt and resolved exactly once:
// with the live session if the attempt became usable, or with an error if it
// never did. Callbacks registered before or after resolution all observe the
// same single outcome, each exactly once; callbacks registered before
// resolution run in registration order.
type ReadyGate struct {
	mu        sync.Mutex
	resolved  bool
	session   *Session
	err       error
	callbacks []func(*Session, error)

	done chan struct{}
}

// NewReadyGate creates an unresolved gate.
func NewReadyGate() *ReadyGate {
	return &ReadyGate{
		done: make(chan struct{}),
	}
}

// Resolve fulfills the gate with a usable session. Calls after the first
// resolution (either Resolve or Fail) are ignored.
func (g *ReadyGate) Resolve(session *Session) {
	g.settle(session, nil)
}

// Fail fulfills the gate with the reason the attempt never became usable.
// Calls after the first resolution are ignored.
func (g *ReadyGate) Fail(err error) {
	g.settle(nil, err)
}

// WhenReady registers a callback for the gate's outcome. If the gate is
// already resolved, the callback runs synchronously before WhenReady
// returns; otherwise it runs when the gate resolves.
func (g *ReadyGate) WhenReady(callback func(session *Session, err error)) {
	g.mu.Lock()

	if !g.resolved {
		g.callbacks = append(g.callbacks, callback)
		g.mu.Unlock()

		return
	}

	session, err := g.session, g.err
	g.mu.Unlock()

	callback(session, err)
}

// Done returns a channel that is closed once the gate is resolved.
// Use Outcome to retrieve the result afterwards.
func (g *ReadyGate) Done() <-chan struct{} {
	return g.done
}

// Settled reports whether the gate has already been resolved or failed.
func (g *ReadyGate) Settled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.resolved
}

// Outcome returns the resolved session and error. Before resolution both
// are zero; wait on Done first.
func (g *ReadyGate) Outcome() (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.session, g.err
}

// settle records the outcome exactly once and drains registered callbacks.
// Callbacks run outside the lock so they may re-enter the gate.
func (g *ReadyGate) settle(session *Session, err error) {
	g.mu.Lock()

	if g.resolved {
		g.mu.Unlock()

		return
	}

	g.resolved = true
	g.session = session
	g.err = err

	callbacks := g.callbacks
	g.callbacks = nil

	close(g.done)
	g.mu.Unlock()

	for _, callback := range callbacks {
		callback(session, err)
	}
}
