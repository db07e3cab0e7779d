package rosbridge

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/rosbridge-go/internal/config"
	"github.com/wagiedev/rosbridge-go/internal/emitter"
	"github.com/wagiedev/rosbridge-go/internal/errors"
	"github.com/wagiedev/rosbridge-go/internal/protocol"
	"github.com/wagiedev/rosbridge-go/internal/wstransport"
)

// rosImpl implements the Ros client interface.
//
// The dispatcher and emitter are created once and shared across connection
// attempts, so registered handlers, topic subscriptions, and outstanding
// service calls survive a reconnect. Sessions, gates, and transports are
// per-attempt.
type rosImpl struct {
	log     *slog.Logger
	baseLog *slog.Logger
	url     string
	options *config.Options

	dispatcher *protocol.Dispatcher
	emitter    *emitter.Emitter
	idCounter  atomic.Int64

	// Live wire subscriptions by id, replayed after a reconnect so the new
	// server resumes publishing to us.
	subMu sync.Mutex
	subs  map[string]subscription

	// runCtx outlives any single Connect call; session pumps are bound to
	// it rather than to the dial context.
	runCtx    context.Context
	runCancel context.CancelFunc

	// Errgroup for the session supervisor goroutine
	eg *errgroup.Group

	mu         sync.Mutex
	gate       *protocol.ReadyGate
	session    *protocol.Session
	transport  config.Transport
	connecting bool
	connected  bool
	closed     bool

	closeOnce sync.Once
	done      chan struct{}
}

type subscription struct {
	topic       string
	messageType string
}

// newRosImpl creates an unconnected client.
func newRosImpl(url string, options *config.Options) *rosImpl {
	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	c := &rosImpl{
		log:     log.With("component", "client"),
		baseLog: log,
		url:     url,
		options: options,
		// The first attempt's gate exists up front so WhenReady can be
		// called before Connect.
		gate: protocol.NewReadyGate(),
		subs: make(map[string]subscription),
		done: make(chan struct{}),
	}

	c.emitter = emitter.New(log)
	c.dispatcher = protocol.NewDispatcher(log, c.emitter.Emit)
	c.runCtx, c.runCancel = context.WithCancel(context.Background())

	return c
}

// Connect implements Ros.
func (c *rosImpl) Connect(ctx context.Context) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()

		return errors.ErrClientClosed
	}

	if c.connected || c.connecting {
		c.mu.Unlock()

		return errors.ErrAlreadyConnected
	}

	c.connecting = true

	// A retried Connect needs a fresh gate: the failed attempt settled the
	// old one, and a settled gate never resolves again.
	gate := c.gate
	if gate.Settled() {
		gate = protocol.NewReadyGate()
		c.gate = gate
	}
	c.mu.Unlock()

	err := c.dial(ctx, gate)

	c.mu.Lock()
	c.connecting = false
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.eg = &errgroup.Group{}
	c.eg.Go(c.supervise)

	return nil
}

// newTransport returns the transport for the next connection attempt.
func (c *rosImpl) newTransport() config.Transport {
	if c.options.Transport != nil {
		return c.options.Transport
	}

	return wstransport.New(c.baseLog, c.url, c.options)
}

// dial connects a fresh transport and starts a session for it, resolving
// the attempt's gate on success and failing it otherwise.
func (c *rosImpl) dial(ctx context.Context, gate *protocol.ReadyGate) error {
	transport := c.newTransport()

	if err := transport.Connect(ctx); err != nil {
		gate.Fail(err)

		return err
	}

	session := protocol.NewSession(c.baseLog, transport, c.dispatcher, gate)

	c.mu.Lock()
	c.transport = transport
	c.session = session
	c.gate = gate
	c.connected = true
	c.mu.Unlock()

	session.Start(c.runCtx)

	return nil
}

// supervise watches the live session and, when reconnection is enabled,
// re-establishes dropped connections with a fresh session and gate.
func (c *rosImpl) supervise() error {
	for {
		c.mu.Lock()
		session := c.session
		c.mu.Unlock()

		select {
		case <-session.Done():
		case <-c.done:
			return nil
		}

		c.mu.Lock()
		c.connected = false
		closed := c.closed
		c.mu.Unlock()

		if closed {
			return nil
		}

		c.log.Warn("Connection lost", "reason", session.CloseReason())

		if !c.options.Reconnect {
			return nil
		}

		if !c.reconnect() {
			return nil
		}
	}
}

// reconnect retries dialing with jittered exponential delay until an
// attempt succeeds or the client closes. Returns false if the client
// closed while retrying.
func (c *rosImpl) reconnect() bool {
	delay := c.options.ReconnectDelayMin

	for attempt := 1; ; attempt++ {
		gate := protocol.NewReadyGate()

		// Publish the attempt's gate before waiting out the delay so
		// WhenReady during the retry window reports the attempt as pending
		// instead of replaying the dropped connection's outcome.
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()

			return false
		}

		c.gate = gate
		c.mu.Unlock()

		select {
		case <-time.After(jitteredDelay(delay)):
		case <-c.done:
			gate.Fail(errors.ErrGateUnresolved)

			return false
		}

		if err := c.dial(c.runCtx, gate); err != nil {
			c.log.Warn("Reconnect attempt failed", "attempt", attempt, "error", err)

			delay = min(delay*2, c.options.ReconnectDelayMax)

			continue
		}

		c.log.Info("Reconnected", "attempt", attempt)
		c.resubscribe()

		return true
	}
}

// resubscribe replays every live subscription on the current session. The
// server that accepted the new connection knows nothing about subscriptions
// made over the old one.
func (c *rosImpl) resubscribe() {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	c.subMu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for id, sub := range c.subs {
		subs[id] = sub
	}
	c.subMu.Unlock()

	for id, sub := range subs {
		env := Envelope{
			"op":    OpSubscribe,
			"id":    id,
			"topic": sub.topic,
		}
		if sub.messageType != "" {
			env["type"] = sub.messageType
		}

		if err := session.SendEnvelope(c.runCtx, env); err != nil {
			c.log.Warn("Failed to resubscribe", "topic", sub.topic, "id", id, "error", err)
		}
	}
}

// jitteredDelay spreads reconnect attempts over [d/2, d] so clients that
// lost the same server do not stampede it in lockstep.
func jitteredDelay(d time.Duration) time.Duration {
	half := d / 2

	return half + rand.N(half+1)
}

// Connected implements Ros.
func (c *rosImpl) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected && c.session != nil && c.session.Usable()
}

// WhenReady implements Ros.
func (c *rosImpl) WhenReady(callback func(err error)) {
	c.mu.Lock()
	gate := c.gate
	c.mu.Unlock()

	gate.WhenReady(func(_ *protocol.Session, err error) {
		callback(err)
	})
}

// currentSession returns the live session or the reason there is none.
func (c *rosImpl) currentSession() (*protocol.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.ErrClientClosed
	}

	if !c.connected || c.session == nil || !c.session.Usable() {
		return nil, errors.ErrNotConnected
	}

	return c.session, nil
}

// Send implements Ros.
func (c *rosImpl) Send(ctx context.Context, env Envelope) error {
	session, err := c.currentSession()
	if err != nil {
		return err
	}

	return session.SendEnvelope(ctx, env)
}

// CallService implements Ros.
func (c *rosImpl) CallService(ctx context.Context, service string, args any) (any, error) {
	if c.options.CallTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.options.CallTimeout)
		defer cancel()
	}

	type outcome struct {
		values any
		failed bool
	}

	// Buffered so a late response never blocks the dispatch pump.
	results := make(chan outcome, 1)

	_, err := c.CallServiceAsync(ctx, service, args,
		func(values any) { results <- outcome{values: values} },
		func(values any) { results <- outcome{values: values, failed: true} },
	)
	if err != nil {
		return nil, err
	}

	select {
	case out := <-results:
		if out.failed {
			return nil, &errors.ServiceResponseError{Service: service, Values: out.values}
		}

		return out.values, nil

	case <-ctx.Done():
		// The request stays in the correlation table; a response that
		// arrives after this point is consumed and discarded.
		return nil, ctx.Err()

	case <-c.done:
		return nil, errors.ErrClientClosed
	}
}

// CallServiceAsync implements Ros.
func (c *rosImpl) CallServiceAsync(
	ctx context.Context,
	service string,
	args any,
	onSuccess, onFailure ResponseCallback,
) (string, error) {
	session, err := c.currentSession()
	if err != nil {
		return "", err
	}

	id := c.NextID("call_service:" + service)

	env := Envelope{
		"op":      OpCallService,
		"id":      id,
		"service": service,
	}
	if args != nil {
		env["args"] = args
	}

	if err := session.SendServiceRequest(ctx, env, onSuccess, onFailure); err != nil {
		return "", err
	}

	return id, nil
}

// Subscribe implements Ros.
func (c *rosImpl) Subscribe(
	ctx context.Context,
	topic, messageType string,
	callback SubscriberCallback,
) (string, error) {
	session, err := c.currentSession()
	if err != nil {
		return "", err
	}

	id := c.emitter.Subscribe(topic, callback)

	env := Envelope{
		"op":    OpSubscribe,
		"id":    id,
		"topic": topic,
	}
	if messageType != "" {
		env["type"] = messageType
	}

	if err := session.SendEnvelope(ctx, env); err != nil {
		c.emitter.Unsubscribe(topic, id)

		return "", err
	}

	c.subMu.Lock()
	c.subs[id] = subscription{topic: topic, messageType: messageType}
	c.subMu.Unlock()

	return id, nil
}

// Unsubscribe implements Ros.
func (c *rosImpl) Unsubscribe(ctx context.Context, topic, id string) error {
	session, err := c.currentSession()
	if err != nil {
		return err
	}

	c.emitter.Unsubscribe(topic, id)

	c.subMu.Lock()
	delete(c.subs, id)
	c.subMu.Unlock()

	env := Envelope{
		"op":    OpUnsubscribe,
		"id":    id,
		"topic": topic,
	}

	return session.SendEnvelope(ctx, env)
}

// RegisterHandler implements Ros.
func (c *rosImpl) RegisterHandler(op string, handler Handler) error {
	return c.dispatcher.RegisterHandler(op, handler)
}

// NextID implements Ros.
func (c *rosImpl) NextID(prefix string) string {
	return fmt.Sprintf("%s:%d", prefix, c.idCounter.Add(1))
}

// PendingCalls implements Ros.
func (c *rosImpl) PendingCalls() int {
	return c.dispatcher.PendingCount()
}

// Close implements Ros.
func (c *rosImpl) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.log.Debug("Closing client")

		c.mu.Lock()
		c.closed = true
		c.connected = false
		session := c.session
		transport := c.transport
		gate := c.gate
		c.mu.Unlock()

		close(c.done)
		c.runCancel()

		// If the current attempt never resolved, let its readiness
		// callbacks observe the abandonment. No-op on a settled gate.
		gate.Fail(errors.ErrGateUnresolved)

		if transport != nil {
			if err := transport.Close(); err != nil {
				closeErr = err
			}
		}

		if session != nil {
			session.Close(errors.ErrClientClosed)
			session.Wait()
		}

		if c.eg != nil {
			if err := c.eg.Wait(); err != nil && closeErr == nil {
				closeErr = err
			}
		}

		c.log.Info("Client closed")
	})

	return closeErr
}
