package protocol

import (
	"log/slog"
	"sync"

	"github.com/wagiedev/rosbridge-go/internal/errors"
	"github.com/wagiedev/rosbridge-go/internal/message"
)

// Handler processes one inbound envelope for a given operation tag.
type Handler func(env message.Envelope) error

// EmitFunc delivers a topic publication to all subscribers of a topic.
// It is injected into the dispatcher rather than baked in so the fan-out
// mechanism stays swappable (and trivially mockable in tests).
type EmitFunc func(topic string, msg any)

// Dispatcher routes inbound envelopes to handlers by operation tag.
//
// Two handlers are built in and not replaceable: "publish" feeds the topic
// fan-out, and "service_response" completes the matching pending service
// request. Additional operations (status, fragment, ...) can be handled by
// registering an extension handler, at most one per tag.
//
// The dispatcher also owns the correlation table for outstanding service
// requests, so it survives reconnects together with the handler set.
type Dispatcher struct {
	log     *slog.Logger
	emit    EmitFunc
	pending *pendingTable

	// builtin is fixed at construction; extensions is append-only.
	builtin map[string]Handler

	extMu      sync.RWMutex
	extensions map[string]Handler
}

// NewDispatcher creates a dispatcher with the built-in publish and
// service_response handlers installed.
func NewDispatcher(log *slog.Logger, emit EmitFunc) *Dispatcher {
	d := &Dispatcher{
		log:        log.With("component", "dispatcher"),
		emit:       emit,
		pending:    newPendingTable(),
		extensions: make(map[string]Handler, 4),
	}

	d.builtin = map[string]Handler{
		message.OpPublish:         d.handlePublish,
		message.OpServiceResponse: d.handleServiceResponse,
	}

	return d
}

// RegisterHandler registers a handler for an additional operation tag.
//
// Only one handler can be registered per operation. Registering a tag that
// already has a handler, including the built-in ones, fails with
// HandlerConflictError and leaves the original handler in effect.
func (d *Dispatcher) RegisterHandler(op string, handler Handler) error {
	if _, exists := d.builtin[op]; exists {
		return &errors.HandlerConflictError{Op: op}
	}

	d.extMu.Lock()
	defer d.extMu.Unlock()

	if _, exists := d.extensions[op]; exists {
		return &errors.HandlerConflictError{Op: op}
	}

	d.log.Debug("Registering operation handler", "op", op)
	d.extensions[op] = handler

	return nil
}

// Dispatch looks up the handler for the envelope's op tag and invokes it.
// Fails with UnknownOperationError if no handler is registered.
func (d *Dispatcher) Dispatch(env message.Envelope) error {
	op := env.Op()

	handler, exists := d.builtin[op]
	if !exists {
		d.extMu.RLock()
		handler, exists = d.extensions[op]
		d.extMu.RUnlock()
	}

	if !exists {
		return &errors.UnknownOperationError{Op: op}
	}

	return handler(env)
}

// RegisterRequest adds an outstanding service request to the correlation
// table. The id must be unique among currently pending requests.
func (d *Dispatcher) RegisterRequest(id string, onSuccess, onFailure ResponseCallback) error {
	if err := d.pending.register(id, onSuccess, onFailure); err != nil {
		return err
	}

	d.log.Debug("Registered pending service request", "request_id", id)

	return nil
}

// ForgetRequest drops a pending request without completing it. Used to roll
// back registration when the request envelope could not be sent.
func (d *Dispatcher) ForgetRequest(id string) {
	d.pending.remove(id)
}

// PendingCount returns the number of outstanding service requests.
// Responses never arrive for requests the server silently dropped, so the
// owning reconnect layer can use this to detect table growth.
func (d *Dispatcher) PendingCount() int {
	return d.pending.size()
}

// handlePublish fans a topic publication out to subscribers.
func (d *Dispatcher) handlePublish(env message.Envelope) error {
	d.emit(env.Topic(), env.Msg())

	return nil
}

// handleServiceResponse completes the pending request matching the
// response's id. The table entry is consumed before any callback runs, so a
// callback that re-issues a request with the same id is safe.
func (d *Dispatcher) handleServiceResponse(env message.Envelope) error {
	id := env.ID()

	req, err := d.pending.take(id)
	if err != nil {
		return err
	}

	if !env.ResultOK() {
		d.log.Debug("Service request failed", "request_id", id)

		if req.onFailure != nil {
			req.onFailure(env.Values())
		}

		return nil
	}

	d.log.Debug("Service request succeeded", "request_id", id)

	if req.onSuccess != nil {
		req.onSuccess(env.Values())
	}

	return nil
}
