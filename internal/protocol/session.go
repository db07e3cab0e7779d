package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/rosbridge-go/internal/config"
	"github.com/wagiedev/rosbridge-go/internal/errors"
	"github.com/wagiedev/rosbridge-go/internal/message"
)

// Transport defines the minimal interface needed for session operations.
//
// This interface is satisfied by the websocket transport but allows for
// testing with mock transports.
type Transport interface {
	ReadFrames(ctx context.Context) (<-chan config.Frame, <-chan error)
	WriteFrame(ctx context.Context, data []byte) error
}

// Session owns one live transport connection to a rosbridge server.
//
// Inbound frames are decoded into envelopes and fed to the dispatcher by a
// read pump started with Start(). Outbound envelopes are serialized and
// written by SendEnvelope. The session resolves its owning ReadyGate once
// usable; it does not retry — a reconnecting owner constructs a fresh
// session and gate per attempt.
//
// Closing a session does not fail its outstanding service requests. The
// correlation table lives in the dispatcher, which survives the session, and
// the owning reconnect layer decides what happens to pending calls.
type Session struct {
	log        *slog.Logger
	id         string
	transport  Transport
	dispatcher *Dispatcher
	gate       *ReadyGate

	mu       sync.Mutex
	open     bool
	closeErr error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSession creates a session over a connected transport. The session is
// not usable until Start is called.
func NewSession(log *slog.Logger, transport Transport, dispatcher *Dispatcher, gate *ReadyGate) *Session {
	id := ulid.Make().String()

	return &Session{
		log:        log.With("component", "session", "session_id", id),
		id:         id,
		transport:  transport,
		dispatcher: dispatcher,
		gate:       gate,
		done:       make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Start marks the session usable, resolves the owning gate, and begins
// pumping inbound frames into the dispatcher.
func (s *Session) Start(ctx context.Context) {
	frames, errs := s.transport.ReadFrames(ctx)

	s.mu.Lock()
	s.open = true
	s.mu.Unlock()

	s.log.Info("Session ready")
	s.gate.Resolve(s)

	s.wg.Add(1)

	go s.readLoop(ctx, frames, errs)
}

// Usable reports whether the session is open and accepting sends.
func (s *Session) Usable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}

// Done returns a channel that is closed when the session stops.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// CloseReason returns why the session closed, or nil while it is live.
func (s *Session) CloseReason() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeErr
}

// Close marks the session unusable. Safe to call multiple times; only the
// first reason is kept. The transport itself is closed by its owner.
func (s *Session) Close(reason error) {
	s.closeWithReason(reason)
}

// Wait blocks until the read pump has exited.
func (s *Session) Wait() {
	s.wg.Wait()
}

// SendEnvelope serializes the envelope and writes it to the transport.
//
// Transport write failures are returned to the caller as a SendError rather
// than swallowed, so fire-and-forget callers can still choose to ignore them.
func (s *Session) SendEnvelope(ctx context.Context, env message.Envelope) error {
	if !s.Usable() {
		return errors.ErrSessionClosed
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := s.transport.WriteFrame(ctx, data); err != nil {
		s.log.Error("Failed to send envelope", "op", env.Op(), "error", err)

		return &errors.SendError{Err: err}
	}

	s.log.Debug("Envelope sent", "op", env.Op())

	return nil
}

// SendServiceRequest registers the request's callbacks in the correlation
// table, then sends the envelope. The caller assigns the id and must keep it
// unique among outstanding requests. If the send fails, the registration is
// rolled back so the id can be reused.
func (s *Session) SendServiceRequest(
	ctx context.Context,
	env message.Envelope,
	onSuccess, onFailure ResponseCallback,
) error {
	id := env.ID()
	if id == "" {
		return fmt.Errorf("service request envelope has no id")
	}

	if err := s.dispatcher.RegisterRequest(id, onSuccess, onFailure); err != nil {
		return err
	}

	if err := s.SendEnvelope(ctx, env); err != nil {
		s.dispatcher.ForgetRequest(id)

		return err
	}

	return nil
}

// HandleFrame decodes one inbound frame and dispatches it.
//
// Errors are fatal to the frame only: the caller logs and drops the frame,
// and the session stays up. Binary frames are not a supported message shape
// for the rosbridge JSON protocol.
func (s *Session) HandleFrame(data []byte, binary bool) error {
	if binary {
		return &errors.UnsupportedFrameError{}
	}

	var env message.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &errors.FrameDecodeError{Raw: data, Err: err}
	}

	return s.dispatcher.Dispatch(env)
}

// readLoop pumps frames from the transport into the dispatcher.
// There is exactly one read pump per session, so dispatch for a session is
// never concurrent with itself.
func (s *Session) readLoop(ctx context.Context, frames <-chan config.Frame, errs <-chan error) {
	defer s.wg.Done()
	defer s.log.Debug("Session read pump stopped")

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				s.closeWithReason(errors.ErrSessionClosed)

				return
			}

			if err := s.HandleFrame(frame.Data, frame.Binary); err != nil {
				s.log.Warn("Dropping inbound frame", "error", err)
			}

		case err, ok := <-errs:
			if !ok {
				s.closeWithReason(errors.ErrSessionClosed)

				return
			}

			if err != nil {
				s.log.Debug("Transport error in session", "error", err)
				s.closeWithReason(err)

				return
			}

		case <-s.done:
			return

		case <-ctx.Done():
			s.closeWithReason(ctx.Err())

			return
		}
	}
}

// closeWithReason records the close reason exactly once and signals done.
// If the gate is still unresolved the attempt failed before becoming
// usable, so the gate is failed with the same reason.
func (s *Session) closeWithReason(reason error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.open = false
		s.closeErr = reason
		s.mu.Unlock()

		s.gate.Fail(reason)
		close(s.done)

		s.log.Info("Session closed", "reason", reason)
	})
}
