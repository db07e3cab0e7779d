package errors

import (
	"errors"
	"fmt"
)

// RosBridgeError is the base interface for all rosbridge client errors.
type RosBridgeError interface {
	error
	IsRosBridgeError() bool
}

// Compile-time verification that all error types implement RosBridgeError.
var (
	_ RosBridgeError = (*UnsupportedFrameError)(nil)
	_ RosBridgeError = (*UnknownOperationError)(nil)
	_ RosBridgeError = (*HandlerConflictError)(nil)
	_ RosBridgeError = (*UnknownRequestIDError)(nil)
	_ RosBridgeError = (*DuplicateRequestIDError)(nil)
	_ RosBridgeError = (*FrameDecodeError)(nil)
	_ RosBridgeError = (*SendError)(nil)
	_ RosBridgeError = (*ConnectionError)(nil)
	_ RosBridgeError = (*ServiceResponseError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotConnected indicates the client has no usable session.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates Connect was called on a live client.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with NewRos()")

	// ErrSessionClosed indicates the connection session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrGateUnresolved indicates a readiness gate was torn down before the
	// connection attempt reached a usable state.
	ErrGateUnresolved = errors.New("connection attempt abandoned before becoming ready")
)

// UnsupportedFrameError indicates a binary frame was received.
// The rosbridge JSON protocol carries one UTF-8 JSON object per text frame;
// a binary frame is fatal to that frame only, not to the session.
type UnsupportedFrameError struct{}

func (e *UnsupportedFrameError) Error() string {
	return "binary frames are not supported by the rosbridge JSON protocol"
}

// IsRosBridgeError implements RosBridgeError.
func (e *UnsupportedFrameError) IsRosBridgeError() bool { return true }

// UnknownOperationError indicates no handler is registered for an op tag.
type UnknownOperationError struct {
	Op string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("no handler registered for operation %q", e.Op)
}

// IsRosBridgeError implements RosBridgeError.
func (e *UnknownOperationError) IsRosBridgeError() bool { return true }

// HandlerConflictError indicates an op tag already has a handler.
// Only one handler can be registered per operation, and the built-in
// publish/service_response handlers are not replaceable.
type HandlerConflictError struct {
	Op string
}

func (e *HandlerConflictError) Error() string {
	return fmt.Sprintf("a handler is already registered for operation %q", e.Op)
}

// IsRosBridgeError implements RosBridgeError.
func (e *HandlerConflictError) IsRosBridgeError() bool { return true }

// UnknownRequestIDError indicates a service response arrived for an id with
// no pending request, including an id whose response was already consumed.
type UnknownRequestIDError struct {
	ID string
}

func (e *UnknownRequestIDError) Error() string {
	return fmt.Sprintf("no pending service request with id %q", e.ID)
}

// IsRosBridgeError implements RosBridgeError.
func (e *UnknownRequestIDError) IsRosBridgeError() bool { return true }

// DuplicateRequestIDError indicates a service request reused an id that is
// still outstanding. Callers must keep ids unique among live requests.
type DuplicateRequestIDError struct {
	ID string
}

func (e *DuplicateRequestIDError) Error() string {
	return fmt.Sprintf("a service request with id %q is already pending", e.ID)
}

// IsRosBridgeError implements RosBridgeError.
func (e *DuplicateRequestIDError) IsRosBridgeError() bool { return true }

// FrameDecodeError indicates an inbound frame was not a valid JSON envelope.
// This error preserves the raw frame that failed to parse.
type FrameDecodeError struct {
	Raw []byte
	Err error
}

func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("failed to decode frame as JSON envelope: %v", e.Err)
}

func (e *FrameDecodeError) Unwrap() error {
	return e.Err
}

// IsRosBridgeError implements RosBridgeError.
func (e *FrameDecodeError) IsRosBridgeError() bool { return true }

// SendError indicates the transport rejected an outbound envelope.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send envelope: %v", e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// IsRosBridgeError implements RosBridgeError.
func (e *SendError) IsRosBridgeError() bool { return true }

// ConnectionError indicates a connection attempt failed before opening.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to rosbridge server: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsRosBridgeError implements RosBridgeError.
func (e *ConnectionError) IsRosBridgeError() bool { return true }

// ServiceResponseError indicates the server reported a failed service call.
// Values carries the error detail from the response envelope.
type ServiceResponseError struct {
	Service string
	Values  any
}

func (e *ServiceResponseError) Error() string {
	return fmt.Sprintf("service call to %q failed: %v", e.Service, e.Values)
}

// IsRosBridgeError implements RosBridgeError.
func (e *ServiceResponseError) IsRosBridgeError() bool { return true }
