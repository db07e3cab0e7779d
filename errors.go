package rosbridge

import "github.com/wagiedev/rosbridge-go/internal/errors"

// Re-export error types from internal package

// UnsupportedFrameError indicates a binary frame was received.
type UnsupportedFrameError = errors.UnsupportedFrameError

// UnknownOperationError indicates no handler is registered for an op tag.
type UnknownOperationError = errors.UnknownOperationError

// HandlerConflictError indicates an op tag already has a handler.
type HandlerConflictError = errors.HandlerConflictError

// UnknownRequestIDError indicates a service response matched no pending request.
type UnknownRequestIDError = errors.UnknownRequestIDError

// DuplicateRequestIDError indicates a service request reused a live id.
type DuplicateRequestIDError = errors.DuplicateRequestIDError

// FrameDecodeError indicates an inbound frame was not a valid JSON envelope.
type FrameDecodeError = errors.FrameDecodeError

// SendError indicates the transport rejected an outbound envelope.
type SendError = errors.SendError

// ConnectionError indicates a connection attempt failed before opening.
type ConnectionError = errors.ConnectionError

// ServiceResponseError indicates the server reported a failed service call.
type ServiceResponseError = errors.ServiceResponseError

// RosBridgeError is the base interface for all rosbridge client errors.
type RosBridgeError = errors.RosBridgeError

// Re-export sentinel errors from internal package.
var (
	// ErrNotConnected indicates the client has no usable session.
	ErrNotConnected = errors.ErrNotConnected

	// ErrAlreadyConnected indicates Connect was called on a live client.
	ErrAlreadyConnected = errors.ErrAlreadyConnected

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrSessionClosed indicates the connection session has been closed.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrGateUnresolved indicates the client closed before a connection
	// attempt settled; readiness callbacks receive it instead of never firing.
	ErrGateUnresolved = errors.ErrGateUnresolved
)
