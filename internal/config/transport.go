package config

import "context"

// Frame is one raw message received from or written to the transport.
// The rosbridge JSON protocol uses text frames exclusively; the Binary flag
// is carried so the session can reject unsupported binary frames per-frame
// instead of tearing down the connection.
type Frame struct {
	Data   []byte
	Binary bool
}

// Transport abstracts the bidirectional, message-oriented connection to a
// rosbridge server.
//
// The default implementation dials a websocket. Custom transports can be
// injected via WithTransport for testing, mocking, or alternative
// communication methods.
//
// Implementations must deliver inbound frames from a single reader
// goroutine: frame delivery for one connection is never concurrent with
// itself, and the returned channels are closed when the connection drops.
type Transport interface {
	// Connect establishes the connection. Must be called before
	// ReadFrames or WriteFrame.
	Connect(ctx context.Context) error

	// ReadFrames returns channels delivering inbound frames and transport
	// errors. Both are closed when the connection ends.
	ReadFrames(ctx context.Context) (<-chan Frame, <-chan error)

	// WriteFrame writes one frame to the connection.
	WriteFrame(ctx context.Context, data []byte) error

	// Close tears the connection down. Safe to call multiple times.
	Close() error
}
