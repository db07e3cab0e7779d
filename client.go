package rosbridge

import (
	"context"
)

// Ros is a client connection to a rosbridge server.
//
// The client separates three lifetimes: the client itself (single-use,
// created with NewRos, ended with Close), connection attempts (each with its
// own session and readiness gate; automatic with WithReconnect), and
// registrations (handlers and topic subscriptions, which survive
// reconnects).
//
// Example usage:
//
//	ros := NewRos("ws://localhost:9090", WithLogger(slog.Default()))
//	if err := ros.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer ros.Close()
//
//	values, err := ros.CallService(ctx, "/rosapi/topics", nil)
type Ros interface {
	// Connect establishes the connection and returns once it is usable.
	// Fails fast if the server cannot be reached; automatic reconnection
	// (if enabled) only engages after an established connection drops.
	Connect(ctx context.Context) error

	// Connected reports whether a usable session exists right now.
	Connected() bool

	// WhenReady registers a callback for the outcome of the current (or,
	// before Connect, the first) connection attempt. Callbacks registered
	// before or after the outcome all observe it exactly once. A nil error
	// means the connection became usable.
	WhenReady(callback func(err error))

	// Send serializes the envelope and writes it to the server.
	// The envelope's shape is not validated; transport failures are
	// returned rather than swallowed.
	Send(ctx context.Context, env Envelope) error

	// CallService performs a service call and waits for the response.
	// Returns the response values on success, or ServiceResponseError if
	// the server reported failure. Honors WithCallTimeout.
	CallService(ctx context.Context, service string, args any) (any, error)

	// CallServiceAsync sends a service call and returns its request id
	// without waiting. Exactly one of the callbacks fires when the
	// response arrives; either may be nil.
	CallServiceAsync(
		ctx context.Context,
		service string,
		args any,
		onSuccess, onFailure ResponseCallback,
	) (string, error)

	// Subscribe registers a callback for a topic and announces the
	// subscription to the server. Returns the subscription id.
	// messageType may be empty if the server already knows the topic.
	Subscribe(ctx context.Context, topic, messageType string, callback SubscriberCallback) (string, error)

	// Unsubscribe removes one subscription and announces the removal.
	Unsubscribe(ctx context.Context, topic, id string) error

	// RegisterHandler installs a handler for an additional operation tag.
	// At most one handler per tag; the built-in publish and
	// service_response handlers are not replaceable.
	RegisterHandler(op string, handler Handler) error

	// NextID returns a fresh caller-assigned identifier with the given
	// prefix, unique for the lifetime of this client.
	NextID(prefix string) string

	// PendingCalls returns the number of service calls still awaiting a
	// response. Requests the server silently drops stay pending forever;
	// this is the hook for callers who want to watch for that.
	PendingCalls() int

	// Close terminates the connection and releases resources.
	// After Close the client cannot be reused. Safe to call multiple times.
	Close() error
}

// NewRos creates a client for the rosbridge server at the given websocket
// URL (e.g. "ws://localhost:9090").
//
// The client is not connected after creation. Call Connect to establish the
// connection:
//
//	ros := NewRos("ws://localhost:9090",
//	    WithLogger(slog.Default()),
//	    WithReconnect(),
//	)
//	err := ros.Connect(ctx)
func NewRos(url string, opts ...Option) Ros {
	return newRosImpl(url, applyOptions(opts))
}
