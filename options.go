package rosbridge

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wagiedev/rosbridge-go/internal/config"
)

// Option configures a rosbridge client using the functional options pattern.
type Option func(*config.Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	options.ApplyDefaults()

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithTransport overrides the default websocket transport.
// Intended for tests and alternative communication methods.
func WithTransport(transport Transport) Option {
	return func(o *config.Options) {
		o.Transport = transport
	}
}

// WithHTTPClient sets the HTTP client used for the websocket handshake.
func WithHTTPClient(client *http.Client) Option {
	return func(o *config.Options) {
		o.HTTPClient = client
	}
}

// WithHTTPHeader sets headers sent with the websocket handshake request,
// e.g. for authenticating against a gateway in front of rosbridge.
func WithHTTPHeader(header http.Header) Option {
	return func(o *config.Options) {
		o.HTTPHeader = header
	}
}

// WithReconnect enables automatic reconnection after an established
// connection drops. Attempts are paced with jittered exponential delay
// between the configured bounds. The initial Connect still fails fast.
func WithReconnect() Option {
	return func(o *config.Options) {
		o.Reconnect = true
	}
}

// WithReconnectDelay bounds the delay between reconnect attempts.
func WithReconnectDelay(minDelay, maxDelay time.Duration) Option {
	return func(o *config.Options) {
		o.ReconnectDelayMin = minDelay
		o.ReconnectDelayMax = maxDelay
	}
}

// WithCallTimeout bounds synchronous CallService invocations. Without it a
// call waits until the caller's context expires; the server is free to
// never answer. Asynchronous calls are unaffected.
func WithCallTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.CallTimeout = timeout
	}
}
