package config

import (
	"log/slog"
	"net/http"
	"time"
)

// Default reconnect pacing. The delay between attempts doubles from Min up
// to Max, with jitter applied per attempt.
const (
	DefaultReconnectDelayMin = 1 * time.Second
	DefaultReconnectDelayMax = 30 * time.Second
)

// Options holds all configuration for a rosbridge client.
// Populated via the functional options in the root package.
type Options struct {
	// Logger receives debug output. Nil means silent operation.
	Logger *slog.Logger

	// Transport overrides the default websocket transport.
	Transport Transport

	// HTTPClient is used for the websocket dial. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	// HTTPHeader is sent with the websocket handshake request.
	HTTPHeader http.Header

	// Reconnect enables automatic reconnection after the connection drops.
	// Each attempt gets a fresh session and readiness gate.
	Reconnect bool

	// ReconnectDelayMin and ReconnectDelayMax bound the jittered
	// exponential delay between reconnect attempts.
	ReconnectDelayMin time.Duration
	ReconnectDelayMax time.Duration

	// CallTimeout bounds synchronous service calls. Zero means no timeout
	// beyond the caller's context.
	CallTimeout time.Duration
}

// ApplyDefaults fills unset fields with their defaults.
func (o *Options) ApplyDefaults() {
	if o.ReconnectDelayMin <= 0 {
		o.ReconnectDelayMin = DefaultReconnectDelayMin
	}

	if o.ReconnectDelayMax < o.ReconnectDelayMin {
		o.ReconnectDelayMax = DefaultReconnectDelayMax
	}
}
