package rosbridge

import "github.com/wagiedev/rosbridge-go/internal/config"

// Transport defines the interface for the connection to a rosbridge server.
// Implement this to provide custom transports for testing, mocking, or
// alternative communication methods (e.g., TCP or unix sockets).
//
// The default implementation dials a websocket. Custom transports can be
// injected via WithTransport. When automatic reconnection is enabled, a
// custom transport must tolerate Connect being called again after the
// connection drops.
type Transport = config.Transport
