package wstransport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/wagiedev/rosbridge-go/internal/config"
	"github.com/wagiedev/rosbridge-go/internal/errors"
)

const (
	// maxFrameSize caps inbound frames. Large sensor messages (point
	// clouds, images) can be several megabytes.
	maxFrameSize = 16 * 1024 * 1024

	// frameBufferSize buffers inbound frames so short dispatch stalls do
	// not backpressure the websocket read.
	frameBufferSize = 32
)

// Compile-time verification that the websocket transport satisfies the
// pluggable transport contract.
var _ config.Transport = (*Transport)(nil)

// Transport connects to a rosbridge server over a websocket.
//
// Each Transport handles exactly one connection attempt. A reconnecting
// owner creates a fresh Transport per attempt.
type Transport struct {
	log        *slog.Logger
	url        string
	httpClient *http.Client
	httpHeader http.Header

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
}

// New creates a websocket transport for the given rosbridge URL
// (e.g. "ws://localhost:9090"). The transport is not connected until
// Connect is called.
func New(log *slog.Logger, url string, options *config.Options) *Transport {
	t := &Transport{
		log: log.With("component", "wstransport"),
		url: url,
	}

	if options != nil {
		t.httpClient = options.HTTPClient
		t.httpHeader = options.HTTPHeader
	}

	return t
}

// Connect dials the websocket.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		return errors.ErrAlreadyConnected
	}

	t.log.Debug("Dialing rosbridge server", "url", t.url)

	conn, _, err := websocket.Dial(ctx, t.url, &websocket.DialOptions{
		HTTPClient: t.httpClient,
		HTTPHeader: t.httpHeader,
	})
	if err != nil {
		return &errors.ConnectionError{Err: err}
	}

	conn.SetReadLimit(maxFrameSize)

	t.conn = conn
	t.connected = true

	t.log.Info("Connected to rosbridge server", "url", t.url)

	return nil
}

// ReadFrames starts the single reader goroutine for this connection and
// returns its frame and error channels. Both channels are closed when the
// connection ends.
func (t *Transport) ReadFrames(ctx context.Context) (<-chan config.Frame, <-chan error) {
	frames := make(chan config.Frame, frameBufferSize)
	errs := make(chan error, 1)

	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	go func() {
		defer close(frames)
		defer close(errs)

		if conn == nil {
			errs <- errors.ErrNotConnected

			return
		}

		for {
			msgType, data, err := conn.Read(ctx)
			if err != nil {
				// Normal closure is not an error worth surfacing.
				if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
					t.log.Debug("Websocket closed normally")

					return
				}

				errs <- err

				return
			}

			frame := config.Frame{
				Data:   data,
				Binary: msgType == websocket.MessageBinary,
			}

			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frames, errs
}

// WriteFrame writes one text frame to the websocket.
func (t *Transport) WriteFrame(ctx context.Context, data []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return errors.ErrNotConnected
	}

	return conn.Write(ctx, websocket.MessageText, data)
}

// Close closes the websocket. Safe to call multiple times.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.conn == nil {
		t.closed = true

		return nil
	}

	t.closed = true
	t.connected = false

	return t.conn.Close(websocket.StatusNormalClosure, "client closing")
}
