package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rosbridge "github.com/wagiedev/rosbridge-go"
)

// fakeBridge is an in-process rosbridge server speaking the JSON protocol
// over a real websocket. It echoes publications back to subscribers on the
// same connection and answers /add_two_ints service calls, which is enough
// to exercise the full client stack end to end.
type fakeBridge struct {
	server *httptest.Server
}

func newFakeBridge(t *testing.T) *fakeBridge {
	t.Helper()

	b := &fakeBridge{}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))

	t.Cleanup(b.server.Close)

	return b
}

// URL returns the ws:// address of the fake server.
func (b *fakeBridge) URL() string {
	return "ws://" + strings.TrimPrefix(b.server.URL, "http://")
}

func (b *fakeBridge) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}

	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	var mu sync.Mutex

	subscribed := make(map[string]bool)

	send := func(env map[string]any) {
		data, err := json.Marshal(env)
		if err != nil {
			return
		}

		mu.Lock()
		defer mu.Unlock()

		_ = conn.Write(ctx, websocket.MessageText, data)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var env map[string]any
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		op, _ := env["op"].(string)
		topic, _ := env["topic"].(string)

		switch op {
		case "subscribe":
			subscribed[topic] = true

		case "unsubscribe":
			delete(subscribed, topic)

		case "publish":
			if subscribed[topic] {
				send(map[string]any{"op": "publish", "topic": topic, "msg": env["msg"]})
			}

		case "call_service":
			service, _ := env["service"].(string)

			switch service {
			case "/add_two_ints":
				args, _ := env["args"].(map[string]any)
				a, _ := args["a"].(float64)
				c, _ := args["b"].(float64)

				send(map[string]any{
					"op":     "service_response",
					"id":     env["id"],
					"result": true,
					"values": map[string]any{"sum": a + c},
				})

			default:
				send(map[string]any{
					"op":     "service_response",
					"id":     env["id"],
					"result": false,
					"values": "service not found: " + service,
				})
			}
		}
	}
}

func TestEndToEnd_ServiceCall(t *testing.T) {
	bridge := newFakeBridge(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := rosbridge.WithRos(ctx, bridge.URL(), func(ros rosbridge.Ros) error {
		add := rosbridge.NewService(ros, "/add_two_ints", "rospy_tutorials/AddTwoInts")

		values, err := add.Call(ctx, map[string]any{"a": 19, "b": 23})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"sum": float64(42)}, values)

		_, err = ros.CallService(ctx, "/nonexistent", nil)

		var svcErr *rosbridge.ServiceResponseError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "/nonexistent", svcErr.Service)

		return nil
	})
	require.NoError(t, err)
}

func TestEndToEnd_PublishSubscribe(t *testing.T) {
	bridge := newFakeBridge(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ros := rosbridge.NewRos(bridge.URL())
	defer ros.Close()

	require.NoError(t, ros.Connect(ctx))
	require.True(t, ros.Connected())

	chatter := rosbridge.NewTopic(ros, "/chatter", "std_msgs/String")

	received := make(chan any, 1)

	require.NoError(t, chatter.Subscribe(ctx, func(msg any) {
		received <- msg
	}))

	require.NoError(t, chatter.Publish(ctx, map[string]any{"data": "hello"}))

	select {
	case msg := <-received:
		assert.Equal(t, map[string]any{"data": "hello"}, msg)
	case <-ctx.Done():
		t.Fatal("publication was not echoed back")
	}

	require.NoError(t, chatter.Unsubscribe(ctx))
	require.NoError(t, ros.Close())
	assert.False(t, ros.Connected())
}

func TestEndToEnd_ReadinessCallback(t *testing.T) {
	bridge := newFakeBridge(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ros := rosbridge.NewRos(bridge.URL())
	defer ros.Close()

	ready := make(chan error, 1)

	ros.WhenReady(func(err error) { ready <- err })

	require.NoError(t, ros.Connect(ctx))

	select {
	case err := <-ready:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("readiness callback did not fire")
	}
}

func TestEndToEnd_ConnectRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Nothing listens on this port.
	ros := rosbridge.NewRos("ws://127.0.0.1:1")
	defer ros.Close()

	err := ros.Connect(ctx)
	require.Error(t, err)

	var connErr *rosbridge.ConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.False(t, ros.Connected())
}
