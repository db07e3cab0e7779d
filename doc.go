// Package rosbridge provides a Go client for the rosbridge JSON protocol.
//
// The client speaks to a robotics middleware gateway (rosbridge_suite) over
// a persistent websocket, letting a program publish and subscribe to ROS
// topics and call ROS services without handling connection management or
// message framing.
//
// # Basic Usage
//
// Create a client, connect, and work with topics and services:
//
//	ros := rosbridge.NewRos("ws://localhost:9090")
//	if err := ros.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer ros.Close()
//
//	scan := rosbridge.NewTopic(ros, "/scan", "sensor_msgs/LaserScan")
//	err := scan.Subscribe(ctx, func(msg any) {
//	    fmt.Println("got scan:", msg)
//	})
//
//	topics := rosbridge.NewService(ros, "/rosapi/topics", "rosapi/Topics")
//	values, err := topics.Call(ctx, nil)
//
// # Readiness
//
// Connect returns once the connection is usable, but interested parties can
// also observe the outcome of the current connection attempt:
//
//	ros.WhenReady(func(err error) {
//	    if err != nil {
//	        log.Printf("connection attempt failed: %v", err)
//	    }
//	})
//
// # Reconnection
//
// With WithReconnect, a dropped connection is re-established with jittered
// exponential delay. Each attempt gets a fresh session and readiness gate.
// Registered handlers and topic subscriptions survive reconnects; subscribe
// announcements are replayed on the new connection. Outstanding service
// calls are not failed by a drop: a matching response arriving on the new
// connection still completes them, and one that never arrives leaves the
// synchronous CallService wrapper waiting until its context expires.
//
// # Extension Operations
//
// The protocol's publish and service_response operations are handled by the
// client itself. Handlers for other operations (status, auth, ...) can be
// registered, at most one per operation tag:
//
//	err := ros.RegisterHandler("status", func(env rosbridge.Envelope) error {
//	    fmt.Println("server status:", env["msg"])
//	    return nil
//	})
//
// # Logging
//
// The client is silent by default. For detailed operation tracking, pass a
// logger:
//
//	ros := rosbridge.NewRos("ws://localhost:9090",
//	    rosbridge.WithLogger(slog.Default()),
//	)
package rosbridge
