// Package wstransport provides the default websocket transport for
// connecting to a rosbridge server.
//
// rosbridge_suite exposes its JSON protocol over a websocket, one UTF-8
// JSON object per text frame. This package adapts github.com/coder/websocket
// to the transport contract the protocol session consumes: channel-based
// frame delivery from a single reader goroutine, context-aware writes, and
// idempotent close.
package wstransport
