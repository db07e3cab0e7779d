// Package protocol implements the rosbridge dispatch and correlation engine.
//
// The package provides the pieces a rosbridge client composes per
// connection: a Dispatcher that routes inbound envelopes to handlers by
// operation tag and correlates service responses with their originating
// calls, a Session that pumps frames between a transport and the
// dispatcher, and a ReadyGate that signals exactly once when a connection
// attempt becomes usable (or fails to).
//
// The Dispatcher is long-lived and shared across reconnect attempts, so
// registered handlers and outstanding service requests survive a dropped
// connection. Sessions and gates are per-attempt and single-use.
//
// Example usage:
//
//	dispatcher := protocol.NewDispatcher(log, emitter.Emit)
//	gate := protocol.NewReadyGate()
//
//	session := protocol.NewSession(log, transport, dispatcher, gate)
//	session.Start(ctx)
//
//	gate.WhenReady(func(s *protocol.Session, err error) {
//		// connection attempt settled
//	})
package protocol
