// Package emitter implements the topic fan-out capability injected into the
// protocol dispatcher.
//
// The dispatcher's built-in publish handler only supplies the call site; the
// registration API lives here so subscription bookkeeping stays out of the
// dispatch path.
package emitter
