// Package message defines the rosbridge wire envelope.
//
// Every message exchanged with a rosbridge server is a single JSON object
// carrying an "op" discriminator. The Envelope type wraps the decoded object
// and provides typed accessors for the fields the client interprets; all
// other fields are carried through unchanged.
package message
