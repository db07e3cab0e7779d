// Package errors defines the error types used across the rosbridge client.
//
// Errors come in two flavors: typed errors carrying context (which op tag
// conflicted, which request id was unknown) and sentinel errors for simple
// state checks. All typed errors implement the RosBridgeError interface so
// callers can distinguish client errors from transport or stdlib errors.
package errors
