package rosbridge

import (
	"github.com/wagiedev/rosbridge-go/internal/config"
	"github.com/wagiedev/rosbridge-go/internal/emitter"
	"github.com/wagiedev/rosbridge-go/internal/message"
	"github.com/wagiedev/rosbridge-go/internal/protocol"
)

// Envelope is one rosbridge message: a JSON object tagged with an "op" field.
// Fields the client does not interpret pass through serialization untouched.
type Envelope = message.Envelope

// Handler processes one inbound envelope for a registered operation tag.
type Handler = protocol.Handler

// ResponseCallback receives the values payload of a service response.
type ResponseCallback = protocol.ResponseCallback

// SubscriberCallback receives the payload of a topic publication.
type SubscriberCallback = emitter.Callback

// Frame is one raw message exchanged with the transport.
type Frame = config.Frame

// Operation tags handled by the client's built-in handlers.
const (
	// OpPublish delivers a topic publication from the server.
	OpPublish = message.OpPublish

	// OpServiceResponse completes an outstanding service call.
	OpServiceResponse = message.OpServiceResponse
)

// Operation tags produced by the client.
const (
	OpAdvertise   = message.OpAdvertise
	OpUnadvertise = message.OpUnadvertise
	OpSubscribe   = message.OpSubscribe
	OpUnsubscribe = message.OpUnsubscribe
	OpCallService = message.OpCallService
)
