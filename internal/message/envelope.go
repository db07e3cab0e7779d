package message

// Operation tags consumed by the dispatcher's built-in handlers.
const (
	// OpPublish delivers a topic publication from the server.
	OpPublish = "publish"

	// OpServiceResponse completes an outstanding service call.
	OpServiceResponse = "service_response"
)

// Operation tags produced by callers and serialized as-is.
const (
	OpAdvertise   = "advertise"
	OpUnadvertise = "unadvertise"
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpCallService = "call_service"
)

// Envelope is one rosbridge message: a JSON object tagged with an "op" field.
//
// Wire format for a publication:
//
//	{
//	  "op": "publish",
//	  "topic": "/scan",
//	  "msg": {...}
//	}
//
// Wire format for a service response:
//
//	{
//	  "op": "service_response",
//	  "id": "call_service:/rosapi/topics:1",
//	  "result": true,
//	  "values": {...}
//	}
//
// Envelope is a plain map so fields the client does not interpret pass
// through serialization untouched. Accessors tolerate missing or mistyped
// fields and return zero values rather than panicking.
type Envelope map[string]any

// Op returns the operation tag, or "" if absent.
func (e Envelope) Op() string {
	if op, ok := e["op"].(string); ok {
		return op
	}

	return ""
}

// ID returns the request identifier, or "" if absent.
func (e Envelope) ID() string {
	if id, ok := e["id"].(string); ok {
		return id
	}

	return ""
}

// Topic returns the topic name of a publication, or "" if absent.
func (e Envelope) Topic() string {
	if topic, ok := e["topic"].(string); ok {
		return topic
	}

	return ""
}

// Msg returns the payload of a publication. May be nil.
func (e Envelope) Msg() any {
	return e["msg"]
}

// ResultOK reports whether a service response indicates success.
// An absent result field means success; only an explicit false is a failure.
func (e Envelope) ResultOK() bool {
	if result, ok := e["result"].(bool); ok {
		return result
	}

	return true
}

// Values returns the service response payload: the return values on
// success, or the error detail on failure. May be nil.
func (e Envelope) Values() any {
	return e["values"]
}
