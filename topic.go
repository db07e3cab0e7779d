package rosbridge

import (
	"context"
	"sync"
)

// Topic is a handle for publishing and subscribing to one ROS topic.
//
// A Topic tracks its own advertisement and subscription state; the same
// underlying topic can safely be used through multiple Topic handles or the
// Ros client directly.
type Topic struct {
	ros         Ros
	name        string
	messageType string

	mu              sync.Mutex
	advertiseID     string
	subscriptionIDs []string
}

// NewTopic creates a handle for a topic, e.g.
//
//	scan := NewTopic(ros, "/scan", "sensor_msgs/LaserScan")
func NewTopic(ros Ros, name, messageType string) *Topic {
	return &Topic{
		ros:         ros,
		name:        name,
		messageType: messageType,
	}
}

// Name returns the topic name.
func (t *Topic) Name() string {
	return t.name
}

// MessageType returns the ROS message type of the topic.
func (t *Topic) MessageType() string {
	return t.messageType
}

// IsAdvertised reports whether this handle currently advertises the topic.
func (t *Topic) IsAdvertised() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.advertiseID != ""
}

// Advertise announces this client as a publisher of the topic.
// Advertising an already-advertised handle is a no-op.
func (t *Topic) Advertise(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.advertiseID != "" {
		return nil
	}

	id := t.ros.NextID("advertise:" + t.name)

	env := Envelope{
		"op":    OpAdvertise,
		"id":    id,
		"topic": t.name,
		"type":  t.messageType,
	}

	if err := t.ros.Send(ctx, env); err != nil {
		return err
	}

	t.advertiseID = id

	return nil
}

// Unadvertise withdraws the advertisement. A no-op if not advertised.
func (t *Topic) Unadvertise(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.advertiseID == "" {
		return nil
	}

	env := Envelope{
		"op":    OpUnadvertise,
		"id":    t.advertiseID,
		"topic": t.name,
	}

	if err := t.ros.Send(ctx, env); err != nil {
		return err
	}

	t.advertiseID = ""

	return nil
}

// Publish sends one message on the topic, advertising first if needed.
func (t *Topic) Publish(ctx context.Context, msg any) error {
	if err := t.Advertise(ctx); err != nil {
		return err
	}

	env := Envelope{
		"op":    OpPublish,
		"id":    t.ros.NextID("publish:" + t.name),
		"topic": t.name,
		"msg":   msg,
	}

	return t.ros.Send(ctx, env)
}

// Subscribe registers a callback for messages published on the topic.
// Each call adds an independent subscription.
func (t *Topic) Subscribe(ctx context.Context, callback SubscriberCallback) error {
	id, err := t.ros.Subscribe(ctx, t.name, t.messageType, callback)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.subscriptionIDs = append(t.subscriptionIDs, id)
	t.mu.Unlock()

	return nil
}

// Unsubscribe removes every subscription made through this handle.
func (t *Topic) Unsubscribe(ctx context.Context) error {
	t.mu.Lock()
	ids := t.subscriptionIDs
	t.subscriptionIDs = nil
	t.mu.Unlock()

	for _, id := range ids {
		if err := t.ros.Unsubscribe(ctx, t.name, id); err != nil {
			return err
		}
	}

	return nil
}
