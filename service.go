package rosbridge

import "context"

// Service is a handle for calling one ROS service.
type Service struct {
	ros         Ros
	name        string
	serviceType string
}

// NewService creates a handle for a service, e.g.
//
//	topics := NewService(ros, "/rosapi/topics", "rosapi/Topics")
func NewService(ros Ros, name, serviceType string) *Service {
	return &Service{
		ros:         ros,
		name:        name,
		serviceType: serviceType,
	}
}

// Name returns the service name.
func (s *Service) Name() string {
	return s.name
}

// ServiceType returns the ROS service type.
func (s *Service) ServiceType() string {
	return s.serviceType
}

// Call performs the service call and waits for the response values.
// Returns ServiceResponseError if the server reported failure.
func (s *Service) Call(ctx context.Context, args any) (any, error) {
	return s.ros.CallService(ctx, s.name, args)
}

// CallAsync sends the service call and returns its request id without
// waiting. Exactly one of the callbacks fires when the response arrives;
// either may be nil.
func (s *Service) CallAsync(
	ctx context.Context,
	args any,
	onSuccess, onFailure ResponseCallback,
) (string, error) {
	return s.ros.CallServiceAsync(ctx, s.name, args, onSuccess, onFailure)
}
