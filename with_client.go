package rosbridge

import (
	"context"
	"fmt"
)

// WithRos manages client lifecycle with automatic cleanup.
//
// This helper creates a client for the given URL, connects it, executes the
// callback function, and ensures proper cleanup via Close() when done.
//
// The callback receives a connected Ros client ready for use. If the
// callback returns an error, it is returned to the caller. If Close() fails,
// a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := rosbridge.WithRos(ctx, "ws://localhost:9090", func(ros rosbridge.Ros) error {
//	    values, err := ros.CallService(ctx, "/rosapi/topics", nil)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(values)
//	    return nil
//	},
//	    rosbridge.WithLogger(log),
//	)
func WithRos(ctx context.Context, url string, fn func(Ros) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	ros := NewRos(url, opts...)
	if err := ros.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	defer func() {
		if closeErr := ros.Close(); closeErr != nil {
			log.Warn("failed to close client", "error", closeErr)
		}
	}()

	return fn(ros)
}
