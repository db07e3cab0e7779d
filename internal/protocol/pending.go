package protocol

import (
	"sync"

	"github.com/wagiedev/rosbridge-go/internal/errors"
)

// ResponseCallback receives the values payload of a service response: the
// return values on success, or the error detail on failure.
type ResponseCallback func(values any)

// pendingRequest tracks an outstanding service call awaiting its response.
// The table owns the entry from registration until exactly one callback
// fires, at which point the entry is removed.
type pendingRequest struct {
	id        string
	onSuccess ResponseCallback
	onFailure ResponseCallback
}

// pendingTable is the correlation table for outstanding service requests,
// keyed by the caller-assigned request id.
//
// Outbound sends register entries from arbitrary caller goroutines while the
// read pump consumes them, so all access goes through the mutex.
type pendingTable struct {
	mu      sync.Mutex
	pending map[string]*pendingRequest
}

func newPendingTable() *pendingTable {
	return &pendingTable{
		pending: make(map[string]*pendingRequest, 10),
	}
}

// register stores a pending request. Ids must be unique among currently
// outstanding requests; reusing a live id fails with DuplicateRequestIDError
// rather than silently overwriting the earlier entry.
func (t *pendingTable) register(id string, onSuccess, onFailure ResponseCallback) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.pending[id]; exists {
		return &errors.DuplicateRequestIDError{ID: id}
	}

	t.pending[id] = &pendingRequest{
		id:        id,
		onSuccess: onSuccess,
		onFailure: onFailure,
	}

	return nil
}

// take atomically removes and returns the pending request for id.
// Returns UnknownRequestIDError if no entry exists, including when a
// response for the same id was already consumed.
func (t *pendingTable) take(id string) (*pendingRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req, exists := t.pending[id]
	if !exists {
		return nil, &errors.UnknownRequestIDError{ID: id}
	}

	delete(t.pending, id)

	return req, nil
}

// remove discards the entry for id, if any. Used to roll back a
// registration when the request could not be sent.
func (t *pendingTable) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, id)
}

// size returns the number of outstanding requests.
func (t *pendingTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pending)
}
