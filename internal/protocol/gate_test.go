package protocol

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyGate_CallbacksBeforeResolution(t *testing.T) {
	gate := NewReadyGate()
	session := &Session{id: "test"}

	var order []int

	gate.WhenReady(func(s *Session, err error) {
		require.Same(t, session, s)
		require.NoError(t, err)

		order = append(order, 1)
	})
	gate.WhenReady(func(s *Session, err error) {
		require.Same(t, session, s)
		require.NoError(t, err)

		order = append(order, 2)
	})

	gate.Resolve(session)

	// Both callbacks fired exactly once, in registration order.
	assert.Equal(t, []int{1, 2}, order)
}

func TestReadyGate_CallbackAfterResolution(t *testing.T) {
	gate := NewReadyGate()
	session := &Session{id: "test"}

	gate.Resolve(session)

	var calls int

	gate.WhenReady(func(s *Session, err error) {
		require.Same(t, session, s)
		require.NoError(t, err)

		calls++
	})

	assert.Equal(t, 1, calls)
}

func TestReadyGate_FailureOutcome(t *testing.T) {
	gate := NewReadyGate()
	cause := errors.New("connection refused")

	var got error

	gate.WhenReady(func(s *Session, err error) {
		require.Nil(t, s)

		got = err
	})

	gate.Fail(cause)

	require.ErrorIs(t, got, cause)

	session, err := gate.Outcome()
	assert.Nil(t, session)
	assert.ErrorIs(t, err, cause)
}

func TestReadyGate_ResolvedExactlyOnce(t *testing.T) {
	gate := NewReadyGate()
	session := &Session{id: "first"}

	var calls int

	gate.WhenReady(func(*Session, error) { calls++ })

	gate.Resolve(session)
	gate.Resolve(&Session{id: "second"})
	gate.Fail(errors.New("too late"))

	assert.Equal(t, 1, calls)

	got, err := gate.Outcome()
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestReadyGate_Settled(t *testing.T) {
	gate := NewReadyGate()
	assert.False(t, gate.Settled())

	gate.Fail(errors.New("refused"))
	assert.True(t, gate.Settled())

	resolved := NewReadyGate()
	resolved.Resolve(&Session{id: "test"})
	assert.True(t, resolved.Settled())
}

func TestReadyGate_DoneChannel(t *testing.T) {
	gate := NewReadyGate()

	select {
	case <-gate.Done():
		t.Fatal("done channel closed before resolution")
	default:
	}

	gate.Fail(errors.New("never opened"))

	select {
	case <-gate.Done():
		// Expected
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestReadyGate_ConcurrentSettle(t *testing.T) {
	// Verify racing Resolve and Fail never fire callbacks twice.
	// Run with: go test -race -count=100
	for range 100 {
		gate := NewReadyGate()

		var mu sync.Mutex

		var calls int

		gate.WhenReady(func(*Session, error) {
			mu.Lock()
			calls++
			mu.Unlock()
		})

		var wg sync.WaitGroup

		wg.Add(2)

		go func() {
			defer wg.Done()

			gate.Resolve(&Session{id: "race"})
		}()

		go func() {
			defer wg.Done()

			gate.Fail(errors.New("race"))
		}()

		wg.Wait()

		require.Equal(t, 1, calls)
	}
}
