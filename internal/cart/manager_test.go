package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soukly/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(gateway Gateway) *Manager {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewManager(gateway, logger)
}

func Test_Manager_StoreFor_ReturnsSameInstance(t *testing.T) {
	// given
	manager := newTestManager(newFakeGateway())
	userID := uuid.New()

	// when
	first := manager.StoreFor(userID)
	second := manager.StoreFor(userID)
	other := manager.StoreFor(uuid.New())

	// then
	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func Test_Manager_Drop_DetachesSession(t *testing.T) {
	// given: a store with a loaded mirror
	userID := uuid.New()
	gateway := newFakeGateway()
	manager := newTestManager(gateway)
	store := manager.StoreFor(userID)
	require.NoError(t, store.Add(context.Background(), uuid.New(), 2))
	require.Len(t, store.Items(), 1)

	// when
	manager.Drop(userID)

	// then: a straggling reference behaves like a signed-out caller
	assert.ErrorIs(t, store.Add(context.Background(), uuid.New(), 1), ErrAuthRequired)
	result := store.Fetch(context.Background())
	assert.Equal(t, FetchNoSession, result.Status)
	assert.Empty(t, store.Items())
}

func Test_Manager_Run_DropsStoreOnSignOut(t *testing.T) {
	// given
	userID := uuid.New()
	gateway := newFakeGateway()
	manager := newTestManager(gateway)
	store := manager.StoreFor(userID)
	require.NoError(t, store.Add(context.Background(), uuid.New(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan session.Event)
	done := make(chan struct{})
	go func() {
		manager.Run(ctx, events)
		close(done)
	}()

	// when
	events <- session.Event{Type: session.EventSignedOut, UserID: userID}

	// then
	require.Eventually(t, func() bool {
		return !manager.active(userID)
	}, time.Second, 10*time.Millisecond)

	// sign-in events do not create stores by themselves
	events <- session.Event{Type: session.EventSignedIn, UserID: userID}
	assert.False(t, manager.active(userID))

	cancel()
	<-done
}
