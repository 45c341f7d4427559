package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/soukly/storefront/internal/session"
)

// Manager keeps one Store per authenticated user and disposes of it on
// sign-out. It is the explicit context object handed to the transport layer;
// nothing reads ambient globals.
type Manager struct {
	gateway Gateway
	logger  *slog.Logger

	mu     sync.Mutex
	stores map[uuid.UUID]*Store
}

// NewManager creates a store manager over the given gateway.
func NewManager(gateway Gateway, logger *slog.Logger) *Manager {
	return &Manager{
		gateway: gateway,
		logger:  logger.With("component", "cart_manager"),
		stores:  make(map[uuid.UUID]*Store),
	}
}

// StoreFor returns the user's cart store, creating it on first use.
func (m *Manager) StoreFor(userID uuid.UUID) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.stores[userID]; ok {
		return st
	}
	st := NewStore(m.gateway, &boundSession{manager: m, userID: userID}, m.logger)
	m.stores[userID] = st
	return st
}

// Drop discards the user's store, clearing the in-memory mirror with it.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}

// active reports whether the user still has a registered store.
func (m *Manager) active(userID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stores[userID]
	return ok
}

// Run consumes the session-change stream until the context is cancelled.
// Sign-out drops the user's store. Subscribed once at process start.
func (m *Manager) Run(ctx context.Context, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == session.EventSignedOut {
				m.logger.Info("Session ended, dropping cart store", "user_id", ev.UserID)
				m.Drop(ev.UserID)
			}
		}
	}
}

// boundSession scopes a store to one user. The session reads as absent once
// the store has been dropped, so a straggling operation behaves like a
// signed-out caller instead of resurrecting state.
type boundSession struct {
	manager *Manager
	userID  uuid.UUID
}

func (b *boundSession) UserID() (uuid.UUID, bool) {
	if !b.manager.active(b.userID) {
		return uuid.Nil, false
	}
	return b.userID, true
}
