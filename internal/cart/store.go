package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SessionSource exposes the current authenticated identity. The store reads
// it before every operation; it never owns or mutates the session.
type SessionSource interface {
	// UserID returns the current user ID and whether a session exists.
	UserID() (uuid.UUID, bool)
}

// FetchStatus is the typed outcome of a fetch, so callers can distinguish an
// empty cart from "not signed in" and "fetch failed".
type FetchStatus int

const (
	// FetchOK means the mirror was replaced with the backend's current list.
	FetchOK FetchStatus = iota
	// FetchNoSession means no session exists; the mirror was reset without
	// contacting the backend.
	FetchNoSession
	// FetchFailed means the backend call failed; the mirror was reset to empty.
	FetchFailed
	// FetchSuperseded means a newer fetch was issued while this one was in
	// flight; its result was discarded.
	FetchSuperseded
)

// FetchResult reports the outcome of a Fetch. Err is set only for FetchFailed.
type FetchResult struct {
	Status FetchStatus
	Err    error
}

// Store mirrors one user's cart rows in memory. The backend remains the
// authority: every mutation is followed by a full refetch rather than a local
// patch, and the mirror is replaced wholesale each time.
type Store struct {
	gateway Gateway
	session SessionSource
	logger  *slog.Logger

	mu      sync.Mutex
	items   []Item
	loading bool

	// fetchSeq tags each fetch; only the latest issued fetch may replace the
	// mirror, so a late-arriving stale response cannot overwrite fresher state.
	fetchSeq atomic.Uint64
}

// NewStore creates a cart store bound to the given session source.
func NewStore(gateway Gateway, session SessionSource, logger *slog.Logger) *Store {
	return &Store{
		gateway: gateway,
		session: session,
		logger:  logger.With("component", "cart_store"),
	}
}

// Items returns a copy of the current in-memory item list.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Fetch replaces the in-memory list with the backend's current cart rows for
// the session user. Without a session it resets the mirror and returns
// FetchNoSession without contacting the backend.
func (s *Store) Fetch(ctx context.Context) FetchResult {
	userID, ok := s.session.UserID()
	if !ok {
		s.mu.Lock()
		s.items = nil
		s.loading = false
		s.mu.Unlock()
		return FetchResult{Status: FetchNoSession}
	}

	token := s.fetchSeq.Add(1)
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.gateway.ListByUser(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.fetchSeq.Load() {
		// A newer fetch owns the mirror (and the loading flag) now.
		return FetchResult{Status: FetchSuperseded}
	}
	s.loading = false
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch cart items", "user_id", userID, "error", err)
		s.items = nil
		return FetchResult{Status: FetchFailed, Err: err}
	}
	s.items = items
	return FetchResult{Status: FetchOK}
}

// Add puts quantity units of the product into the user's cart. An existing
// row for the same product has its quantity incremented; otherwise a new row
// is inserted. Either way the full list is refetched afterwards.
//
// The existence check and the write are two separate backend calls: two
// concurrent Adds for the same product can both observe "no existing row" and
// both insert. The backend does not expose an atomic upsert-with-increment,
// so the merge stays a read-before-write (see DESIGN.md).
func (s *Store) Add(ctx context.Context, productID uuid.UUID, quantity int32) error {
	userID, ok := s.session.UserID()
	if !ok {
		return ErrAuthRequired
	}
	if quantity < 1 {
		quantity = 1
	}

	existing, err := s.gateway.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		if err := s.gateway.UpdateQuantity(ctx, userID, existing.ID, existing.Quantity+quantity); err != nil {
			return fmt.Errorf("failed to merge cart item: %w", err)
		}
	case errors.Is(err, ErrItemNotFound):
		if err := s.gateway.Insert(ctx, userID, productID, quantity); err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up cart item: %w", err)
	}

	s.refetch(ctx)
	return nil
}

// UpdateQuantity sets a cart row's quantity. A non-positive quantity means
// removal, not a validation error. The row must belong to the session user;
// another user's row reads as ErrItemNotFound.
func (s *Store) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		return s.Remove(ctx, itemID)
	}
	userID, ok := s.session.UserID()
	if !ok {
		return ErrAuthRequired
	}
	if err := s.gateway.UpdateQuantity(ctx, userID, itemID, quantity); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	s.refetch(ctx)
	return nil
}

// Remove deletes one of the session user's cart rows by its ID and refetches.
// Removing an already deleted row is treated as success; the gateway's user
// scoping means another user's row looks exactly like a missing one.
func (s *Store) Remove(ctx context.Context, itemID uuid.UUID) error {
	userID, ok := s.session.UserID()
	if !ok {
		return ErrAuthRequired
	}
	if err := s.gateway.DeleteByID(ctx, userID, itemID); err != nil && !errors.Is(err, ErrItemNotFound) {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	s.refetch(ctx)
	return nil
}

// Clear deletes all of the user's cart rows. The local mirror is reset only
// when the backend delete succeeds; on failure the mirror is left untouched
// and the error is returned.
func (s *Store) Clear(ctx context.Context) error {
	userID, ok := s.session.UserID()
	if !ok {
		return ErrAuthRequired
	}
	if err := s.gateway.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	return nil
}

// TotalPrice returns the sum of price x quantity over the mirror, counting 0
// for items whose product snapshot is missing.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.items {
		if item.Product != nil {
			total += item.Product.Price * int64(item.Quantity)
		}
	}
	return total
}

// TotalItems returns the sum of quantities across the mirror.
func (s *Store) TotalItems() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int32
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// refetch resynchronizes the mirror after a successful mutation. The mutation
// already succeeded, so a refetch failure is logged by Fetch but not
// propagated to the caller.
func (s *Store) refetch(ctx context.Context) {
	s.Fetch(ctx)
}
