package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/soukly/storefront/internal/cart"
	"github.com/soukly/storefront/pkg/web"
)

// badgeMax caps the cart badge; anything above renders as "9+".
const badgeMax = 9

type CartHandler struct {
	manager  *cart.Manager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCartHandler creates a new instance of CartHandler with the provided manager.
func NewCartHandler(manager *cart.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		manager:  manager,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// CartItemCreateDto is the request body for adding a product to the cart.
type CartItemCreateDto struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int32  `json:"quantity" validate:"gte=0"`
}

// CartItemUpdateDto is the request body for changing an item quantity.
// A quantity of zero or less removes the item.
type CartItemUpdateDto struct {
	Quantity int32 `json:"quantity"`
}

// CartViewDto is the cart screen payload: items plus derived totals.
type CartViewDto struct {
	Items      []cart.Item `json:"items"`
	TotalPrice int64       `json:"total_price"`
	TotalItems int32       `json:"total_items"`
	Badge      string      `json:"badge,omitempty"`
}

// RegisterRoutes registers the authenticated cart and checkout routes.
func (h *CartHandler) RegisterRoutes(r *chi.Mux, authMw func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMw)
		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", h.View)
			r.Delete("/", h.Clear)
			r.Post("/items", h.AddItem)

			r.Route("/items/{id}", func(r chi.Router) {
				r.Put("/", h.UpdateItem)
				r.Delete("/", h.RemoveItem)
			})
		})
		r.Post("/api/v1/checkout", h.Checkout)
	})
}

// View refreshes the user's cart from the backend and returns it with totals.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	store := h.manager.StoreFor(userID)
	result := store.Fetch(r.Context())
	switch result.Status {
	case cart.FetchNoSession:
		mLogger.WarnContext(r.Context(), "Cart fetch without active session", "UserID", userID)
		web.RespondError(w, mLogger, http.StatusUnauthorized, "Authentication required")
		return
	case cart.FetchFailed:
		mLogger.ErrorContext(r.Context(), "Error fetching cart", "UserID", userID, "error", result.Err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	// FetchOK, or FetchSuperseded: a newer fetch already replaced the
	// snapshot, so the current state is at least as fresh.
	mLogger.DebugContext(r.Context(), "Successfully fetched cart", "UserID", userID, "items", store.TotalItems())
	web.RespondJSON(w, mLogger, http.StatusOK, h.view(store))
}

// AddItem adds a product to the cart, merging with an existing row for the
// same product.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	var dto CartItemCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}
	productID, err := uuid.Parse(dto.ProductID)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Invalid product ID", "product_id", dto.ProductID)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid product ID")
		return
	}
	quantity := dto.Quantity
	if quantity == 0 {
		quantity = 1
	}

	mLogger.DebugContext(r.Context(), "Received request to add cart item",
		"UserID", userID, "ProductID", productID, "quantity", quantity)
	store := h.manager.StoreFor(userID)
	if err := store.Add(r.Context(), productID, quantity); err != nil {
		if errors.Is(err, cart.ErrAuthRequired) {
			mLogger.WarnContext(r.Context(), "Cart mutation without active session", "UserID", userID)
			web.RespondError(w, mLogger, http.StatusUnauthorized, "Authentication required")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error adding cart item", "UserID", userID, "ProductID", productID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart item added", "UserID", userID, "ProductID", productID)
	web.RespondJSON(w, mLogger, http.StatusCreated, h.view(store))
}

// UpdateItem changes an item quantity. Zero or negative removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	itemID, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto CartItemUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to update cart item",
		"UserID", userID, "ID", itemID, "quantity", dto.Quantity)
	store := h.manager.StoreFor(userID)
	if err := store.UpdateQuantity(r.Context(), itemID, dto.Quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			mLogger.WarnContext(r.Context(), "Cart item not found", "ID", itemID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Cart item with ID %s not found", itemID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating cart item", "ID", itemID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update cart item")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart item updated", "UserID", userID, "ID", itemID)
	web.RespondJSON(w, mLogger, http.StatusOK, h.view(store))
}

// RemoveItem deletes a single item from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	itemID, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	store := h.manager.StoreFor(userID)
	if err := store.Remove(r.Context(), itemID); err != nil {
		mLogger.ErrorContext(r.Context(), "Error removing cart item", "ID", itemID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart item removed", "UserID", userID, "ID", itemID)
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every item from the user's cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	store := h.manager.StoreFor(userID)
	if err := store.Clear(r.Context()); err != nil {
		mLogger.ErrorContext(r.Context(), "Error clearing cart", "UserID", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart cleared", "UserID", userID)
	w.WriteHeader(http.StatusNoContent)
}

// Checkout validates that the cart is ready for checkout and returns the
// handoff payload. Payment itself happens outside this service.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	store := h.manager.StoreFor(userID)
	result := store.Fetch(r.Context())
	if result.Status == cart.FetchFailed {
		mLogger.ErrorContext(r.Context(), "Error fetching cart for checkout", "UserID", userID, "error", result.Err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	if store.TotalItems() == 0 {
		mLogger.WarnContext(r.Context(), "Checkout attempted with empty cart", "UserID", userID)
		web.RespondError(w, mLogger, http.StatusConflict, "Cart is empty")
		return
	}
	mLogger.InfoContext(r.Context(), "Checkout started",
		"UserID", userID, "items", store.TotalItems(), "total", store.TotalPrice())
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"next":        "checkout",
		"total_price": store.TotalPrice(),
		"total_items": store.TotalItems(),
	})
}

func (h *CartHandler) view(store *cart.Store) CartViewDto {
	return CartViewDto{
		Items:      store.Items(),
		TotalPrice: store.TotalPrice(),
		TotalItems: store.TotalItems(),
		Badge:      badge(store.TotalItems()),
	}
}

// badge renders the tab-bar badge: empty for zero, "9+" above badgeMax.
func badge(totalItems int32) string {
	switch {
	case totalItems <= 0:
		return ""
	case totalItems > badgeMax:
		return strconv.Itoa(badgeMax) + "+"
	default:
		return strconv.Itoa(int(totalItems))
	}
}

func (h *CartHandler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *CartHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
