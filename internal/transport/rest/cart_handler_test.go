package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soukly/storefront/internal/cart"
	"github.com/soukly/storefront/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCartGateway is a canned-response implementation of cart.Gateway.
type mockCartGateway struct {
	items     []cart.Item
	existing  *cart.Item
	listErr   error
	findErr   error
	insertErr error
	updateErr error
	deleteErr error
	clearErr  error
}

func (m *mockCartGateway) ListByUser(context.Context, uuid.UUID) ([]cart.Item, error) {
	return m.items, m.listErr
}

func (m *mockCartGateway) FindByUserAndProduct(context.Context, uuid.UUID, uuid.UUID) (*cart.Item, error) {
	if m.existing != nil {
		return m.existing, nil
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	return nil, cart.ErrItemNotFound
}

func (m *mockCartGateway) Insert(context.Context, uuid.UUID, uuid.UUID, int32) error {
	return m.insertErr
}

func (m *mockCartGateway) UpdateQuantity(context.Context, uuid.UUID, uuid.UUID, int32) error {
	return m.updateErr
}

func (m *mockCartGateway) DeleteByID(context.Context, uuid.UUID, uuid.UUID) error {
	return m.deleteErr
}

func (m *mockCartGateway) DeleteByUser(context.Context, uuid.UUID) error {
	return m.clearErr
}

func newCartAPI(gateway cart.Gateway) *CartHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewCartHandler(cart.NewManager(gateway, logger), logger)
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(web.WithUserID(req.Context(), userID.String()))
}

func Test_CartAPI_View(t *testing.T) {
	mockUserID := uuid.New()
	mockItems := []cart.Item{
		{
			ID:        uuid.New(),
			UserID:    mockUserID,
			ProductID: uuid.New(),
			Quantity:  2,
			CreatedAt: time.Now(),
			Product:   &cart.ProductSnapshot{Name: "Keyboard", Price: 4999},
		},
	}

	testCases := []struct {
		name          string
		gateway       *mockCartGateway
		userID        uuid.UUID
		expectedCode  int
		expectedTotal int64
		expectedBadge string
	}{
		{
			name:          "success with totals and badge",
			gateway:       &mockCartGateway{items: mockItems},
			userID:        mockUserID,
			expectedCode:  http.StatusOK,
			expectedTotal: 9998,
			expectedBadge: "2",
		},
		{
			name:         "backend failure",
			gateway:      &mockCartGateway{listErr: errors.New("connection refused")},
			userID:       mockUserID,
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCartAPI(tc.gateway)
			req := authedRequest(http.MethodGet, "/api/v1/cart", "", tc.userID)
			rr := httptest.NewRecorder()

			// when
			api.View(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode != http.StatusOK {
				return
			}
			var view CartViewDto
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
			assert.Len(t, view.Items, 1)
			assert.Equal(t, tc.expectedTotal, view.TotalPrice)
			assert.Equal(t, tc.expectedBadge, view.Badge)
		})
	}
}

func Test_CartAPI_View_MissingUser(t *testing.T) {
	// given: no user ID in the context
	api := newCartAPI(&mockCartGateway{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rr := httptest.NewRecorder()

	// when
	api.View(rr, req)

	// then
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func Test_CartAPI_AddItem(t *testing.T) {
	mockUserID := uuid.New()
	mockProductID := uuid.New()

	testCases := []struct {
		name         string
		gateway      *mockCartGateway
		body         string
		expectedCode int
	}{
		{
			name:         "success - new row",
			gateway:      &mockCartGateway{},
			body:         `{"product_id":"` + mockProductID.String() + `","quantity":2}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "success - quantity omitted defaults to one",
			gateway:      &mockCartGateway{},
			body:         `{"product_id":"` + mockProductID.String() + `"}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "missing product id",
			gateway:      &mockCartGateway{},
			body:         `{"quantity":2}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "malformed body",
			gateway:      &mockCartGateway{},
			body:         `{"product_id":`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "backend insert failure",
			gateway:      &mockCartGateway{insertErr: errors.New("connection refused")},
			body:         `{"product_id":"` + mockProductID.String() + `","quantity":2}`,
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCartAPI(tc.gateway)
			req := authedRequest(http.MethodPost, "/api/v1/cart/items", tc.body, mockUserID)
			rr := httptest.NewRecorder()

			// when
			api.AddItem(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_CartAPI_UpdateItem(t *testing.T) {
	mockUserID := uuid.New()
	mockItemID := uuid.New()

	testCases := []struct {
		name         string
		gateway      *mockCartGateway
		itemID       string
		body         string
		expectedCode int
	}{
		{
			name:         "success",
			gateway:      &mockCartGateway{},
			itemID:       mockItemID.String(),
			body:         `{"quantity":3}`,
			expectedCode: http.StatusOK,
		},
		{
			name:         "zero quantity removes instead of failing",
			gateway:      &mockCartGateway{},
			itemID:       mockItemID.String(),
			body:         `{"quantity":0}`,
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid id",
			gateway:      &mockCartGateway{},
			itemID:       "123-invalid",
			body:         `{"quantity":3}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "row vanished",
			gateway:      &mockCartGateway{updateErr: cart.ErrItemNotFound},
			itemID:       mockItemID.String(),
			body:         `{"quantity":3}`,
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCartAPI(tc.gateway)
			req := authedRequest(http.MethodPut, "/api/v1/cart/items/"+tc.itemID, tc.body, mockUserID)
			req.SetPathValue("id", tc.itemID)
			rr := httptest.NewRecorder()

			// when
			api.UpdateItem(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_CartAPI_Clear(t *testing.T) {
	mockUserID := uuid.New()

	testCases := []struct {
		name         string
		gateway      *mockCartGateway
		expectedCode int
	}{
		{
			name:         "success",
			gateway:      &mockCartGateway{},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "backend failure propagates",
			gateway:      &mockCartGateway{clearErr: errors.New("connection reset")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCartAPI(tc.gateway)
			req := authedRequest(http.MethodDelete, "/api/v1/cart", "", mockUserID)
			rr := httptest.NewRecorder()

			// when
			api.Clear(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_CartAPI_Checkout(t *testing.T) {
	mockUserID := uuid.New()
	nonEmpty := []cart.Item{{
		ID:       uuid.New(),
		UserID:   mockUserID,
		Quantity: 2,
		Product:  &cart.ProductSnapshot{Price: 4999},
	}}

	testCases := []struct {
		name         string
		gateway      *mockCartGateway
		expectedCode int
	}{
		{
			name:         "non-empty cart proceeds",
			gateway:      &mockCartGateway{items: nonEmpty},
			expectedCode: http.StatusOK,
		},
		{
			name:         "empty cart is rejected",
			gateway:      &mockCartGateway{},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "backend failure",
			gateway:      &mockCartGateway{listErr: errors.New("connection refused")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCartAPI(tc.gateway)
			req := authedRequest(http.MethodPost, "/api/v1/checkout", "", mockUserID)
			rr := httptest.NewRecorder()

			// when
			api.Checkout(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusOK {
				var payload map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
				assert.Equal(t, "checkout", payload["next"])
				assert.Equal(t, float64(9998), payload["total_price"])
			}
		})
	}
}

func Test_Badge(t *testing.T) {
	testCases := []struct {
		total    int32
		expected string
	}{
		{total: 0, expected: ""},
		{total: 1, expected: "1"},
		{total: 9, expected: "9"},
		{total: 10, expected: "9+"},
		{total: 42, expected: "9+"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, badge(tc.total))
	}
}
