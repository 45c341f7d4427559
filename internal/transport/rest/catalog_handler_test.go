package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/soukly/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBrowser is a mock implementation of the catalog.Browser interface
type mockBrowser struct {
	products   []catalog.Product
	product    *catalog.Product
	categories []catalog.Category
	error      error

	lastQuery string
	lastLimit int32
}

func (m *mockBrowser) FindActive(_ context.Context, _, limit int32) ([]catalog.Product, error) {
	m.lastLimit = limit
	return m.products, m.error
}

func (m *mockBrowser) Search(_ context.Context, query string, _, limit int32) ([]catalog.Product, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.products, m.error
}

func (m *mockBrowser) FindByID(_ context.Context, _ uuid.UUID) (*catalog.Product, error) {
	return m.product, m.error
}

func (m *mockBrowser) Featured(_ context.Context, limit int32) ([]catalog.Product, error) {
	m.lastLimit = limit
	return m.products, m.error
}

func (m *mockBrowser) Categories(_ context.Context, limit int32) ([]catalog.Category, error) {
	return m.categories, m.error
}

func newCatalogAPI(browser catalog.Browser) *CatalogHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewCatalogHandler(browser, logger)
}

func Test_CatalogAPI_ListProducts(t *testing.T) {
	mockProducts := []catalog.Product{{ID: uuid.New(), Name: "Keyboard", Price: 4999, IsActive: true}}

	testCases := []struct {
		name          string
		target        string
		mockService   *mockBrowser
		expectedCode  int
		expectedQuery string
		expectedLimit int32
	}{
		{
			name:          "default paging",
			target:        "/api/v1/products",
			mockService:   &mockBrowser{products: mockProducts},
			expectedCode:  http.StatusOK,
			expectedLimit: defaultPageSize,
		},
		{
			name:          "explicit limit and search query",
			target:        "/api/v1/products?limit=5&q=key",
			mockService:   &mockBrowser{products: mockProducts},
			expectedCode:  http.StatusOK,
			expectedQuery: "key",
			expectedLimit: 5,
		},
		{
			name:         "invalid limit",
			target:       "/api/v1/products?limit=0",
			mockService:  &mockBrowser{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "service error",
			target:       "/api/v1/products",
			mockService:  &mockBrowser{error: errors.New("connection refused")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCatalogAPI(tc.mockService)
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rr := httptest.NewRecorder()

			// when
			api.ListProducts(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode != http.StatusOK {
				return
			}
			assert.Equal(t, tc.expectedQuery, tc.mockService.lastQuery)
			assert.Equal(t, tc.expectedLimit, tc.mockService.lastLimit)
			var list []catalog.Product
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
			assert.Len(t, list, 1)
		})
	}
}

func Test_CatalogAPI_FindProductByID(t *testing.T) {
	mockID := uuid.New()

	testCases := []struct {
		name         string
		mockService  *mockBrowser
		productID    string
		expectedCode int
	}{
		{
			name:         "product found",
			mockService:  &mockBrowser{product: &catalog.Product{ID: mockID, Name: "Keyboard"}},
			productID:    mockID.String(),
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid id",
			mockService:  &mockBrowser{},
			productID:    "123-invalid",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "product not found",
			mockService:  &mockBrowser{error: catalog.ErrProductNotFound},
			productID:    mockID.String(),
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "service error",
			mockService:  &mockBrowser{error: errors.New("connection refused")},
			productID:    mockID.String(),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newCatalogAPI(tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rr := httptest.NewRecorder()

			// when
			api.FindProductByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_CatalogAPI_Home(t *testing.T) {
	// given
	mockService := &mockBrowser{
		products:   []catalog.Product{{Name: "Keyboard"}},
		categories: []catalog.Category{{Name: "Toys"}, {Name: "Office"}},
	}
	api := newCatalogAPI(mockService)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/home", nil)
	rr := httptest.NewRecorder()

	// when
	api.Home(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	var payload struct {
		FeaturedProducts []catalog.Product  `json:"featured_products"`
		Categories       []catalog.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Len(t, payload.FeaturedProducts, 1)
	assert.Len(t, payload.Categories, 2)
	assert.Equal(t, int32(featuredLimit), mockService.lastLimit)
}

func Test_CatalogAPI_HealthCheck(t *testing.T) {
	// given
	api := newCatalogAPI(&mockBrowser{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	// when
	api.HealthCheck(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
}
