// Package rest provides the HTTP surface of the storefront.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/soukly/storefront/internal/catalog"
	"github.com/soukly/storefront/pkg/web"
)

const (
	defaultPageSize   = 20
	featuredLimit     = 6
	homeCategoryLimit = 4
)

type CatalogHandler struct {
	service catalog.Browser
	logger  *slog.Logger
}

// NewCatalogHandler creates a new instance of CatalogHandler with the provided service.
func NewCatalogHandler(service catalog.Browser, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the public browsing routes.
func (h *CatalogHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.FindProductByID)
		r.Get("/home", h.Home)
		r.Get("/categories", h.ListCategories)
	})

	r.Get("/healthz", h.HealthCheck)
}

// ListProducts retrieves active products, optionally filtered by a search query.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseOptionalGt(r, w, mLogger, "limit", 0, defaultPageSize)
	if !ok {
		return
	}
	offset, ok := web.ParseOptionalGte(r, w, mLogger, "offset", 0, 0)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")

	mLogger.DebugContext(r.Context(), "Received request to list products", "limit", limit, "offset", offset, "q", query)
	list, err := h.service.Search(r.Context(), query, offset, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindProductByID retrieves a single product by its ID.
func (h *CatalogHandler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Home returns the landing screen payload: featured products and top categories.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	featured, err := h.service.Featured(r.Context(), featuredLimit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving featured products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch home content")
		return
	}
	categories, err := h.service.Categories(r.Context(), homeCategoryLimit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving home categories", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch home content")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved home content",
		"featured", len(featured), "categories", len(categories))
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"featured_products": featured,
		"categories":        categories,
	})
}

// ListCategories retrieves product categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseOptionalGt(r, w, mLogger, "limit", 0, defaultPageSize)
	if !ok {
		return
	}

	list, err := h.service.Categories(r.Context(), limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving category list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved category list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// HealthCheck is a simple health check endpoint.
func (h *CatalogHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *CatalogHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
