package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/soukly/storefront/internal/profile"
	"github.com/soukly/storefront/pkg/web"
)

// profileService abstracts the profile operations the handler needs.
type profileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, updates profile.Updates) (*profile.Profile, error)
}

type ProfileHandler struct {
	service  profileService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProfileHandler creates a new instance of ProfileHandler with the provided service.
func NewProfileHandler(service profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the authenticated profile routes.
func (h *ProfileHandler) RegisterRoutes(r *chi.Mux, authMw func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMw)
		r.Route("/api/v1/profile", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
		})
	})
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			mLogger.WarnContext(r.Context(), "Profile not found", "UserID", userID)
			web.RespondError(w, mLogger, http.StatusNotFound, "Profile not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving profile", "UserID", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved profile", "UserID", userID)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Update applies a partial profile update and returns the refreshed record.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	var updates profile.Updates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(updates); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to update profile", "UserID", userID)
	updated, err := h.service.Update(r.Context(), userID, updates)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			mLogger.WarnContext(r.Context(), "Profile not found for update", "UserID", userID)
			web.RespondError(w, mLogger, http.StatusNotFound, "Profile not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating profile", "UserID", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	mLogger.InfoContext(r.Context(), "Profile updated successfully", "UserID", userID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *ProfileHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
