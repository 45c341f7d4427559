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
	"github.com/soukly/storefront/internal/session"
	"github.com/soukly/storefront/pkg/web"
)

// authService abstracts the identity operations the handler needs.
type authService interface {
	SignUp(ctx context.Context, email, password, fullName string) (uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error
}

type AuthHandler struct {
	service  authService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAuthHandler creates a new instance of AuthHandler with the provided service.
func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterDto is the request body for account registration.
type RegisterDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

// LoginDto is the request body for signing in.
type LoginDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LogoutDto carries the refresh token to revoke on sign-out.
type LogoutDto struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterRoutes registers the authentication routes. Logout requires a
// valid bearer token, register and login do not.
func (h *AuthHandler) RegisterRoutes(r *chi.Mux, authMw func(http.Handler) http.Handler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Post("/logout", h.Logout)
		})
	})
}

// Register creates a new account with the identity provider and its profile row.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto RegisterDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to register user", "email", dto.Email)
	id, err := h.service.SignUp(r.Context(), dto.Email, dto.Password, dto.FullName)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUserAlreadyExists):
			mLogger.WarnContext(r.Context(), "User already exists", "email", dto.Email)
			web.RespondError(w, mLogger, http.StatusConflict, "User already exists")
		case errors.Is(err, session.ErrIdPUnavailable):
			mLogger.ErrorContext(r.Context(), "Identity provider unavailable", "error", err)
			web.RespondError(w, mLogger, http.StatusServiceUnavailable, "Authentication service unavailable")
		default:
			mLogger.ErrorContext(r.Context(), "Error registering user", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "User registered successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusCreated, map[string]string{"id": id.String()})
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto LoginDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to sign in", "email", dto.Email)
	s, err := h.service.SignIn(r.Context(), dto.Email, dto.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			mLogger.WarnContext(r.Context(), "Invalid credentials", "email", dto.Email)
			web.RespondError(w, mLogger, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, session.ErrIdPUnavailable):
			mLogger.ErrorContext(r.Context(), "Identity provider unavailable", "error", err)
			web.RespondError(w, mLogger, http.StatusServiceUnavailable, "Authentication service unavailable")
		default:
			mLogger.ErrorContext(r.Context(), "Error signing in", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to sign in")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "User signed in", "ID", s.UserID)
	web.RespondJSON(w, mLogger, http.StatusOK, s)
}

// Logout revokes the session with the identity provider.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	var dto LogoutDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	if err := h.service.SignOut(r.Context(), userID, dto.RefreshToken); err != nil {
		if errors.Is(err, session.ErrIdPUnavailable) {
			mLogger.ErrorContext(r.Context(), "Identity provider unavailable", "error", err)
			web.RespondError(w, mLogger, http.StatusServiceUnavailable, "Authentication service unavailable")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error signing out", "UserID", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	mLogger.InfoContext(r.Context(), "User signed out", "UserID", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
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
func (h *AuthHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
