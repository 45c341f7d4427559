// Package session implements sign-up, sign-in and sign-out against the
// managed identity provider, and publishes session-change notifications.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Nerzal/gocloak/v13"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/soukly/storefront/pkg/config"
)

// Session is the authenticated identity context plus the token pair the
// client uses for subsequent requests.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
}

// idpClient is the slice of the gocloak API the service uses. gocloak.GoCloak
// satisfies it; tests substitute a fake.
type idpClient interface {
	LoginClient(ctx context.Context, clientID, clientSecret, realm string, scopes ...string) (*gocloak.JWT, error)
	Login(ctx context.Context, clientID, clientSecret, realm, username, password string) (*gocloak.JWT, error)
	Logout(ctx context.Context, clientID, clientSecret, realm, refreshToken string) error
	CreateUser(ctx context.Context, token, realm string, user gocloak.User) (string, error)
	SetPassword(ctx context.Context, token, userID, realm, password string, temporary bool) error
	DeleteUser(ctx context.Context, accessToken, realm, userID string) error
	GetUserInfo(ctx context.Context, accessToken, realm string) (*gocloak.UserInfo, error)
}

// ProfileCreator creates the profile row for a freshly registered user.
type ProfileCreator interface {
	Create(ctx context.Context, userID uuid.UUID, fullName string) error
}

// Service talks to the identity provider. Every IdP call passes through a
// circuit breaker; an open breaker surfaces as ErrIdPUnavailable.
type Service struct {
	Notifier

	idp      idpClient
	profiles ProfileCreator
	realm    string
	clientID string
	secret   string
	breaker  *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
}

// NewService creates a session service over the given identity provider client.
func NewService(idp idpClient, profiles ProfileCreator, cfg config.IdP, breakerCfg config.BreakerConfig, logger *slog.Logger) *Service {
	st := gobreaker.Settings{
		Name:        "idp-cb",
		MaxRequests: 3,
		Timeout:     breakerCfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > breakerCfg.ConsecutiveFailures ||
				(counts.TotalSuccesses+counts.TotalFailures > breakerCfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.TotalSuccesses+counts.TotalFailures)*100 > float64(breakerCfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *gocloak.APIError
			if errors.As(err, &apiErr) {
				// 4xx responses are caller mistakes, not IdP outages.
				return apiErr.Code >= http.StatusBadRequest && apiErr.Code < http.StatusInternalServerError
			}
			return false
		},
	}
	return &Service{
		idp:      idp,
		profiles: profiles,
		realm:    cfg.Realm,
		clientID: cfg.ClientID,
		secret:   cfg.ClientSecret,
		breaker:  gobreaker.NewCircuitBreaker[any](st),
		logger:   logger.With("component", "session"),
	}
}

// SignUp registers a new user with the identity provider, sets the password
// and creates the profile row. Returns the new user's ID.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (uuid.UUID, error) {
	adminToken, err := s.loginClient(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	user := gocloak.User{
		Username:  gocloak.StringP(email),
		Email:     gocloak.StringP(email),
		Enabled:   gocloak.BoolP(true),
		FirstName: gocloak.StringP(fullName),
	}
	res, err := s.execute(func() (any, error) {
		return s.idp.CreateUser(ctx, adminToken.AccessToken, s.realm, user)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create user", "error", err)
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case http.StatusConflict:
				return uuid.Nil, ErrUserAlreadyExists
			case http.StatusBadRequest:
				return uuid.Nil, ErrInvalidCredentials
			}
		}
		return uuid.Nil, err
	}
	idpUserID := res.(string)

	_, err = s.execute(func() (any, error) {
		return nil, s.idp.SetPassword(ctx, adminToken.AccessToken, idpUserID, s.realm, password, false)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to set password", "error", err)
		errSetPassword := fmt.Errorf("%w: failed to set password: %v", ErrIdPInteractionFailed, err)
		_, _ = s.execute(func() (any, error) {
			return nil, s.idp.DeleteUser(ctx, adminToken.AccessToken, s.realm, idpUserID)
		})
		return uuid.Nil, errSetPassword
	}

	userID, err := uuid.Parse(idpUserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: unexpected user ID %q", ErrIdPInteractionFailed, idpUserID)
	}

	if err := s.profiles.Create(ctx, userID, fullName); err != nil {
		// The identity exists either way; a missing profile row is recoverable
		// on first profile fetch.
		s.logger.WarnContext(ctx, "Failed to create profile row", "user_id", userID, "error", err)
	}
	return userID, nil
}

// SignIn exchanges the credentials for a token pair and publishes a
// signed-in event.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	res, err := s.execute(func() (any, error) {
		return s.idp.Login(ctx, s.clientID, s.secret, s.realm, email, password)
	})
	if err != nil {
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "Sign-in failed", "error", err)
		return nil, err
	}
	jwt := res.(*gocloak.JWT)

	info, err := s.execute(func() (any, error) {
		return s.idp.GetUserInfo(ctx, jwt.AccessToken, s.realm)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch user info", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrIdPInteractionFailed, err)
	}
	userInfo := info.(*gocloak.UserInfo)
	if userInfo.Sub == nil {
		return nil, fmt.Errorf("%w: user info has no subject", ErrIdPInteractionFailed)
	}
	userID, err := uuid.Parse(*userInfo.Sub)
	if err != nil {
		return nil, fmt.Errorf("%w: unexpected subject %q", ErrIdPInteractionFailed, *userInfo.Sub)
	}

	session := &Session{
		UserID:       userID,
		Email:        email,
		AccessToken:  jwt.AccessToken,
		RefreshToken: jwt.RefreshToken,
		ExpiresIn:    jwt.ExpiresIn,
	}
	s.publish(Event{Type: EventSignedIn, UserID: userID})
	return session, nil
}

// SignOut invalidates the refresh token at the identity provider and
// publishes a signed-out event for the user.
func (s *Service) SignOut(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.idp.Logout(ctx, s.clientID, s.secret, s.realm, refreshToken)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Sign-out failed", "user_id", userID, "error", err)
		return err
	}
	s.publish(Event{Type: EventSignedOut, UserID: userID})
	return nil
}

// loginClient obtains a service-account token for admin operations.
func (s *Service) loginClient(ctx context.Context) (*gocloak.JWT, error) {
	res, err := s.execute(func() (any, error) {
		return s.idp.LoginClient(ctx, s.clientID, s.secret, s.realm)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to login service account", "error", err)
		return nil, fmt.Errorf("%w: failed to login to identity provider: %v", ErrIdPInteractionFailed, err)
	}
	return res.(*gocloak.JWT), nil
}

// execute runs the IdP call through the circuit breaker, translating an open
// breaker into ErrIdPUnavailable.
func (s *Service) execute(fn func() (any, error)) (any, error) {
	res, err := s.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrIdPUnavailable
		}
		return nil, err
	}
	return res, nil
}
