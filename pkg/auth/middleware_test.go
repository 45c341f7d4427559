package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/soukly/storefront/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVerifier is a mock implementation of the Verifier interface for testing purposes.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, tokenString string) (jwt.Token, error) {
	args := m.Called(ctx, tokenString)

	var token jwt.Token
	if args.Get(0) != nil {
		token = args.Get(0).(jwt.Token)
	}
	return token, args.Error(1)
}

func TestMiddleware(t *testing.T) {
	// given

	// Create a mock of a valid JWT token
	mockValidToken, err := jwt.NewBuilder().
		Subject("123e4567-e89b-12d3-a456-426614174000").
		Issuer("test-issuer").
		Audience([]string{"storefront-app"}).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Build()
	require.NoError(t, err)

	testCases := []struct {
		name               string
		authHeader         string
		setupMock          func(m *MockVerifier)
		expectedStatusCode int
		shouldCallNext     bool
		expectedUserID     string
	}{
		{
			name:       "Success - valid bearer token",
			authHeader: "Bearer valid-token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "valid-token").Return(mockValidToken, nil)
			},
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
			expectedUserID:     "123e4567-e89b-12d3-a456-426614174000",
		},
		{
			name:       "Failure - no auth header",
			authHeader: "",
			setupMock: func(m *MockVerifier) { // Verify should not be called
			},
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:       "Failure - not a bearer token",
			authHeader: "Basic some-credentials",
			setupMock: func(m *MockVerifier) { // Verify should not be called
			},
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:       "Failure - verifier returns error",
			authHeader: "Bearer invalid-token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "invalid-token").Return(nil, errors.New("signature is invalid"))
			},
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockVerifier := new(MockVerifier)
			tc.setupMock(mockVerifier)
			authMiddleware := Middleware(mockVerifier)

			nextHandlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextHandlerCalled = true
				userID, ok := web.UserID(r.Context())
				assert.True(t, ok, "userID should be in context")
				assert.Equal(t, tc.expectedUserID, userID, "userID in context is incorrect")
				w.WriteHeader(http.StatusOK)
			})

			testHandler := authMiddleware(nextHandler)

			req := httptest.NewRequest("GET", "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			// when
			testHandler.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedStatusCode, rr.Code, "HTTP status code is wrong")
			assert.Equal(t, tc.shouldCallNext, nextHandlerCalled, "Next handler call status is wrong")

			mockVerifier.AssertExpectations(t)
		})
	}
}
