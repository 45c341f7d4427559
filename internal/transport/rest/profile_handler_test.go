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
	"github.com/soukly/storefront/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProfileService is a mock implementation of the profileService interface
type mockProfileService struct {
	profile *profile.Profile
	error   error
}

func (m *mockProfileService) Get(context.Context, uuid.UUID) (*profile.Profile, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockProfileService) Update(context.Context, uuid.UUID, profile.Updates) (*profile.Profile, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func newProfileAPI(service profileService) *ProfileHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewProfileHandler(service, logger)
}

func Test_ProfileAPI_Get(t *testing.T) {
	mockUserID := uuid.New()

	testCases := []struct {
		name         string
		mockService  *mockProfileService
		expectedCode int
	}{
		{
			name:         "profile found",
			mockService:  &mockProfileService{profile: &profile.Profile{ID: mockUserID, FullName: "John Doe"}},
			expectedCode: http.StatusOK,
		},
		{
			name:         "profile not found",
			mockService:  &mockProfileService{error: profile.ErrProfileNotFound},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "service error",
			mockService:  &mockProfileService{error: errors.New("connection refused")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newProfileAPI(tc.mockService)
			req := authedRequest(http.MethodGet, "/api/v1/profile", "", mockUserID)
			rr := httptest.NewRecorder()

			// when
			api.Get(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusOK {
				var got profile.Profile
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, "John Doe", got.FullName)
			}
		})
	}
}

func Test_ProfileAPI_Update(t *testing.T) {
	mockUserID := uuid.New()
	updated := &profile.Profile{ID: mockUserID, FullName: "Jane Doe", Phone: "+155500000"}

	testCases := []struct {
		name         string
		mockService  *mockProfileService
		body         string
		expectedCode int
	}{
		{
			name:         "success",
			mockService:  &mockProfileService{profile: updated},
			body:         `{"full_name":"Jane Doe","phone":"+155500000"}`,
			expectedCode: http.StatusOK,
		},
		{
			name:         "malformed body",
			mockService:  &mockProfileService{},
			body:         `{"full_name":`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "profile not found",
			mockService:  &mockProfileService{error: profile.ErrProfileNotFound},
			body:         `{"full_name":"Jane Doe"}`,
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newProfileAPI(tc.mockService)
			req := authedRequest(http.MethodPut, "/api/v1/profile", tc.body, mockUserID)
			rr := httptest.NewRecorder()

			// when
			api.Update(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusOK {
				var got profile.Profile
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, "Jane Doe", got.FullName)
			}
		})
	}
}
