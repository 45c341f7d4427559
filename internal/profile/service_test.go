package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProfileStore is a mock implementation of the Store interface
type mockProfileStore struct {
	profile   *Profile
	findErr   error
	updateErr error

	updatedWith *Updates
}

func (m *mockProfileStore) FindByID(_ context.Context, _ uuid.UUID) (*Profile, error) {
	return m.profile, m.findErr
}

func (m *mockProfileStore) Create(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (m *mockProfileStore) Update(_ context.Context, _ uuid.UUID, updates Updates) error {
	m.updatedWith = &updates
	return m.updateErr
}

func Test_ProfileService_Get(t *testing.T) {
	mockID := uuid.New()

	testCases := []struct {
		name        string
		mockStore   *mockProfileStore
		expectedErr error
	}{
		{
			name:      "profile found",
			mockStore: &mockProfileStore{profile: &Profile{ID: mockID, FullName: "John Doe"}},
		},
		{
			name:        "profile not found",
			mockStore:   &mockProfileStore{findErr: ErrProfileNotFound},
			expectedErr: ErrProfileNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)

			// when
			found, err := service.Get(context.Background(), mockID)

			// then
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "John Doe", found.FullName)
		})
	}
}

func Test_ProfileService_Update(t *testing.T) {
	// given
	mockID := uuid.New()
	fullName := "Jane Doe"
	mockStore := &mockProfileStore{profile: &Profile{ID: mockID, FullName: fullName}}
	service := NewService(mockStore)

	// when
	updated, err := service.Update(context.Background(), mockID, Updates{FullName: &fullName})

	// then: the write goes through and the fresh row is re-read
	require.NoError(t, err)
	require.NotNil(t, mockStore.updatedWith)
	assert.Equal(t, &fullName, mockStore.updatedWith.FullName)
	assert.Equal(t, fullName, updated.FullName)
}

func Test_ProfileService_Update_Error(t *testing.T) {
	// given
	mockStore := &mockProfileStore{updateErr: errors.New("connection refused")}
	service := NewService(mockStore)

	// when
	_, err := service.Update(context.Background(), uuid.New(), Updates{})

	// then
	require.Error(t, err)
}
