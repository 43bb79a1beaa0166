package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"salas/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) LoadCredential(ctx context.Context, profile string) (*models.Credential, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *mockRepo) SaveCredential(ctx context.Context, profile string, cred *models.Credential, ttl time.Duration) error {
	return m.Called(ctx, profile, cred, ttl).Error(0)
}

func (m *mockRepo) ClearCredential(ctx context.Context, profile string) error {
	return m.Called(ctx, profile).Error(0)
}

func TestFailoverCredentialRepository(t *testing.T) {
	primary := new(mockRepo)
	fallback := new(mockRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverCredentialRepository(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		cred := &models.Credential{Token: "a"}
		primary.On("LoadCredential", ctx, "p1").Return(cred, nil).Once()

		got, err := repo.LoadCredential(ctx, "p1")
		assert.NoError(t, err)
		assert.Equal(t, cred, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		cred := &models.Credential{Token: "b"}
		primary.On("SaveCredential", ctx, "p2", cred, time.Hour).Return(errors.New("fail")).Once()
		fallback.On("SaveCredential", ctx, "p2", cred, time.Hour).Return(nil).Once()

		err := repo.SaveCredential(ctx, "p2", cred, time.Hour)
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallbackWhileDown", func(t *testing.T) {
		fallback.On("LoadCredential", ctx, "p2").Return(&models.Credential{Token: "b"}, nil).Once()

		got, err := repo.LoadCredential(ctx, "p2")
		assert.NoError(t, err)
		assert.Equal(t, "b", got.Token)
		primary.AssertNotCalled(t, "LoadCredential", ctx, "p2")
	})

	t.Run("ClearHitsFallbackWhileDown", func(t *testing.T) {
		fallback.On("ClearCredential", ctx, "p2").Return(nil).Once()

		assert.NoError(t, repo.ClearCredential(ctx, "p2"))
		primary.AssertNotCalled(t, "ClearCredential", ctx, "p2")
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		cred := &models.Credential{Token: "c"}
		primary.On("LoadCredential", ctx, "p3").Return(cred, nil).Once()

		got, err := repo.LoadCredential(ctx, "p3")
		assert.NoError(t, err)
		assert.Equal(t, cred, got)
		assert.False(t, repo.isDown.Load())
	})

	t.Run("ClearBothWhenUp", func(t *testing.T) {
		fallback.On("ClearCredential", ctx, "p4").Return(nil).Once()
		primary.On("ClearCredential", ctx, "p4").Return(nil).Once()

		assert.NoError(t, repo.ClearCredential(ctx, "p4"))
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}
