package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"salas/internal/domain"
	"salas/internal/models"

	"github.com/rs/zerolog"
)

// recoveryInterval is how long the primary stays bypassed after a failure.
const recoveryInterval = time.Minute

// FailoverCredentialRepository writes to primary and switches to fallback
// while primary is failing.
type FailoverCredentialRepository struct {
	primary  domain.CredentialRepository
	fallback domain.CredentialRepository
	logger   *zerolog.Logger
	now      func() time.Time

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverCredentialRepository(primary, fallback domain.CredentialRepository, logger *zerolog.Logger) *FailoverCredentialRepository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FailoverCredentialRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the primary should be tried for this call.
func (r *FailoverCredentialRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Sub(r.lastCheck) > recoveryInterval
}

func (r *FailoverCredentialRepository) markDown(err error) {
	if !r.isDown.Load() {
		r.logger.Error().Err(err).Msg("Primary credential repository failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = r.now()
	r.mu.Unlock()
	r.isDown.Store(true)
}

func (r *FailoverCredentialRepository) markUp() {
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary credential repository recovered")
	}
}

func (r *FailoverCredentialRepository) LoadCredential(ctx context.Context, profile string) (*models.Credential, error) {
	if r.usePrimary() {
		cred, err := r.primary.LoadCredential(ctx, profile)
		if err == nil {
			r.markUp()
			return cred, nil
		}
		r.markDown(err)
	}
	return r.fallback.LoadCredential(ctx, profile)
}

func (r *FailoverCredentialRepository) SaveCredential(ctx context.Context, profile string, cred *models.Credential, ttl time.Duration) error {
	if r.usePrimary() {
		err := r.primary.SaveCredential(ctx, profile, cred, ttl)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SaveCredential(ctx, profile, cred, ttl)
}

// ClearCredential clears both stores so a credential saved during an outage
// cannot resurface.
func (r *FailoverCredentialRepository) ClearCredential(ctx context.Context, profile string) error {
	fallbackErr := r.fallback.ClearCredential(ctx, profile)
	if r.usePrimary() {
		err := r.primary.ClearCredential(ctx, profile)
		if err == nil {
			r.markUp()
			return fallbackErr
		}
		r.markDown(err)
	}
	return fallbackErr
}
