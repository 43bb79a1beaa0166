package repository

import (
	"context"
	"sync"
	"time"

	"salas/internal/models"
)

// MemoryCredentialRepository keeps credentials for the lifetime of the process.
type MemoryCredentialRepository struct {
	entries sync.Map
	now     func() time.Time
}

type memoryEntry struct {
	cred      models.Credential
	expiresAt time.Time
}

func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{now: time.Now}
}

func (r *MemoryCredentialRepository) LoadCredential(ctx context.Context, profile string) (*models.Credential, error) {
	val, ok := r.entries.Load(profile)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		r.entries.Delete(profile)
		return nil, nil
	}
	cred := entry.cred
	return &cred, nil
}

// SaveCredential stores a copy of cred. ttl <= 0 keeps it until cleared.
func (r *MemoryCredentialRepository) SaveCredential(ctx context.Context, profile string, cred *models.Credential, ttl time.Duration) error {
	entry := &memoryEntry{cred: *cred}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.entries.Store(profile, entry)
	return nil
}

func (r *MemoryCredentialRepository) ClearCredential(ctx context.Context, profile string) error {
	r.entries.Delete(profile)
	return nil
}
