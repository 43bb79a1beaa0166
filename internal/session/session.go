package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"salas/internal/domain"
	"salas/internal/events"
	"salas/internal/metrics"
	"salas/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyToken = errors.New("empty bearer token")
	ErrExpired    = errors.New("session expired")
)

// Store owns the current credential. It is the only writer; the dispatcher
// reads it through IsLoggedIn and Token on every call.
type Store struct {
	repo       domain.CredentialRepository
	events     domain.EventPublisher
	logger     *zerolog.Logger
	profile    string
	defaultTTL time.Duration
	now        func() time.Time

	mu   sync.RWMutex
	cred *models.Credential
}

func NewStore(
	repo domain.CredentialRepository,
	profile string,
	defaultTTL time.Duration,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *Store {
	if profile == "" {
		profile = models.DefaultSessionProfile
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Store{
		repo:       repo,
		events:     eventBus,
		logger:     logger,
		profile:    profile,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (s *Store) IsLoggedIn() bool {
	cred := s.Current()
	return cred != nil && cred.LoggedIn
}

// Token returns the stored token, or "" when there is none.
func (s *Store) Token() string {
	cred := s.Current()
	if cred == nil {
		return ""
	}
	return cred.Token
}

// Current returns a copy of the live credential. An expired credential is
// dropped on read and nil is returned.
func (s *Store) Current() *models.Credential {
	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()

	if cred == nil {
		return nil
	}
	if cred.Expired(s.now()) {
		s.expire(cred)
		return nil
	}
	out := *cred
	return &out
}

func (s *Store) expire(cred *models.Credential) {
	s.mu.Lock()
	if s.cred != cred {
		// someone else already replaced it
		s.mu.Unlock()
		return
	}
	s.cred = nil
	s.mu.Unlock()

	s.logger.Info().Str("profile", s.profile).Time("expires_at", cred.ExpiresAt).Msg("session expired")
	s.publish(events.EventSessionExpired, cred)
}

// Login stores cred as the active credential and persists it. When
// ExpiresAt is unset it is taken from the token's exp claim if present.
func (s *Store) Login(ctx context.Context, cred models.Credential) error {
	cred.Token = strings.TrimSpace(cred.Token)
	if cred.Token == "" {
		return ErrEmptyToken
	}

	now := s.now()
	cred.LoggedIn = true
	cred.CreatedAt = now
	if cred.ExpiresAt.IsZero() {
		if exp, ok := TokenExpiry(cred.Token); ok {
			cred.ExpiresAt = exp
		}
	}
	if cred.Expired(now) {
		return fmt.Errorf("login: %w", ErrExpired)
	}

	if s.repo != nil {
		if err := s.repo.SaveCredential(ctx, s.profile, &cred, cred.TTL(now, s.defaultTTL)); err != nil {
			return fmt.Errorf("persist credential: %w", err)
		}
	}

	s.mu.Lock()
	s.cred = &cred
	s.mu.Unlock()

	s.logger.Info().Str("profile", s.profile).Str("username", cred.Username).Msg("session started")
	s.publish(events.EventSessionLogin, &cred)
	return nil
}

// Logout clears the in-memory and persisted credential. The in-memory
// credential is cleared even if the repository fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.cred
	s.cred = nil
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.ClearCredential(ctx, s.profile); err != nil {
			return fmt.Errorf("clear credential: %w", err)
		}
	}

	if prev != nil {
		s.logger.Info().Str("profile", s.profile).Msg("session ended")
		s.publish(events.EventSessionLogout, prev)
	}
	return nil
}

// Restore loads a persisted credential into the store. A missing credential
// leaves the store logged out; an expired one is cleared and ErrExpired is
// returned.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	cred, err := s.repo.LoadCredential(ctx, s.profile)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if cred == nil || cred.Token == "" {
		return nil
	}
	if cred.Expired(s.now()) {
		if err := s.repo.ClearCredential(ctx, s.profile); err != nil {
			s.logger.Warn().Err(err).Msg("clear expired credential")
		}
		s.publish(events.EventSessionExpired, cred)
		return ErrExpired
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()

	s.logger.Debug().Str("profile", s.profile).Str("username", cred.Username).Msg("session restored")
	return nil
}

func (s *Store) publish(eventType string, cred *models.Credential) {
	metrics.IncSession(eventType)
	payload := events.SessionEventPayload{
		Profile:   s.profile,
		Username:  cred.Username,
		ExpiresAt: cred.ExpiresAt,
	}
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish session event")
	}
}
