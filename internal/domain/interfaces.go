package domain

import (
	"context"
	"net/url"
	"time"

	"salas/internal/models"
)

// AuthState is the read side of the session consumed by the dispatcher.
// Current returns a consistent copy of the flag and token, nil when logged out.
type AuthState interface {
	IsLoggedIn() bool
	Token() string
	Current() *models.Credential
}

type SessionManager interface {
	AuthState
	Login(ctx context.Context, cred models.Credential) error
	Logout(ctx context.Context) error
}

type CredentialRepository interface {
	LoadCredential(ctx context.Context, profile string) (*models.Credential, error)
	SaveCredential(ctx context.Context, profile string, cred *models.Credential, ttl time.Duration) error
	ClearCredential(ctx context.Context, profile string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type RoomAPI interface {
	List(ctx context.Context) ([]models.Room, error)
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	Create(ctx context.Context, room models.Room) (*models.Room, error)
	Update(ctx context.Context, id int64, room models.Room) (*models.Room, error)
	Delete(ctx context.Context, id int64) error
}

type ReservationAPI interface {
	List(ctx context.Context, params url.Values) ([]models.Reservation, error)
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	Create(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error)
	Delete(ctx context.Context, id int64) error
}
