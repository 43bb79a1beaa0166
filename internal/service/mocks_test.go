package service

import (
	"context"
	"net/url"

	"salas/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRooms struct {
	mock.Mock
}

func (m *mockRooms) List(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}
func (m *mockRooms) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockRooms) Create(ctx context.Context, room models.Room) (*models.Room, error) {
	args := m.Called(ctx, room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockRooms) Update(ctx context.Context, id int64, room models.Room) (*models.Room, error) {
	args := m.Called(ctx, id, room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockRooms) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockReservations struct {
	mock.Mock
}

func (m *mockReservations) List(ctx context.Context, params url.Values) ([]models.Reservation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}
func (m *mockReservations) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *mockReservations) Create(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *mockReservations) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) IsLoggedIn() bool { return m.Called().Bool(0) }
func (m *mockSession) Token() string    { return m.Called().String(0) }
func (m *mockSession) Login(ctx context.Context, cred models.Credential) error {
	return m.Called(ctx, cred).Error(0)
}
func (m *mockSession) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *mockSession) Current() *models.Credential {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Credential)
}

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) Post(ctx context.Context, endpoint string, body, out any) error {
	return m.Called(ctx, endpoint, body, out).Error(0)
}
