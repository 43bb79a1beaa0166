package service

import (
	"context"
	"fmt"
	"net/url"

	"salas/internal/composer"
	"salas/internal/domain"
	"salas/internal/events"
	"salas/internal/logging"
	"salas/internal/models"

	"github.com/rs/zerolog"
)

// BookingService drives the reservation flow on top of the resource clients.
type BookingService struct {
	rooms        domain.RoomAPI
	reservations domain.ReservationAPI
	composer     *composer.Composer
	eventBus     domain.EventPublisher
	logger       *zerolog.Logger
}

func NewBookingService(
	rooms domain.RoomAPI,
	reservations domain.ReservationAPI,
	comp *composer.Composer,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *BookingService {
	if comp == nil {
		comp = composer.New(nil)
	}
	return &BookingService{
		rooms:        rooms,
		reservations: reservations,
		composer:     comp,
		eventBus:     eventBus,
		logger:       logging.Component(logger, "booking"),
	}
}

func (s *BookingService) Rooms(ctx context.Context) ([]models.Room, error) {
	return s.rooms.List(ctx)
}

func (s *BookingService) Room(ctx context.Context, id int64) (*models.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *BookingService) Reservations(ctx context.Context, params url.Values) ([]models.Reservation, error) {
	return s.reservations.List(ctx, params)
}

func (s *BookingService) Reservation(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// Book looks up the room and reserves it for the draft's range.
func (s *BookingService) Book(ctx context.Context, roomID int64, draft models.ReservationDraft) (*models.Reservation, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room %d: %w", roomID, err)
	}
	return s.BookRoom(ctx, *room, draft)
}

// BookRoom composes draft for room and submits it. A draft the composer
// declines yields ErrInvalidDraft and no request.
func (s *BookingService) BookRoom(ctx context.Context, room models.Room, draft models.ReservationDraft) (*models.Reservation, error) {
	req, ok := s.composer.Compose(room, draft)
	if !ok {
		return nil, ErrInvalidDraft
	}

	reservation, err := s.reservations.Create(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Int64("room_id", room.ID).Msg("create reservation")
		return nil, err
	}

	s.logger.Info().
		Int64("reservation_id", reservation.ID).
		Int64("room_id", room.ID).
		Time("start_time", req.StartTime).
		Time("end_time", req.EndTime).
		Msg("reservation created")

	s.publish(events.EventReservationCreated, events.ReservationEventPayload{
		ReservationID: reservation.ID,
		RoomID:        room.ID,
		RoomName:      room.Name,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Username:      reservation.User.Username,
	})
	return reservation, nil
}

// Cancel deletes the reservation.
func (s *BookingService) Cancel(ctx context.Context, id int64) error {
	if err := s.reservations.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("reservation_id", id).Msg("cancel reservation")
		return err
	}
	s.logger.Info().Int64("reservation_id", id).Msg("reservation canceled")
	s.publish(events.EventReservationCanceled, events.ReservationEventPayload{ReservationID: id})
	return nil
}

// Composer exposes the composer so callers can prefill drafts.
func (s *BookingService) Composer() *composer.Composer {
	return s.composer
}

func (s *BookingService) publish(eventType string, payload events.ReservationEventPayload) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish event")
	}
}
