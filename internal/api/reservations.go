package api

import (
	"context"
	"net/url"
	"strconv"

	"salas/internal/models"
)

// ReservationClient binds the dispatcher to the reservations endpoint. The
// server scopes listings to the authenticated user.
type ReservationClient struct {
	d        *Dispatcher
	endpoint string
}

func NewReservationClient(d *Dispatcher) *ReservationClient {
	return &ReservationClient{d: d, endpoint: models.EndpointReservations}
}

// List delegates to GET /reservations/. params only reach the server for
// anonymous sessions.
func (c *ReservationClient) List(ctx context.Context, params url.Values) ([]models.Reservation, error) {
	return Get[[]models.Reservation](ctx, c.d, c.endpoint, params)
}

func (c *ReservationClient) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	return GetByID[models.Reservation](ctx, c.d, c.endpoint, strconv.FormatInt(id, 10))
}

func (c *ReservationClient) Create(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error) {
	return Post[models.Reservation](ctx, c.d, c.endpoint, req)
}

func (c *ReservationClient) Delete(ctx context.Context, id int64) error {
	return c.d.Delete(ctx, c.endpoint, strconv.FormatInt(id, 10))
}
