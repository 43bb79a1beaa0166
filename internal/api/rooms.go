package api

import (
	"context"
	"strconv"

	"salas/internal/models"
)

// RoomClient binds the dispatcher to the rooms endpoint.
type RoomClient struct {
	d        *Dispatcher
	endpoint string
}

func NewRoomClient(d *Dispatcher) *RoomClient {
	return &RoomClient{d: d, endpoint: models.EndpointRooms}
}

// List delegates to GET /rooms/.
func (c *RoomClient) List(ctx context.Context) ([]models.Room, error) {
	return Get[[]models.Room](ctx, c.d, c.endpoint, nil)
}

// GetByID delegates to GET /rooms/{id}/.
func (c *RoomClient) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return GetByID[models.Room](ctx, c.d, c.endpoint, strconv.FormatInt(id, 10))
}

// Create delegates to POST /rooms/.
func (c *RoomClient) Create(ctx context.Context, room models.Room) (*models.Room, error) {
	return Post[models.Room](ctx, c.d, c.endpoint, room)
}

// Update delegates to PUT /rooms/{id}/.
func (c *RoomClient) Update(ctx context.Context, id int64, room models.Room) (*models.Room, error) {
	return Put[models.Room](ctx, c.d, c.endpoint, strconv.FormatInt(id, 10), room)
}

// Delete delegates to DELETE /rooms/{id}/.
func (c *RoomClient) Delete(ctx context.Context, id int64) error {
	return c.d.Delete(ctx, c.endpoint, strconv.FormatInt(id, 10))
}
