package models

// Room is a bookable room as served by the remote API.
type Room struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Location  string `json:"location" yaml:"location"`
	Capacity  int    `json:"capacity" yaml:"capacity"`
	Available bool   `json:"available" yaml:"available"`
}
