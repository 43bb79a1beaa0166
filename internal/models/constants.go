package models

const (
	EndpointRooms        = "rooms"
	EndpointReservations = "reservations"
	EndpointToken        = "token"
)

const (
	// DefaultBaseURL адрес API по умолчанию
	DefaultBaseURL = "http://127.0.0.1:8000/api"

	// DateLayout формат даты в черновике бронирования
	DateLayout = "2006-01-02"

	// TimeLayout формат времени в черновике бронирования
	TimeLayout = "15:04"

	// DefaultSessionTTL время жизни сохраненной сессии без exp в токене
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultSessionProfile имя профиля сессии по умолчанию
	DefaultSessionProfile = "default"
)
