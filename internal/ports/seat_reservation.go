package ports

import "context"

// SeatReservationService — внешний сервис бронирования мест.
type SeatReservationService interface {
	ReserveSeat(ctx context.Context, accountID int64, seats int) error
}
