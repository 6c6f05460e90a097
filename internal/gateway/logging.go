// Пакет gateway — внешние сервисы оплаты и бронирования без брокера:
// вызов только фиксируется в журнале. Используется в режиме GATEWAY_MODE=log.
package gateway

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

var (
	_ ports.TicketPaymentService   = (*LogPayment)(nil)
	_ ports.SeatReservationService = (*LogReservation)(nil)
)

// LogPayment — платёжный сервис, который всегда проходит.
type LogPayment struct {
	log ports.Logger
}

func NewLogPayment(log ports.Logger) *LogPayment { return &LogPayment{log: log} }

func (p *LogPayment) MakePayment(ctx context.Context, accountID int64, amount int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("payment canceled: %w", err)
	}
	p.log.Infof(ctx, "payment accepted account=%d amount=%d", accountID, amount)
	return nil
}

// LogReservation — бронирование, которое всегда проходит.
type LogReservation struct {
	log ports.Logger
}

func NewLogReservation(log ports.Logger) *LogReservation { return &LogReservation{log: log} }

func (r *LogReservation) ReserveSeat(ctx context.Context, accountID int64, seats int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reservation canceled: %w", err)
	}
	r.log.Infof(ctx, "seats reserved account=%d seats=%d", accountID, seats)
	return nil
}
