package ports

import "context"

// TicketPaymentService — внешний платёжный шлюз.
// Ошибка означает, что покупка прервана; повторов нет.
type TicketPaymentService interface {
	MakePayment(ctx context.Context, accountID int64, amount int) error
}
