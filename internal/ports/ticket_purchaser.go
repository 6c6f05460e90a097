package ports

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// TicketPurchaser — прикладной сервис покупки для транспортных слоёв.
type TicketPurchaser interface {
	// Purchase — проверить, рассчитать, оплатить и забронировать места.
	Purchase(ctx context.Context, accountID int64, requests ...*domain.TicketTypeRequest) (domain.Summary, error)
	// Quote — те же проверки и расчёт, но без вызова внешних сервисов.
	Quote(ctx context.Context, accountID int64, requests ...*domain.TicketTypeRequest) (domain.Summary, error)
}
