package ports

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// PurchaseValidator — проверка аккаунта, списка билетов и правил категорий.
// Возвращает счётчики по категориям или *domain.PurchaseError с первой нарушенной причиной.
type PurchaseValidator interface {
	Validate(ctx context.Context, accountID int64, requests []*domain.TicketTypeRequest) (domain.TicketCounts, error)
}
