package validate

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

// Проверка, что PurchaseValidator удовлетворяет интерфейсу PurchaseValidator.
var _ ports.PurchaseValidator = (*PurchaseValidator)(nil)

// PurchaseValidator — проверка покупки до обращения к внешним сервисам.
// Без состояния: счётчики создаются на каждый вызов.
type PurchaseValidator struct {
	maxTickets int
}

// NewPurchaseValidator — конструктор с лимитом domain.MaxTickets.
func NewPurchaseValidator() *PurchaseValidator {
	return &PurchaseValidator{maxTickets: domain.MaxTickets}
}

// Validate — проверки в фиксированном порядке; первая нарушенная возвращается как *domain.PurchaseError:
//  1. аккаунт;
//  2. непустой список без nil-элементов;
//  3. проход по запросам: количество, категория, лимит после каждого запроса;
//  4. правила категорий: взрослый обязателен, младенцев не больше взрослых.
func (v *PurchaseValidator) Validate(
	_ context.Context,
	accountID int64,
	requests []*domain.TicketTypeRequest,
) (domain.TicketCounts, error) {
	if accountID < 1 {
		return domain.TicketCounts{}, domain.NewPurchaseError(domain.ReasonInvalidAccount)
	}
	if err := v.validateRequests(requests); err != nil {
		return domain.TicketCounts{}, err
	}

	counts, err := v.countTickets(requests)
	if err != nil {
		return domain.TicketCounts{}, err
	}

	if err := v.validateCounts(counts); err != nil {
		return domain.TicketCounts{}, err
	}
	return counts, nil
}

// validateRequests — список не пуст и не содержит nil.
func (v *PurchaseValidator) validateRequests(requests []*domain.TicketTypeRequest) error {
	if len(requests) == 0 {
		return domain.NewPurchaseError(domain.ReasonNoTicketsRequested)
	}
	for _, r := range requests {
		if r == nil {
			return domain.NewPurchaseError(domain.ReasonNoTicketsRequested)
		}
	}
	return nil
}

// countTickets — суммирование по категориям; лимит проверяется после каждого запроса.
func (v *PurchaseValidator) countTickets(requests []*domain.TicketTypeRequest) (domain.TicketCounts, error) {
	var counts domain.TicketCounts

	for _, r := range requests {
		if r.Quantity() <= 0 {
			return counts, domain.NewPurchaseError(domain.ReasonInvalidQuantity)
		}
		if !r.Type().Valid() {
			return counts, domain.NewPurchaseError(domain.ReasonUnknownCategory)
		}
		// сравнение с остатком вместо суммы: большое количество не переполнит int
		if r.Quantity() > v.maxTickets-counts.Total() {
			return counts, domain.NewPurchaseError(domain.ReasonExceedsMaximum)
		}
		counts.Add(r.Type(), r.Quantity())
	}
	return counts, nil
}

// validateCounts — правила, зависящие от всех категорий сразу.
func (v *PurchaseValidator) validateCounts(c domain.TicketCounts) error {
	if c.Adult == 0 && (c.Child > 0 || c.Infant > 0) {
		return domain.NewPurchaseError(domain.ReasonMissingAdult)
	}
	// младенец сидит на коленях у взрослого
	if c.Infant > c.Adult {
		return domain.NewPurchaseError(domain.ReasonInfantExceedsAdult)
	}
	return nil
}
