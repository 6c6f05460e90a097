//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// UniqAccountID — случайный положительный id аккаунта, чтобы тесты не пересекались в топиках.
func UniqAccountID() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.BigEndian.Uint64(b[:])>>2) + 1
}

// MakePurchaseCommand — валидная покупка: 2 ADULT + 1 CHILD (65 к оплате, 3 места).
func MakePurchaseCommand(opts ...func(*domain.PurchaseCommand)) domain.PurchaseCommand {
	cmd := domain.PurchaseCommand{
		AccountID: UniqAccountID(),
		Tickets: []*domain.TicketLine{
			{Type: domain.TicketTypeAdult, Quantity: 2},
			{Type: domain.TicketTypeChild, Quantity: 1},
		},
	}
	for _, opt := range opts {
		opt(&cmd)
	}
	return cmd
}

func WithTickets(lines ...*domain.TicketLine) func(*domain.PurchaseCommand) {
	return func(c *domain.PurchaseCommand) { c.Tickets = lines }
}

// MustJSON — сериализация команды для отправки в топик.
func MustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
