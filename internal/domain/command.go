package domain

// TicketLine — строка заказа билетов во внешнем формате (JSON).
type TicketLine struct {
	Type     TicketType `json:"type"`
	Quantity int        `json:"quantity"`
}

// PurchaseCommand — команда покупки, приходящая из Kafka, HTTP или файла.
type PurchaseCommand struct {
	AccountID int64         `json:"account_id"`
	Tickets   []*TicketLine `json:"tickets"`
}

// Requests — перевод строк в TicketTypeRequest; null-элементы остаются nil.
func (c *PurchaseCommand) Requests() []*TicketTypeRequest {
	if c == nil || len(c.Tickets) == 0 {
		return nil
	}
	out := make([]*TicketTypeRequest, len(c.Tickets))
	for i, line := range c.Tickets {
		if line == nil {
			continue
		}
		out[i] = NewTicketTypeRequest(line.Type, line.Quantity)
	}
	return out
}
