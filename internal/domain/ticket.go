package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Фиксированные параметры покупки.
const (
	MaxTickets  = 25 // максимум билетов в одной покупке
	InfantPrice = 0  // цена билета INFANT
	ChildPrice  = 15 // цена билета CHILD
	AdultPrice  = 25 // цена билета ADULT
)

// TicketType — категория билета.
// Нулевое значение — неизвестная категория; появляется только при разборе внешних данных.
type TicketType uint8

const (
	TicketTypeInfant TicketType = iota + 1
	TicketTypeChild
	TicketTypeAdult
)

var ticketTypeNames = map[TicketType]string{
	TicketTypeInfant: "INFANT",
	TicketTypeChild:  "CHILD",
	TicketTypeAdult:  "ADULT",
}

// ParseTicketType — разбор категории (регистр и пробелы по краям не важны).
func ParseTicketType(s string) (TicketType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFANT":
		return TicketTypeInfant, true
	case "CHILD":
		return TicketTypeChild, true
	case "ADULT":
		return TicketTypeAdult, true
	default:
		return 0, false
	}
}

// Valid — одна из трёх известных категорий.
func (t TicketType) Valid() bool {
	_, ok := ticketTypeNames[t]
	return ok
}

func (t TicketType) String() string {
	if name, ok := ticketTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// MarshalText — категория в JSON пишется строкой.
func (t TicketType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown ticket type %d", uint8(t))
	}
	return []byte(ticketTypeNames[t]), nil
}

// UnmarshalText не возвращает ошибку на неизвестную категорию:
// значение становится нулевым и отклоняется при подсчёте билетов (UnknownCategory),
// чтобы порядок проверок покупки не зависел от формата входа.
func (t *TicketType) UnmarshalText(text []byte) error {
	parsed, _ := ParseTicketType(string(text))
	*t = parsed
	return nil
}

// UnmarshalJSON: строка разбирается как в UnmarshalText,
// любое другое значение (число, null, объект) даёт нулевую категорию.
func (t *TicketType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		*t = 0
		return nil
	}
	return t.UnmarshalText([]byte(name))
}

// TicketTypeRequest — неизменяемая пара (категория, количество).
type TicketTypeRequest struct {
	ticketType TicketType
	quantity   int
}

// NewTicketTypeRequest — конструктор; количество не корректируется.
func NewTicketTypeRequest(ticketType TicketType, quantity int) *TicketTypeRequest {
	return &TicketTypeRequest{ticketType: ticketType, quantity: quantity}
}

func (r *TicketTypeRequest) Type() TicketType { return r.ticketType }
func (r *TicketTypeRequest) Quantity() int    { return r.quantity }

// TicketCounts — счётчики билетов по категориям в рамках одной покупки.
type TicketCounts struct {
	Infant int `json:"infant"`
	Child  int `json:"child"`
	Adult  int `json:"adult"`
}

// Add — добавить n билетов категории t; false для неизвестной категории.
func (c *TicketCounts) Add(t TicketType, n int) bool {
	switch t {
	case TicketTypeInfant:
		c.Infant += n
	case TicketTypeChild:
		c.Child += n
	case TicketTypeAdult:
		c.Adult += n
	default:
		return false
	}
	return true
}

// Total — всего билетов.
func (c TicketCounts) Total() int { return c.Infant + c.Child + c.Adult }

// Amount — сумма к оплате.
func (c TicketCounts) Amount() int {
	return c.Infant*InfantPrice + c.Child*ChildPrice + c.Adult*AdultPrice
}

// Seats — места к бронированию; INFANT сидит на коленях у взрослого.
func (c TicketCounts) Seats() int { return c.Child + c.Adult }

// Summary — рассчитанная покупка.
type Summary struct {
	AccountID int64        `json:"account_id"`
	Tickets   TicketCounts `json:"tickets"`
	Amount    int          `json:"amount"`
	Seats     int          `json:"seats"`
}

// NewSummary — итог по проверенным счётчикам.
func NewSummary(accountID int64, counts TicketCounts) Summary {
	return Summary{
		AccountID: accountID,
		Tickets:   counts,
		Amount:    counts.Amount(),
		Seats:     counts.Seats(),
	}
}
