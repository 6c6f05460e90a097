package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPurchase — базовая (sentinel error) ошибка отказа в покупке.
var ErrInvalidPurchase = errors.New("invalid purchase")

// Reason — причина отказа в покупке. Закрытое перечисление.
type Reason uint8

const (
	ReasonInvalidAccount Reason = iota + 1
	ReasonNoTicketsRequested
	ReasonInvalidQuantity
	ReasonUnknownCategory
	ReasonExceedsMaximum
	ReasonMissingAdult
	ReasonInfantExceedsAdult
)

type reasonInfo struct {
	code    string
	message string
}

var reasons = map[Reason]reasonInfo{
	ReasonInvalidAccount:     {"InvalidAccount", "Invalid account ID"},
	ReasonNoTicketsRequested: {"NoTicketsRequested", "No ticket requested"},
	ReasonInvalidQuantity:    {"InvalidQuantity", "Invalid Ticket Quantity"},
	ReasonUnknownCategory:    {"UnknownCategory", "Unknown ticket type"},
	ReasonExceedsMaximum:     {"ExceedsMaximum", fmt.Sprintf("Cannot purchase more than %d tickets", MaxTickets)},
	ReasonMissingAdult:       {"MissingAdult", "Child/Infant tickets cannot be purchased without an Adult ticket"},
	ReasonInfantExceedsAdult: {"InfantExceedsAdult", "An Infant must be accompanied by an Adult"},
}

// Reasons — все причины в порядке проверок.
func Reasons() []Reason {
	return []Reason{
		ReasonInvalidAccount,
		ReasonNoTicketsRequested,
		ReasonInvalidQuantity,
		ReasonUnknownCategory,
		ReasonExceedsMaximum,
		ReasonMissingAdult,
		ReasonInfantExceedsAdult,
	}
}

// Code — стабильный код для API и метрик.
func (r Reason) Code() string {
	if info, ok := reasons[r]; ok {
		return info.code
	}
	return "Unknown"
}

// Message — стабильное сообщение для пользователя.
func (r Reason) Message() string {
	if info, ok := reasons[r]; ok {
		return info.message
	}
	return "Unknown rejection reason"
}

func (r Reason) String() string { return r.Code() }

// PurchaseError — отказ в покупке с одной причиной.
type PurchaseError struct {
	Reason Reason
}

// NewPurchaseError — конструктор PurchaseError.
func NewPurchaseError(r Reason) *PurchaseError { return &PurchaseError{Reason: r} }

func (e *PurchaseError) Error() string { return e.Reason.Message() }

// Is — совпадение с ErrInvalidPurchase или с PurchaseError той же причины.
func (e *PurchaseError) Is(target error) bool {
	if target == ErrInvalidPurchase {
		return true
	}
	var other *PurchaseError
	if errors.As(target, &other) {
		return other.Reason == e.Reason
	}
	return false
}

// ReasonOf — достаёт причину отказа из цепочки ошибок.
func ReasonOf(err error) (Reason, bool) {
	var pe *PurchaseError
	if errors.As(err, &pe) {
		return pe.Reason, true
	}
	return 0, false
}
