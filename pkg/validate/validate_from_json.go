package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

// ErrMalformedCommand — команда покупки не разбирается как JSON.
var ErrMalformedCommand = errors.New("malformed purchase command")

// DecodePurchaseCommand — строгий разбор команды: неизвестные поля и данные после объекта запрещены.
func DecodePurchaseCommand(raw []byte) (*domain.PurchaseCommand, error) {
	var cmd domain.PurchaseCommand
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrMalformedCommand, err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrMalformedCommand)
	}
	return &cmd, nil
}

// ValidatePurchaseFromJSON — разбор, проверка и расчёт покупки без побочных эффектов.
func ValidatePurchaseFromJSON(ctx context.Context, validator ports.PurchaseValidator, raw []byte) (domain.Summary, error) {
	cmd, err := DecodePurchaseCommand(raw)
	if err != nil {
		return domain.Summary{}, err
	}
	counts, err := validator.Validate(ctx, cmd.AccountID, cmd.Requests())
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.NewSummary(cmd.AccountID, counts), nil
}
