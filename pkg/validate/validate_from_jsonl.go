package validate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

const maxLineSize = 1 << 20

// ValidateJSONLStream — одна команда покупки на строку. Для валидных в ow пишется расчёт,
// невалидные только считаются. Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.PurchaseValidator, ir io.Reader, ow io.Writer) (Report, error) {
	var rep Report

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		summary, err := ValidatePurchaseFromJSON(ctx, validator, line)
		if err != nil {
			rep.reject(err)
			continue
		}
		if err := writeLine(ow, summary); err != nil {
			return rep, err
		}
		rep.accept()
	}
	if err := scanner.Err(); err != nil {
		return rep, fmt.Errorf("scan: %w", err)
	}
	return rep, nil
}
