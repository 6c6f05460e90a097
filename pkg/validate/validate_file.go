package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ParseFormat — формат из флага CLI.
func ParseFormat(s string) (InputFormat, error) {
	switch f := InputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatJSON, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// formatByExt — auto по расширению файла; всё, кроме .jsonl, считается JSON.
func formatByExt(path string) InputFormat {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile — проверка файла с командами покупки; расчёты валидных пишутся в ow.
func ValidateFile(ctx context.Context, validator ports.PurchaseValidator, filePath string, format InputFormat, ow io.Writer) (Report, error) {
	if format == FormatAuto {
		format = formatByExt(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, format, ow)
}

// ValidateReader — то же для произвольного reader. FormatAuto здесь означает JSONL.
//
// JSON: один объект или массив объектов. Отказ одиночного объекта возвращается ошибкой,
// отказы элементов массива только попадают в Report.
func ValidateReader(ctx context.Context, validator ports.PurchaseValidator, ir io.Reader, format InputFormat, ow io.Writer) (Report, error) {
	switch format {
	case FormatAuto, FormatJSONL:
		return ValidateJSONLStream(ctx, validator, ir, ow)
	case FormatJSON:
		raw, err := io.ReadAll(ir)
		if err != nil {
			return Report{}, fmt.Errorf("read input: %w", err)
		}
		if isJSONArray(raw) {
			return validateArray(ctx, validator, raw, ow)
		}
		return validateSingle(ctx, validator, raw, ow)
	default:
		return Report{}, fmt.Errorf("unsupported format: %s", format)
	}
}

func validateSingle(ctx context.Context, validator ports.PurchaseValidator, raw []byte, ow io.Writer) (Report, error) {
	var rep Report
	summary, err := ValidatePurchaseFromJSON(ctx, validator, raw)
	if err != nil {
		rep.reject(err)
		return rep, err
	}
	if err := writeLine(ow, summary); err != nil {
		return rep, err
	}
	rep.accept()
	return rep, nil
}

func validateArray(ctx context.Context, validator ports.PurchaseValidator, raw []byte, ow io.Writer) (Report, error) {
	var rep Report
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return rep, fmt.Errorf("%w: invalid json array: %v", ErrMalformedCommand, err)
	}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		summary, err := ValidatePurchaseFromJSON(ctx, validator, doc)
		if err != nil {
			rep.reject(err)
			continue
		}
		if err := writeLine(ow, summary); err != nil {
			return rep, err
		}
		rep.accept()
	}
	return rep, nil
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// writeLine — значение в JSON и перевод строки.
func writeLine(ow io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := ow.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
