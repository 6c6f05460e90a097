package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// codeMalformed — код для документов, которые не разобрались как команда покупки.
const codeMalformed = "Malformed"

// Report — итог проверки набора команд.
type Report struct {
	Valid      int
	Invalid    int
	Rejections map[string]int // код причины -> количество
}

func (r *Report) accept() { r.Valid++ }

func (r *Report) reject(err error) {
	r.Invalid++
	if r.Rejections == nil {
		r.Rejections = make(map[string]int)
	}
	code := codeMalformed
	if reason, ok := domain.ReasonOf(err); ok {
		code = reason.Code()
	} else if !errors.Is(err, ErrMalformedCommand) {
		code = "Other"
	}
	r.Rejections[code]++
}

// String — "N valid / M invalid".
func (r Report) String() string {
	return fmt.Sprintf("%d valid / %d invalid", r.Valid, r.Invalid)
}

// RejectionsLine — "code=n" через пробел, коды по алфавиту; пусто без отказов.
func (r Report) RejectionsLine() string {
	codes := make([]string, 0, len(r.Rejections))
	for code := range r.Rejections {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s=%d", code, r.Rejections[code]))
	}
	return strings.Join(parts, " ")
}
