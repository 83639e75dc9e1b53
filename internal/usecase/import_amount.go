package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
)

// ParseImportAmount parses a spreadsheet amount cell. Spaces and thousands
// separators are removed and one leading plus sign is dropped. The result is
// rounded to cents; only an exact zero is reported as a zero amount.
func ParseImportAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimPrefix(cleaned, "+")

	amount, err := decimal.NewFromString(cleaned)
	if cleaned == "" || err != nil {
		return decimal.Zero, fmt.Errorf(
			"%w %q: use a positive number to credit or a negative number to debit (e.g. 1500.00 or -250)",
			domain.ErrMalformedAmount, raw,
		)
	}

	if amount.IsZero() {
		return decimal.Zero, domain.ErrZeroAmount
	}

	rounded := domain.NormalizeAmount(amount)
	if rounded.IsZero() {
		return decimal.Zero, fmt.Errorf("%w %q: amount is smaller than one cent", domain.ErrMalformedAmount, raw)
	}

	return rounded, nil
}
