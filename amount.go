package securepay

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProperAmount normalizes an amount to a count of cents. A value containing a
// decimal point is read as dollars and multiplied by 100, dropping anything
// below one cent ("12.5" -> "1250"). A value without one is already cents
// ("1250" -> "1250"). Negative or non-numeric input fails.
func ProperAmount(amount string) (string, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "", NewValidationError("amount", "is required")
	}
	if strings.Contains(amount, "-") {
		return "", NewValidationError("amount", "cannot be negative")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", NewValidationError("amount", "must be numeric")
	}
	if strings.Contains(amount, ".") {
		d = d.Mul(hundred)
	}
	return d.Truncate(0).String(), nil
}
