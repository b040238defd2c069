package securepay

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	maxAccountNameLen    = 32
	maxCardholderNameLen = 100
	maxPurchaseOrderLen  = 60
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	}); err != nil {
		panic(err)
	}

	return v
}

// checkVar runs a validator tag against a single value and reports the first
// failure as a ValidationError for field.
func checkVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return NewValidationError(field, validationMessage(validationErrs[0]))
		}
		return NewValidationError(field, err.Error())
	}
	return nil
}

func normalizeValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	first := validationErrs[0]
	return fmt.Errorf("%s %s", first.Field(), validationMessage(first))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", fe.Param())
	case "number":
		return "must contain digits only"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "ipv4":
		return "must be an IPv4 address"
	case "url":
		return "must be a valid URL"
	case "nowhitespace":
		return "cannot contain whitespace"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ProperAccountName truncates a bank account name to 32 characters.
func ProperAccountName(name string) string {
	return truncate(name, maxAccountNameLen)
}

// ProperCardholderName truncates a cardholder name to 100 characters.
func ProperCardholderName(name string) string {
	return truncate(name, maxCardholderNameLen)
}

// ProperPurchaseOrderNo truncates a purchase order reference to 60 characters.
func ProperPurchaseOrderNo(purchaseOrderNo string) string {
	return truncate(purchaseOrderNo, maxPurchaseOrderLen)
}

// ProperExpiryMonth normalizes an expiry month to two digits: "2" becomes
// "02" and anything longer keeps its last two characters ("0002" -> "02").
func ProperExpiryMonth(month string) string {
	switch {
	case len(month) > 2:
		return month[len(month)-2:]
	case len(month) == 1:
		return "0" + month
	}
	return month
}

// ProperExpiryYear expands a two digit year with the current century.
func ProperExpiryYear(year string) string {
	return properExpiryYear(year, time.Now())
}

func properExpiryYear(year string, now time.Time) string {
	if len(year) == 2 {
		return strconv.Itoa(now.Year())[:2] + year
	}
	return year
}

// validateCardDetails checks whichever of the card fields are set, together,
// since the CVV rule depends on the card number.
func validateCardDetails(number, month, year, cvv string, now time.Time) error {
	var scheme *cardScheme
	if number != "" {
		s, ok := validCardNumber(number)
		if !ok {
			return NewValidationError("cardNumber", "is not a valid card number")
		}
		scheme = &s
	}

	if cvv != "" {
		if !isDigits(cvv) {
			return NewValidationError("cvv", "must contain digits only")
		}
		if scheme != nil {
			if !slices.Contains(scheme.cvvLengths, len(cvv)) {
				return NewValidationError("cvv", fmt.Sprintf("has the wrong length for %s", scheme.brand))
			}
		} else if len(cvv) != 3 && len(cvv) != 4 {
			return NewValidationError("cvv", "must be 3 or 4 digits")
		}
	}

	var (
		m, y       int
		haveMonth  bool
		haveYear   bool
		currentYr  = now.Year()
		currentMon = int(now.Month())
	)
	if month != "" {
		n, err := strconv.Atoi(month)
		if err != nil || len(month) != 2 || n < 1 || n > 12 {
			return NewValidationError("expiryMonth", "must be between 01 and 12")
		}
		m, haveMonth = n, true
	}
	if year != "" {
		n, err := strconv.Atoi(year)
		if err != nil || len(year) != 4 || n < currentYr {
			return NewValidationError("expiryYear", "must be a four digit year no earlier than this year")
		}
		y, haveYear = n, true
	}
	if haveMonth && haveYear && y == currentYr && m < currentMon {
		return NewValidationError("expiryDate", "has already passed")
	}
	return nil
}

// isSupportedCard reports whether the number belongs to an accepted brand.
func isSupportedCard(cfg *Config, number string) bool {
	s, ok := detectScheme(number)
	return ok && cfg.isAcceptedCard(s.brand)
}

// IsDateInFuture reports whether t falls on a later calendar day than today.
func IsDateInFuture(t time.Time) bool {
	return isDateInFuture(time.Now(), t)
}

func isDateInFuture(now, t time.Time) bool {
	today := truncateToDay(now)
	day := truncateToDay(t.In(now.Location()))
	return day.After(today)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidateTxnID checks an original transaction ID (6-16 characters).
func ValidateTxnID(txnID string) error {
	return checkVar("txnID", txnID, "min=6,max=16")
}

// ValidatePreauthID checks a preauthorisation ID (exactly 6 characters).
func ValidatePreauthID(preauthID string) error {
	return checkVar("preauthID", preauthID, "len=6")
}

// ValidateBSB checks a BSB number (exactly 6 digits).
func ValidateBSB(bsb string) error {
	return checkVar("bsbNumber", bsb, "len=6,number")
}

// ValidateAccountNumber checks a bank account number (1-9 digits).
func ValidateAccountNumber(accountNumber string) error {
	return checkVar("accountNumber", accountNumber, "required,max=9,number")
}

// ValidateClientID checks a payor client ID (1-20 characters, no whitespace).
func ValidateClientID(clientID string) error {
	return checkVar("clientID", clientID, "required,max=20,nowhitespace")
}

// ValidateZipCode checks a buyer zip code (at most 30 characters).
func ValidateZipCode(zipCode string) error {
	return checkVar("zipCode", zipCode, "max=30")
}

// ValidateTown checks a buyer town (at most 60 characters).
func ValidateTown(town string) error {
	return checkVar("town", town, "max=60")
}

// ValidateCountry checks a billing or delivery country code (2-3 characters).
func ValidateCountry(field, country string) error {
	return checkVar(field, country, "min=2,max=3")
}

// ValidateEmailAddress checks an email address (valid and at most 100 characters).
func ValidateEmailAddress(email string) error {
	return checkVar("emailAddress", email, "required,max=100,email")
}

var nonPublicIPv4 = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("240.0.0.0/4"),
}

// ValidateIPAddress checks a buyer IP: a public, non-reserved IPv4 address.
func ValidateIPAddress(ip string) error {
	if err := checkVar("ip", ip, "required,max=15,ipv4"); err != nil {
		return err
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return NewValidationError("ip", "must be an IPv4 address")
	}
	for _, p := range nonPublicIPv4 {
		if p.Contains(addr) {
			return NewValidationError("ip", "must be publicly routable")
		}
	}
	return nil
}
