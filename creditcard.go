package securepay

import "strings"

// CreditCard holds card details for the actions that charge or store a card.
// Every setter validates the new value together with the fields already set,
// because the CVV and expiry rules depend on each other. Passing "" to a
// setter clears that field.
type CreditCard struct {
	cfg            *Config
	number         string
	expiryMonth    string
	expiryYear     string
	cvv            string
	cardholderName string
}

func newCreditCard(cfg *Config) CreditCard {
	return CreditCard{cfg: cfg}
}

func (c *CreditCard) config() *Config {
	if c.cfg == nil {
		c.cfg = DefaultConfig()
	}
	return c.cfg
}

// SetCardDetails sets any of number, month, year and cvv in one step. Empty
// arguments leave the current value untouched. Nothing is assigned unless all
// supplied values pass together.
func (c *CreditCard) SetCardDetails(number, expiryMonth, expiryYear, cvv string) error {
	cfg := c.config()
	now := cfg.now()

	number = normalizeCardNumber(number)
	if expiryMonth != "" {
		expiryMonth = ProperExpiryMonth(expiryMonth)
	}
	if expiryYear != "" {
		expiryYear = properExpiryYear(expiryYear, now)
	}

	err := validateCardDetails(
		firstNonEmpty(number, c.number),
		firstNonEmpty(expiryMonth, c.expiryMonth),
		firstNonEmpty(expiryYear, c.expiryYear),
		firstNonEmpty(cvv, c.cvv),
		now,
	)
	if err != nil {
		return err
	}
	if number != "" && !isSupportedCard(cfg, number) {
		return NewValidationError("cardNumber", "card type is not accepted")
	}

	if number != "" {
		c.number = number
	}
	if expiryMonth != "" {
		c.expiryMonth = expiryMonth
	}
	if expiryYear != "" {
		c.expiryYear = expiryYear
	}
	if cvv != "" {
		c.cvv = cvv
	}
	return nil
}

// CardNumber returns the card number with separators removed.
func (c *CreditCard) CardNumber() string {
	return c.number
}

// SetCardNumber sets the card number. Spaces and dashes are ignored.
func (c *CreditCard) SetCardNumber(number string) error {
	cfg := c.config()
	number = normalizeCardNumber(number)
	if err := validateCardDetails(number, c.expiryMonth, c.expiryYear, c.cvv, cfg.now()); err != nil {
		return err
	}
	if number != "" && !isSupportedCard(cfg, number) {
		return NewValidationError("cardNumber", "card type is not accepted")
	}
	c.number = number
	return nil
}

// CardBrand returns the brand of the current card number.
func (c *CreditCard) CardBrand() CardBrand {
	return DetectCardBrand(c.number)
}

func (c *CreditCard) ExpiryMonth() string {
	return c.expiryMonth
}

// SetExpiryMonth sets the expiry month, normalized to two digits.
func (c *CreditCard) SetExpiryMonth(month string) error {
	cfg := c.config()
	if month != "" {
		month = ProperExpiryMonth(month)
	}
	if err := validateCardDetails(c.number, month, c.expiryYear, c.cvv, cfg.now()); err != nil {
		return err
	}
	c.expiryMonth = month
	return nil
}

func (c *CreditCard) ExpiryYear() string {
	return c.expiryYear
}

// SetExpiryYear sets the expiry year. A two digit year is placed in the
// current century.
func (c *CreditCard) SetExpiryYear(year string) error {
	cfg := c.config()
	now := cfg.now()
	if year != "" {
		year = properExpiryYear(year, now)
	}
	if err := validateCardDetails(c.number, c.expiryMonth, year, c.cvv, now); err != nil {
		return err
	}
	c.expiryYear = year
	return nil
}

func (c *CreditCard) CVV() string {
	return c.cvv
}

// SetCVV sets the card verification value. Its length must suit the brand of
// the card number when one is set.
func (c *CreditCard) SetCVV(cvv string) error {
	cfg := c.config()
	if err := validateCardDetails(c.number, c.expiryMonth, c.expiryYear, cvv, cfg.now()); err != nil {
		return err
	}
	c.cvv = cvv
	return nil
}

func (c *CreditCard) CardholderName() string {
	return c.cardholderName
}

// SetCardholderName sets the name on the card, truncated to 100 characters.
func (c *CreditCard) SetCardholderName(name string) {
	c.cardholderName = ProperCardholderName(name)
}

// FormattedExpiryDate returns the expiry as MM/YY once both parts are set.
func (c *CreditCard) FormattedExpiryDate() (string, bool) {
	if c.expiryMonth == "" || c.expiryYear == "" {
		return "", false
	}
	return c.expiryMonth + "/" + c.expiryYear[2:], true
}

func (c *CreditCard) creditCardInfo() Node {
	expiry, _ := c.FormattedExpiryDate()
	info := group("CreditCardInfo",
		leaf("cardNumber", c.number),
		leaf("expiryDate", expiry),
	)
	if c.cvv != "" {
		info.Children = append(info.Children, leaf("cvv", c.cvv))
	}
	return info
}

// census counts how many of number, expiry month and expiry year are set.
func (c *CreditCard) census() int {
	n := 0
	for _, v := range []string{c.number, c.expiryMonth, c.expiryYear} {
		if v != "" {
			n++
		}
	}
	return n
}

func normalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
