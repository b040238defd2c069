package securepay

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultTestURL is the SecurePay test gateway base URL.
	DefaultTestURL = "https://test.api.securepay.com.au"
	// DefaultLiveURL is the SecurePay live gateway base URL.
	DefaultLiveURL = "https://api.securepay.com.au"
)

// Config holds the gateway settings shared by requests, validators and the
// response parser. It is passed explicitly; build one with DefaultConfig and
// override what differs.
type Config struct {
	// BaseTestURL and BaseLiveURL are joined with an action endpoint path to
	// form the submission URL.
	BaseTestURL string `validate:"required,url"`
	BaseLiveURL string `validate:"required,url"`

	// DefaultCurrency is assigned to every new amount-carrying action.
	DefaultCurrency     string   `validate:"required,len=3"`
	SupportedCurrencies []string `validate:"required,min=1,dive,len=3"`

	// AcceptedCards lists the card brands the merchant facility accepts.
	AcceptedCards []CardBrand `validate:"required,min=1,dive,required"`

	// DefaultTxnSource is written as txnSource on every transaction.
	DefaultTxnSource string `validate:"required"`

	// TimeoutValue is sent to the gateway as timeoutValue (seconds). It is
	// not enforced locally.
	TimeoutValue int `validate:"gte=1"`

	PaymentAPIVersion  string `validate:"required"`
	PeriodicAPIVersion string `validate:"required"`

	XMLVersion      string `validate:"required"`
	CharsetEncoding string `validate:"required"`
	UseIndentation  bool
	IndentSpaces    int `validate:"gte=0,lte=8"`

	// MessageIDChars is the alphabet message IDs are drawn from.
	MessageIDChars string `validate:"required"`

	// ApprovedResponseCodes are the per-action response codes counted as approved.
	ApprovedResponseCodes []string `validate:"required,min=1,dive,required"`

	// UseTLSValidation toggles server certificate verification. CertPath
	// optionally points at a PEM bundle or PKCS#12 trust store of CA roots.
	UseTLSValidation bool
	CertPath         string

	clock func() time.Time
}

// DefaultConfig returns the documented gateway defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseTestURL:           DefaultTestURL,
		BaseLiveURL:           DefaultLiveURL,
		DefaultCurrency:       "AUD",
		SupportedCurrencies:   []string{"AUD", "USD", "NZD", "GBP", "EUR", "SGD", "HKD", "CAD", "JPY"},
		AcceptedCards:         []CardBrand{BrandVisa, BrandMastercard, BrandAmex, BrandDinersClub, BrandJCB},
		DefaultTxnSource:      "23",
		TimeoutValue:          60,
		PaymentAPIVersion:     "xml-4.2",
		PeriodicAPIVersion:    "spxml-3.0",
		XMLVersion:            "1.0",
		CharsetEncoding:       "UTF-8",
		UseIndentation:        true,
		IndentSpaces:          2,
		MessageIDChars:        "0123456789abcdef",
		ApprovedResponseCodes: []string{"0", "00", "000", "08", "11", "16"},
		UseTLSValidation:      true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("securepay: config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("securepay: config %w", normalizeValidationError(err))
	}
	if !c.isSupportedCurrency(c.DefaultCurrency) {
		return fmt.Errorf("securepay: config DefaultCurrency %s is not in SupportedCurrencies", c.DefaultCurrency)
	}
	for _, brand := range c.AcceptedCards {
		if _, ok := brandByName[brand]; !ok {
			return fmt.Errorf("securepay: config AcceptedCards contains unknown brand %q", brand)
		}
	}
	return nil
}

// BaseURL returns the live or test base URL.
func (c *Config) BaseURL(testMode bool) string {
	if testMode {
		return c.BaseTestURL
	}
	return c.BaseLiveURL
}

func (c *Config) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}

func (c *Config) isSupportedCurrency(currency string) bool {
	return slices.Contains(c.SupportedCurrencies, currency)
}

func (c *Config) isAcceptedCard(brand CardBrand) bool {
	return slices.Contains(c.AcceptedCards, brand)
}

func (c *Config) isApprovedCode(code string) bool {
	return slices.Contains(c.ApprovedResponseCodes, code)
}

func configOrDefault(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return cfg
}

// LoadConfigFromEnv builds a Config from DefaultConfig overridden by
// environment variables:
//
//	SECUREPAY_TEST_URL              – test gateway base URL
//	SECUREPAY_LIVE_URL              – live gateway base URL
//	SECUREPAY_DEFAULT_CURRENCY      – e.g. "AUD"
//	SECUREPAY_SUPPORTED_CURRENCIES  – comma separated list
//	SECUREPAY_ACCEPTED_CARDS        – comma separated brands (visa,mastercard,...)
//	SECUREPAY_TXN_SOURCE            – txnSource value
//	SECUREPAY_TIMEOUT               – timeoutValue in seconds
//	SECUREPAY_USE_TLS_VALIDATION    – "true" (default) or "false"
//	SECUREPAY_CERT_PATH             – CA bundle (PEM or .p12/.pfx trust store)
func LoadConfigFromEnv() (*Config, error) {
	return configFromEnv()
}

// LoadConfigFromDotEnv loads environment variables from a .env file and then
// reads the Config from them. If the file does not exist it silently falls
// back to the current process environment.
func LoadConfigFromDotEnv(filenames ...string) (*Config, error) {
	// godotenv.Load does NOT override existing env vars.
	_ = godotenv.Load(filenames...)
	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SECUREPAY_TEST_URL"); v != "" {
		cfg.BaseTestURL = v
	}
	if v := os.Getenv("SECUREPAY_LIVE_URL"); v != "" {
		cfg.BaseLiveURL = v
	}
	if v := os.Getenv("SECUREPAY_DEFAULT_CURRENCY"); v != "" {
		cfg.DefaultCurrency = strings.ToUpper(v)
	}
	if v := os.Getenv("SECUREPAY_SUPPORTED_CURRENCIES"); v != "" {
		cfg.SupportedCurrencies = splitList(strings.ToUpper(v))
	}
	if v := os.Getenv("SECUREPAY_ACCEPTED_CARDS"); v != "" {
		cfg.AcceptedCards = nil
		for _, name := range splitList(strings.ToLower(v)) {
			cfg.AcceptedCards = append(cfg.AcceptedCards, CardBrand(name))
		}
	}
	if v := os.Getenv("SECUREPAY_TXN_SOURCE"); v != "" {
		cfg.DefaultTxnSource = v
	}
	if v := os.Getenv("SECUREPAY_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("securepay: SECUREPAY_TIMEOUT: %w", err)
		}
		cfg.TimeoutValue = n
	}
	if v := os.Getenv("SECUREPAY_USE_TLS_VALIDATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("securepay: SECUREPAY_USE_TLS_VALIDATION: %w", err)
		}
		cfg.UseTLSValidation = b
	}
	cfg.CertPath = os.Getenv("SECUREPAY_CERT_PATH")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
