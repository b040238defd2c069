package securepay

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"time"
)

// RequestType is the RequestType discriminator of a message.
type RequestType string

const (
	RequestTypePayment     RequestType = "Payment"
	RequestTypePeriodic    RequestType = "Periodic"
	RequestTypeEcho        RequestType = "Echo"
	RequestTypeAddToken    RequestType = "addToken"
	RequestTypeLookupToken RequestType = "lookupToken"
)

// Request is the envelope around one action. The gateway processes a single
// action per message, so a Request holds at most one Transaction or
// PeriodicItem.
type Request struct {
	cfg        *Config
	merchantID string
	password   string
	testMode   bool
	timestamp  time.Time
	action     Action
	rng        *rand.Rand
}

// NewRequest creates an empty request for the merchant. The merchant ID must
// be 5 or 7 characters and the transaction password 6 to 20 characters. The
// message timestamp is fixed here and cfg must pass Validate.
func NewRequest(cfg *Config, merchantID, password string, testMode bool) (*Request, error) {
	cfg = configOrDefault(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if n := len(merchantID); n != 5 && n != 7 {
		return nil, NewValidationError("merchantID", "must be 5 or 7 characters")
	}
	if err := checkVar("password", password, "min=6,max=20"); err != nil {
		return nil, err
	}
	return &Request{
		cfg:        cfg,
		merchantID: merchantID,
		password:   password,
		testMode:   testMode,
		timestamp:  cfg.now(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}, nil
}

func (r *Request) MerchantID() string {
	return r.merchantID
}

func (r *Request) TestMode() bool {
	return r.testMode
}

func (r *Request) SetTestMode(testMode bool) {
	r.testMode = testMode
}

// Timestamp returns the request creation time.
func (r *Request) Timestamp() time.Time {
	return r.timestamp
}

// Action returns the attached action, or nil.
func (r *Request) Action() Action {
	return r.action
}

// Attach adds the request's single action. A second call fails with
// UnsupportedFeatureError. Nil actions, typed or not, are rejected.
func (r *Request) Attach(action Action) error {
	switch action.(type) {
	case Transaction, PeriodicItem:
		if v := reflect.ValueOf(action); v.Kind() == reflect.Pointer && v.IsNil() {
			return &TypeNotSupportedError{Type: fmt.Sprintf("%T", action)}
		}
	default:
		return &TypeNotSupportedError{Type: fmt.Sprintf("%T", action)}
	}
	if r.action != nil {
		return &UnsupportedFeatureError{Feature: "only one action can be sent per request"}
	}
	r.action = action
	return nil
}

func (r *Request) AddStandardPayment() (*StandardPayment, error) {
	return attachNew(r, NewStandardPayment(r.cfg))
}

func (r *Request) AddPreauthorise() (*Preauthorise, error) {
	return attachNew(r, NewPreauthorise(r.cfg))
}

func (r *Request) AddComplete() (*Complete, error) {
	return attachNew(r, NewComplete(r.cfg))
}

func (r *Request) AddRefund() (*Refund, error) {
	return attachNew(r, NewRefund(r.cfg))
}

func (r *Request) AddFraudguardOnly() (*FraudguardOnly, error) {
	return attachNew(r, NewFraudguardOnly(r.cfg))
}

func (r *Request) AddDirectDebit() (*DirectDebit, error) {
	return attachNew(r, NewDirectDebit(r.cfg))
}

func (r *Request) AddDirectCredit() (*DirectCredit, error) {
	return attachNew(r, NewDirectCredit(r.cfg))
}

func (r *Request) AddPayor() (*AddPayor, error) {
	return attachNew(r, NewAddPayor(r.cfg))
}

func (r *Request) AddFuturePayment() (*AddFuturePayment, error) {
	return attachNew(r, NewAddFuturePayment(r.cfg))
}

func (r *Request) AddOngoingPayment() (*AddOngoingPayment, error) {
	return attachNew(r, NewAddOngoingPayment(r.cfg))
}

func (r *Request) AddDeletePayor() (*DeletePayor, error) {
	return attachNew(r, NewDeletePayor())
}

func (r *Request) AddEditPayor() (*EditPayor, error) {
	return attachNew(r, NewEditPayor(r.cfg))
}

func (r *Request) AddTriggerPayment() (*TriggerPayment, error) {
	return attachNew(r, NewTriggerPayment(r.cfg))
}

func attachNew[A Action](r *Request, action A) (A, error) {
	if err := r.Attach(action); err != nil {
		var zero A
		return zero, err
	}
	return action, nil
}

// IsReadyToGenerate reports whether an action is attached and all of its
// required values are set.
func (r *Request) IsReadyToGenerate() bool {
	return r.action != nil && r.action.IsAllRequiredValuesSet()
}

// FullAPIURL returns the base URL for the current mode joined with the
// attached action's endpoint.
func (r *Request) FullAPIURL() (string, error) {
	if r.action == nil {
		return "", &IncompleteMessageError{Reason: "no action attached"}
	}
	return strings.TrimRight(r.cfg.BaseURL(r.testMode), "/") + r.action.Endpoint(), nil
}

// EchoURL returns the URL echo messages are posted to.
func (r *Request) EchoURL() string {
	return strings.TrimRight(r.cfg.BaseURL(r.testMode), "/") + pathPayment
}

// GenerateRequestMessage serializes the request and its action. Each call
// draws a fresh message ID.
func (r *Request) GenerateRequestMessage() ([]byte, error) {
	if r.action == nil {
		return nil, &IncompleteMessageError{Reason: "no action attached"}
	}
	if !r.action.IsAllRequiredValuesSet() {
		return nil, &IncompleteMessageError{Reason: "action is missing required values"}
	}
	rt := r.action.RequestType()
	w := newMessageWriter(r.cfg)
	w.messageInfo(r.newMessageID(), FormatTimestamp(r.timestamp), r.apiVersion(rt), true)
	w.merchantInfo(r.merchantID, r.password)
	w.requestType(rt)
	w.actionList(rt, r.action.Nodes())
	return w.bytes()
}

// GenerateEchoMessage serializes an Echo message, which carries no action
// and checks connectivity and credentials.
func (r *Request) GenerateEchoMessage() ([]byte, error) {
	w := newMessageWriter(r.cfg)
	w.messageInfo(r.newMessageID(), FormatTimestamp(r.cfg.now()), r.cfg.PaymentAPIVersion, false)
	w.merchantInfo(r.merchantID, r.password)
	w.requestType(RequestTypeEcho)
	return w.bytes()
}

func (r *Request) apiVersion(rt RequestType) string {
	if rt == RequestTypePeriodic {
		return r.cfg.PeriodicAPIVersion
	}
	return r.cfg.PaymentAPIVersion
}

func (r *Request) newMessageID() string {
	return randomMessageID(r.rng, r.cfg.MessageIDChars, messageIDLength)
}
