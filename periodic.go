package securepay

import (
	"strconv"
	"strings"
	"time"
)

// PeriodicType names a periodic action for NewPeriodicItem.
type PeriodicType string

const (
	PeriodicAddPayor          PeriodicType = "addPayor"
	PeriodicAddFuturePayment  PeriodicType = "addFuturePayment"
	PeriodicAddOngoingPayment PeriodicType = "addOngoingPayment"
	PeriodicDelete            PeriodicType = "delete"
	PeriodicTrigger           PeriodicType = "trigger"
	PeriodicEdit              PeriodicType = "edit"
)

// periodicType values on the wire.
const (
	scheduleOnceOff  = "1"
	scheduleDayBased = "2"
	scheduleCalendar = "3"
	schedulePayor    = "4"
)

// PeriodicItem is implemented by *AddPayor, *AddFuturePayment,
// *AddOngoingPayment, *DeletePayor, *EditPayor and *TriggerPayment.
type PeriodicItem interface {
	Action
	PeriodicType() PeriodicType
	periodic() *periodicCommon
}

// AccountType is the payment account a periodic item resolves to.
type AccountType int

const (
	AccountTypeUnidentified AccountType = iota
	AccountTypeCreditCard
	AccountTypeDirectEntry
	// AccountTypeBoth means card and bank account are both complete. It is
	// rejected as not ready rather than guessing which one to charge.
	AccountTypeBoth
)

func (a AccountType) String() string {
	switch a {
	case AccountTypeCreditCard:
		return "credit card"
	case AccountTypeDirectEntry:
		return "direct entry"
	case AccountTypeBoth:
		return "both"
	default:
		return "unidentified"
	}
}

// ResolveAccountType picks the account from how many of the three card
// fields (number, expiry month, expiry year) and the three bank fields
// (account name, account number, BSB) are set. Only a complete side with an
// untouched other side is usable.
func ResolveAccountType(cardFields, bankFields int) AccountType {
	switch {
	case cardFields == 3 && bankFields == 3:
		return AccountTypeBoth
	case cardFields == 3 && bankFields == 0:
		return AccountTypeCreditCard
	case cardFields == 0 && bankFields == 3:
		return AccountTypeDirectEntry
	default:
		return AccountTypeUnidentified
	}
}

// CalendarInterval is a named schedule for an ongoing payment.
type CalendarInterval int

const (
	IntervalWeekly CalendarInterval = iota + 1
	IntervalFortnightly
	IntervalMonthly
	IntervalQuarterly
	IntervalHalfYearly
	IntervalAnnually
)

type periodicCommon struct {
	clientID string
}

func (p *periodicCommon) periodic() *periodicCommon {
	return p
}

// ClientID returns the payor's reference.
func (p *periodicCommon) ClientID() string {
	return p.clientID
}

// SetClientID sets the payor's reference: 1 to 20 characters, no whitespace.
func (p *periodicCommon) SetClientID(clientID string) error {
	if err := ValidateClientID(clientID); err != nil {
		return err
	}
	p.clientID = clientID
	return nil
}

// RequestType returns RequestTypePeriodic.
func (p *periodicCommon) RequestType() RequestType {
	return RequestTypePeriodic
}

// Endpoint returns the periodic endpoint shared by all periodic items.
func (p *periodicCommon) Endpoint() string {
	return pathPeriodic
}

// paymentAccount holds the card or bank account a payor is charged from.
type paymentAccount struct {
	CreditCard
	DirectEntry
}

func newPaymentAccount(cfg *Config) paymentAccount {
	return paymentAccount{CreditCard: newCreditCard(cfg)}
}

// AccountType resolves which of the card or bank account is in use.
func (a *paymentAccount) AccountType() AccountType {
	return ResolveAccountType(a.CreditCard.census(), a.DirectEntry.census())
}

func (a *paymentAccount) accountReady() bool {
	switch a.AccountType() {
	case AccountTypeCreditCard, AccountTypeDirectEntry:
		return true
	default:
		return false
	}
}

func (a *paymentAccount) accountNodes() []Node {
	switch a.AccountType() {
	case AccountTypeCreditCard:
		return []Node{a.creditCardInfo()}
	case AccountTypeDirectEntry:
		if info, ok := a.directEntryInfo(); ok {
			return []Node{info}
		}
	}
	return nil
}

// scheduledStart holds the first processing date of a scheduled payment.
type scheduledStart struct {
	startDate time.Time
}

// StartDate returns the processing date, if set.
func (s *scheduledStart) StartDate() (time.Time, bool) {
	return s.startDate, !s.startDate.IsZero()
}

func (s *scheduledStart) setStartDate(cfg *Config, start time.Time) error {
	if !isDateInFuture(cfg.now(), start) {
		return NewValidationError("startDate", "must be a future date")
	}
	s.startDate = start
	return nil
}

func (s *scheduledStart) formattedStartDate() string {
	if s.startDate.IsZero() {
		return ""
	}
	return s.startDate.Format("20060102")
}

// AddPayor stores a payor's card or bank account for later triggered payments.
type AddPayor struct {
	periodicCommon
	money
	paymentAccount
}

func NewAddPayor(cfg *Config) *AddPayor {
	cfg = configOrDefault(cfg)
	return &AddPayor{money: newMoney(cfg), paymentAccount: newPaymentAccount(cfg)}
}

func (p *AddPayor) PeriodicType() PeriodicType   { return PeriodicAddPayor }
func (p *AddPayor) IsAllRequiredValuesSet() bool { return periodicReady(p) }
func (p *AddPayor) Nodes() []Node                { return periodicNodes(p) }

// AddFuturePayment schedules a single payment on a future date.
type AddFuturePayment struct {
	periodicCommon
	money
	scheduledStart
	paymentAccount
}

func NewAddFuturePayment(cfg *Config) *AddFuturePayment {
	cfg = configOrDefault(cfg)
	return &AddFuturePayment{money: newMoney(cfg), paymentAccount: newPaymentAccount(cfg)}
}

// SetStartDate sets the processing date. It must fall after today.
func (p *AddFuturePayment) SetStartDate(start time.Time) error {
	return p.setStartDate(p.money.config(), start)
}

func (p *AddFuturePayment) PeriodicType() PeriodicType   { return PeriodicAddFuturePayment }
func (p *AddFuturePayment) IsAllRequiredValuesSet() bool { return periodicReady(p) }
func (p *AddFuturePayment) Nodes() []Node                { return periodicNodes(p) }

// AddOngoingPayment schedules a series of payments, either every N days or
// on a calendar interval.
type AddOngoingPayment struct {
	periodicCommon
	money
	scheduledStart
	paymentAccount
	dayInterval      int
	calendarInterval CalendarInterval
	numberOfPayments int
}

func NewAddOngoingPayment(cfg *Config) *AddOngoingPayment {
	cfg = configOrDefault(cfg)
	return &AddOngoingPayment{money: newMoney(cfg), paymentAccount: newPaymentAccount(cfg)}
}

// SetStartDate sets the first processing date. It must fall after today.
func (p *AddOngoingPayment) SetStartDate(start time.Time) error {
	return p.setStartDate(p.money.config(), start)
}

// DayInterval returns the days between payments, or 0 when a calendar
// interval is used instead.
func (p *AddOngoingPayment) DayInterval() int {
	return p.dayInterval
}

// SetDayInterval schedules a payment every days days and clears any
// calendar interval.
func (p *AddOngoingPayment) SetDayInterval(days int) error {
	if days < 1 {
		return NewValidationError("paymentInterval", "day interval must be at least 1")
	}
	p.calendarInterval = 0
	p.dayInterval = days
	return nil
}

// CalendarInterval returns the calendar schedule, or 0 when a day interval
// is used instead.
func (p *AddOngoingPayment) CalendarInterval() CalendarInterval {
	return p.calendarInterval
}

// SetCalendarInterval schedules payments on a calendar interval and clears
// any day interval.
func (p *AddOngoingPayment) SetCalendarInterval(interval CalendarInterval) error {
	if interval < IntervalWeekly || interval > IntervalAnnually {
		return NewValidationError("paymentInterval", "unknown calendar interval "+strconv.Itoa(int(interval)))
	}
	p.dayInterval = 0
	p.calendarInterval = interval
	return nil
}

func (p *AddOngoingPayment) NumberOfPayments() int {
	return p.numberOfPayments
}

// SetNumberOfPayments sets how many payments the schedule makes.
func (p *AddOngoingPayment) SetNumberOfPayments(n int) error {
	if n < 1 {
		return NewValidationError("numberOfPayments", "must be at least 1")
	}
	p.numberOfPayments = n
	return nil
}

func (p *AddOngoingPayment) PeriodicType() PeriodicType   { return PeriodicAddOngoingPayment }
func (p *AddOngoingPayment) IsAllRequiredValuesSet() bool { return periodicReady(p) }
func (p *AddOngoingPayment) Nodes() []Node                { return periodicNodes(p) }

// DeletePayor deletes a payor, or the future payment or schedule stored
// under its client ID. A deleted payor's client ID can be reused.
type DeletePayor struct {
	periodicCommon
}

func NewDeletePayor() *DeletePayor {
	return &DeletePayor{}
}

func (p *DeletePayor) PeriodicType() PeriodicType   { return PeriodicDelete }
func (p *DeletePayor) IsAllRequiredValuesSet() bool { return periodicReady(p) }
func (p *DeletePayor) Nodes() []Node                { return periodicNodes(p) }

// EditPayor replaces the card or bank account stored against a payor.
type EditPayor struct {
	periodicCommon
	paymentAccount
}

func NewEditPayor(cfg *Config) *EditPayor {
	return &EditPayor{paymentAccount: newPaymentAccount(configOrDefault(cfg))}
}

func (p *EditPayor) PeriodicType() PeriodicType   { return PeriodicEdit }
func (p *EditPayor) IsAllRequiredValuesSet() bool { return periodicReady(p) }
func (p *EditPayor) Nodes() []Node                { return periodicNodes(p) }

// TriggerPayment charges an existing payor now.
type TriggerPayment struct {
	periodicCommon
	money
	transactionReference string
}

func NewTriggerPayment(cfg *Config) *TriggerPayment {
	return &TriggerPayment{money: newMoney(configOrDefault(cfg))}
}

func (p *TriggerPayment) TransactionReference() string {
	return p.transactionReference
}

// SetTransactionReference sets the reference recorded against the payment,
// truncated to 60 characters.
func (p *TriggerPayment) SetTransactionReference(ref string) {
	p.transactionReference = ProperPurchaseOrderNo(ref)
}

func (p *TriggerPayment) PeriodicType() PeriodicType   { return PeriodicTrigger }
func (p *TriggerPayment) IsAllRequiredValuesSet() bool { return periodicReady(p) }
func (p *TriggerPayment) Nodes() []Node                { return periodicNodes(p) }

// NewPeriodicItem returns an empty periodic item of the given type. The
// type name is matched case-insensitively.
func NewPeriodicItem(cfg *Config, periodicType PeriodicType) (PeriodicItem, error) {
	switch strings.ToLower(string(periodicType)) {
	case strings.ToLower(string(PeriodicAddPayor)):
		return NewAddPayor(cfg), nil
	case strings.ToLower(string(PeriodicAddFuturePayment)):
		return NewAddFuturePayment(cfg), nil
	case strings.ToLower(string(PeriodicAddOngoingPayment)):
		return NewAddOngoingPayment(cfg), nil
	case strings.ToLower(string(PeriodicDelete)):
		return NewDeletePayor(), nil
	case strings.ToLower(string(PeriodicTrigger)):
		return NewTriggerPayment(cfg), nil
	case strings.ToLower(string(PeriodicEdit)):
		return NewEditPayor(cfg), nil
	default:
		return nil, &TypeNotSupportedError{Type: "periodic " + string(periodicType)}
	}
}

func periodicReady(p PeriodicItem) bool {
	if p.periodic().clientID == "" {
		return false
	}
	switch v := p.(type) {
	case *AddPayor:
		return v.accountReady()
	case *AddFuturePayment:
		_, started := v.StartDate()
		return started && v.amount != "" && v.accountReady()
	case *AddOngoingPayment:
		_, started := v.StartDate()
		scheduled := v.dayInterval > 0 || v.calendarInterval > 0
		return started && v.amount != "" && scheduled && v.numberOfPayments > 0 && v.accountReady()
	case *DeletePayor:
		return true
	case *EditPayor:
		return v.accountReady()
	case *TriggerPayment:
		return v.amount != "" && v.transactionReference != ""
	default:
		return false
	}
}

// periodicNodes lays out a periodic item: actionType and clientID first, then
// the kind's fields, then the payment account.
func periodicNodes(p PeriodicItem) []Node {
	c := p.periodic()
	switch v := p.(type) {
	case *AddPayor:
		nodes := []Node{leaf("actionType", "add"), leaf("clientID", c.clientID)}
		if v.amount != "" {
			nodes = append(nodes, leaf("amount", v.amount), leaf("currency", v.currency))
		}
		nodes = append(nodes, leaf("periodicType", schedulePayor))
		return append(nodes, v.accountNodes()...)
	case *AddFuturePayment:
		nodes := []Node{
			leaf("actionType", "add"),
			leaf("clientID", c.clientID),
			leaf("amount", v.amount),
			leaf("currency", v.currency),
			leaf("startDate", v.formattedStartDate()),
			leaf("periodicType", scheduleOnceOff),
		}
		return append(nodes, v.accountNodes()...)
	case *AddOngoingPayment:
		nodes := []Node{
			leaf("actionType", "add"),
			leaf("clientID", c.clientID),
			leaf("amount", v.amount),
			leaf("currency", v.currency),
			leaf("startDate", v.formattedStartDate()),
			leaf("numberOfPayments", strconv.Itoa(v.numberOfPayments)),
		}
		if v.dayInterval > 0 {
			nodes = append(nodes,
				leaf("periodicType", scheduleDayBased),
				leaf("paymentInterval", strconv.Itoa(v.dayInterval)))
		} else {
			nodes = append(nodes,
				leaf("periodicType", scheduleCalendar),
				leaf("paymentInterval", strconv.Itoa(int(v.calendarInterval))))
		}
		return append(nodes, v.accountNodes()...)
	case *DeletePayor:
		return []Node{leaf("actionType", "delete"), leaf("clientID", c.clientID)}
	case *EditPayor:
		nodes := []Node{leaf("actionType", "edit"), leaf("clientID", c.clientID)}
		return append(nodes, v.accountNodes()...)
	case *TriggerPayment:
		return []Node{
			leaf("actionType", "trigger"),
			leaf("clientID", c.clientID),
			leaf("currency", v.currency),
			leaf("amount", v.amount),
			leaf("transactionReference", v.transactionReference),
		}
	default:
		return nil
	}
}
