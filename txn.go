package securepay

// TxnType is the txnType tag of a payment transaction.
type TxnType string

const (
	TxnStandardPayment TxnType = "0"
	TxnRefund          TxnType = "4"
	TxnPreauthorise    TxnType = "10"
	TxnComplete        TxnType = "11"
	TxnFraudguardOnly  TxnType = "12"
	TxnDirectDebit     TxnType = "15"
	TxnDirectCredit    TxnType = "17"
)

const (
	pathPayment     = "/xmlapi/payment"
	pathAntifraud   = "/antifraud/payment"
	pathDirectEntry = "/xmlapi/directentry"
	pathPeriodic    = "/xmlapi/periodic"
)

// Action is the single operation a Request carries: a Transaction or a
// PeriodicItem.
type Action interface {
	// IsAllRequiredValuesSet reports whether every field the gateway needs
	// is present. It is recomputed from the current values on each call.
	IsAllRequiredValuesSet() bool
	// Endpoint is the path appended to the gateway base URL.
	Endpoint() string
	// RequestType is the message discriminator the action is sent under.
	RequestType() RequestType
	// Nodes returns the ordered body of the action's list entry.
	Nodes() []Node
}

// Transaction is implemented by *StandardPayment, *Refund, *Preauthorise,
// *Complete, *FraudguardOnly, *DirectDebit and *DirectCredit.
type Transaction interface {
	Action
	TxnType() TxnType
	transaction() *txnCommon
}

// money carries an amount in cents and its currency.
type money struct {
	cfg      *Config
	amount   string
	currency string
}

func newMoney(cfg *Config) money {
	return money{cfg: cfg, currency: cfg.DefaultCurrency}
}

func (m *money) config() *Config {
	if m.cfg == nil {
		m.cfg = DefaultConfig()
	}
	return m.cfg
}

// Amount returns the amount in cents.
func (m *money) Amount() string {
	return m.amount
}

// SetAmount sets the amount. See ProperAmount for the accepted formats.
func (m *money) SetAmount(amount string) error {
	cents, err := ProperAmount(amount)
	if err != nil {
		return err
	}
	m.amount = cents
	return nil
}

func (m *money) Currency() string {
	return m.currency
}

// SetCurrency sets the currency, which must be one of the configured
// supported currencies.
func (m *money) SetCurrency(currency string) error {
	if !m.config().isSupportedCurrency(currency) {
		return NewValidationError("currency", "unsupported currency "+currency)
	}
	m.currency = currency
	return nil
}

// txnCommon holds the fields every transaction carries.
type txnCommon struct {
	money
	purchaseOrderNo string
}

func newTxnCommon(cfg *Config) txnCommon {
	return txnCommon{money: newMoney(cfg)}
}

func (t *txnCommon) transaction() *txnCommon {
	return t
}

// RequestType returns RequestTypePayment.
func (t *txnCommon) RequestType() RequestType {
	return RequestTypePayment
}

func (t *txnCommon) PurchaseOrderNo() string {
	return t.purchaseOrderNo
}

// SetPurchaseOrderNo sets the merchant's order reference, truncated to 60
// characters.
func (t *txnCommon) SetPurchaseOrderNo(purchaseOrderNo string) {
	t.purchaseOrderNo = ProperPurchaseOrderNo(purchaseOrderNo)
}

func (t *txnCommon) commonReady() bool {
	return t.amount != "" && t.currency != "" && t.purchaseOrderNo != ""
}

// cardTxn is the shape shared by the card charging kinds.
type cardTxn struct {
	txnCommon
	CreditCard
	Fraudguard
	recurring bool
}

func newCardTxn(cfg *Config) cardTxn {
	return cardTxn{txnCommon: newTxnCommon(cfg), CreditCard: newCreditCard(cfg)}
}

// Recurring reports whether the charge is flagged as recurring.
func (t *cardTxn) Recurring() bool {
	return t.recurring
}

// SetRecurring flags the charge as recurring. Recurring charges do not
// require an expiry date.
func (t *cardTxn) SetRecurring(recurring bool) {
	t.recurring = recurring
}

func (t *cardTxn) cardReady() bool {
	if t.CardNumber() == "" {
		return false
	}
	if _, ok := t.FormattedExpiryDate(); !t.recurring && !ok {
		return false
	}
	return true
}

func (t *cardTxn) cardNodes(withBuyerInfo bool) []Node {
	nodes := []Node{leaf("recurring", yesNo(t.recurring)), t.creditCardInfo()}
	if withBuyerInfo {
		nodes = append(nodes, t.buyerInfo())
	}
	return nodes
}

func (t *cardTxn) screenedEndpoint() string {
	if t.UsingFraudguard() {
		return pathAntifraud
	}
	return pathPayment
}

// StandardPayment charges a card immediately.
type StandardPayment struct{ cardTxn }

func NewStandardPayment(cfg *Config) *StandardPayment {
	return &StandardPayment{newCardTxn(configOrDefault(cfg))}
}

func (t *StandardPayment) TxnType() TxnType             { return TxnStandardPayment }
func (t *StandardPayment) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *StandardPayment) Endpoint() string             { return txnEndpoint(t) }
func (t *StandardPayment) Nodes() []Node                { return txnNodes(t) }

// Preauthorise reserves funds on a card for a later Complete.
type Preauthorise struct{ cardTxn }

func NewPreauthorise(cfg *Config) *Preauthorise {
	return &Preauthorise{newCardTxn(configOrDefault(cfg))}
}

func (t *Preauthorise) TxnType() TxnType             { return TxnPreauthorise }
func (t *Preauthorise) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *Preauthorise) Endpoint() string             { return txnEndpoint(t) }
func (t *Preauthorise) Nodes() []Node                { return txnNodes(t) }

// FraudguardOnly screens a card payment without charging it.
type FraudguardOnly struct{ cardTxn }

func NewFraudguardOnly(cfg *Config) *FraudguardOnly {
	t := &FraudguardOnly{newCardTxn(configOrDefault(cfg))}
	t.SetUseFraudguard(true)
	return t
}

func (t *FraudguardOnly) TxnType() TxnType             { return TxnFraudguardOnly }
func (t *FraudguardOnly) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *FraudguardOnly) Endpoint() string             { return txnEndpoint(t) }
func (t *FraudguardOnly) Nodes() []Node                { return txnNodes(t) }

// Complete settles a previous preauthorisation. Only one complete may be
// processed against each preauthorisation.
type Complete struct {
	txnCommon
	preauthID string
}

func NewComplete(cfg *Config) *Complete {
	return &Complete{txnCommon: newTxnCommon(configOrDefault(cfg))}
}

func (t *Complete) PreauthID() string {
	return t.preauthID
}

// SetPreauthID sets the preauthorisation ID returned by the original
// Preauthorise; it must be exactly 6 characters.
func (t *Complete) SetPreauthID(preauthID string) error {
	if err := ValidatePreauthID(preauthID); err != nil {
		return err
	}
	t.preauthID = preauthID
	return nil
}

func (t *Complete) TxnType() TxnType             { return TxnComplete }
func (t *Complete) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *Complete) Endpoint() string             { return txnEndpoint(t) }
func (t *Complete) Nodes() []Node                { return txnNodes(t) }

// Refund returns funds from a previous payment.
type Refund struct {
	txnCommon
	txnID string
}

func NewRefund(cfg *Config) *Refund {
	return &Refund{txnCommon: newTxnCommon(configOrDefault(cfg))}
}

func (t *Refund) TxnID() string {
	return t.txnID
}

// SetTxnID sets the bank transaction ID of the payment being refunded
// (6 to 16 characters).
func (t *Refund) SetTxnID(txnID string) error {
	if err := ValidateTxnID(txnID); err != nil {
		return err
	}
	t.txnID = txnID
	return nil
}

func (t *Refund) TxnType() TxnType             { return TxnRefund }
func (t *Refund) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *Refund) Endpoint() string             { return txnEndpoint(t) }
func (t *Refund) Nodes() []Node                { return txnNodes(t) }

// DirectDebit draws funds from a bank account through the direct entry batch.
type DirectDebit struct {
	txnCommon
	DirectEntry
}

func NewDirectDebit(cfg *Config) *DirectDebit {
	return &DirectDebit{txnCommon: newTxnCommon(configOrDefault(cfg))}
}

func (t *DirectDebit) TxnType() TxnType             { return TxnDirectDebit }
func (t *DirectDebit) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *DirectDebit) Endpoint() string             { return txnEndpoint(t) }
func (t *DirectDebit) Nodes() []Node                { return txnNodes(t) }

// DirectCredit pays funds into a bank account through the direct entry batch.
// Its credit flag starts set.
type DirectCredit struct {
	txnCommon
	DirectEntry
}

func NewDirectCredit(cfg *Config) *DirectCredit {
	t := &DirectCredit{txnCommon: newTxnCommon(configOrDefault(cfg))}
	t.SetCreditFlag(true)
	return t
}

func (t *DirectCredit) TxnType() TxnType             { return TxnDirectCredit }
func (t *DirectCredit) IsAllRequiredValuesSet() bool { return txnReady(t) }
func (t *DirectCredit) Endpoint() string             { return txnEndpoint(t) }
func (t *DirectCredit) Nodes() []Node                { return txnNodes(t) }

// NewTransaction returns an empty transaction of the given type.
func NewTransaction(cfg *Config, txnType TxnType) (Transaction, error) {
	switch txnType {
	case TxnStandardPayment:
		return NewStandardPayment(cfg), nil
	case TxnRefund:
		return NewRefund(cfg), nil
	case TxnPreauthorise:
		return NewPreauthorise(cfg), nil
	case TxnComplete:
		return NewComplete(cfg), nil
	case TxnFraudguardOnly:
		return NewFraudguardOnly(cfg), nil
	case TxnDirectDebit:
		return NewDirectDebit(cfg), nil
	case TxnDirectCredit:
		return NewDirectCredit(cfg), nil
	default:
		return nil, &TypeNotSupportedError{Type: "txnType " + string(txnType)}
	}
}

func txnReady(t Transaction) bool {
	if !t.transaction().commonReady() {
		return false
	}
	switch v := t.(type) {
	case *StandardPayment:
		return v.cardReady()
	case *Preauthorise:
		return v.cardReady()
	case *FraudguardOnly:
		return v.cardReady()
	case *Complete:
		return v.preauthID != ""
	case *Refund:
		return v.txnID != ""
	case *DirectDebit:
		return v.bankAccountComplete()
	case *DirectCredit:
		return v.bankAccountComplete()
	default:
		return false
	}
}

func txnEndpoint(t Transaction) string {
	switch v := t.(type) {
	case *StandardPayment:
		return v.screenedEndpoint()
	case *Preauthorise:
		return v.screenedEndpoint()
	case *FraudguardOnly:
		return pathAntifraud
	case *DirectDebit, *DirectCredit:
		return pathDirectEntry
	default:
		return pathPayment
	}
}

// txnNodes lays out a transaction in wire order: txnType, txnSource, amount,
// currency, purchaseOrderNo, kind fields, CreditCardInfo, BuyerInfo.
func txnNodes(t Transaction) []Node {
	c := t.transaction()
	nodes := []Node{
		leaf("txnType", string(t.TxnType())),
		leaf("txnSource", c.config().DefaultTxnSource),
		leaf("amount", c.amount),
		leaf("currency", c.currency),
		leaf("purchaseOrderNo", c.purchaseOrderNo),
	}
	switch v := t.(type) {
	case *StandardPayment:
		nodes = append(nodes, v.cardNodes(v.UsingFraudguard())...)
	case *Preauthorise:
		nodes = append(nodes, v.cardNodes(v.UsingFraudguard())...)
	case *FraudguardOnly:
		nodes = append(nodes, v.cardNodes(true)...)
	case *Complete:
		nodes = append(nodes, leaf("preauthID", v.preauthID))
	case *Refund:
		nodes = append(nodes, leaf("txnID", v.txnID))
	case *DirectDebit:
		if info, ok := v.directEntryInfo(); ok {
			nodes = append(nodes, info)
		}
	case *DirectCredit:
		if info, ok := v.directEntryInfo(); ok {
			nodes = append(nodes, info)
		}
	}
	return nodes
}
