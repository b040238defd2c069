// Package securepay is a client for the SecurePay XML API.
//
// # Requests
//
// A [Request] carries the merchant credentials and exactly one action: a
// [Transaction] such as [StandardPayment] or [Refund], or a [PeriodicItem]
// such as [AddPayor] or [TriggerPayment]. Field setters validate their input
// immediately and return a [*ValidationError]; an action reports through
// IsAllRequiredValuesSet whether it can be serialized.
//
//	req, err := securepay.NewRequest(cfg, "ABC0001", "abc123", true)
//	payment, err := req.AddStandardPayment()
//	err = payment.SetAmount("12.50")
//	err = payment.SetCardDetails("4444333322221111", "08", "30", "123")
//	payment.SetPurchaseOrderNo("order-42")
//
// # Submitting
//
// [Client.Submit] posts the message to the endpoint the action selects and
// parses the reply into a [Response]. [Client.Echo] checks connectivity and
// credentials without an action.
//
// # Configuration
//
// [DefaultConfig] holds the gateway defaults. [LoadConfigFromEnv] and
// [LoadConfigFromDotEnv] override them from SECUREPAY_* environment variables.
package securepay
