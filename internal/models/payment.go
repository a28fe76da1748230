package models

// PaymentOrder describes a checkout order handed to the payment-initiation
// flow. Provider-specific fields are optional and absent depending on the
// provider branch; the order itself is never mutated after construction.
type PaymentOrder struct {
	OrderID     string  `json:"orderId"`
	UserID      int64   `json:"userId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	SuccessURL  string  `json:"successUrl"`
	CancelURL   string  `json:"cancelUrl"`
	Sandbox     bool    `json:"sandbox"`
	ProviderRef *string `json:"providerRef,omitempty"`
}

// Complete reports whether the order carries everything a provider redirect
// needs.
func (o PaymentOrder) Complete() bool {
	return o.OrderID != "" && o.Amount > 0 && o.Currency != "" &&
		o.SuccessURL != "" && o.CancelURL != ""
}
