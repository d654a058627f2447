// Package checkout hosts the payment provider's checkout widget on a loopback page and relays its
// callbacks back to the caller.
package checkout

// Prefill is the customer contact the widget shows in its form.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Result is what the widget hands back on a captured payment.
type Result struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Callbacks receive the widget's outcome. At most one of OnSuccess or OnDismiss runs per order;
// OnFailure may run before either, once per failed attempt.
type Callbacks struct {
	OnSuccess func(Result)
	OnFailure func(description string)
	OnDismiss func()
}
