// Package payment hides the hosted-checkout processor behind Gateway.
package payment

import (
	"context"
)

// PaymentStatusPaid is the only checkout status that confirms a booking.
const PaymentStatusPaid = "paid"

// CheckoutSessionIDPlaceholder is substituted by the processor in the success URL.
const CheckoutSessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

type Gateway interface {
	// FindCustomerByEmail returns the first customer with that email, or "" if none.
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// CheckoutInput describes a single-item, single-currency payment for an
// existing customer.
type CheckoutInput struct {
	CustomerID  string
	ProductName string
	Description string
	AmountCents int64
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	Metadata        map[string]string
}

func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}
