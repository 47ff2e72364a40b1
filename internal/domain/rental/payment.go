package rental

// PaymentStatus is the derived payment classification. It is never stored;
// callers recompute it from the pricing amounts.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// Pricing is a value object holding the agreed rental price and the amount
// paid so far. Amounts are whole rupiah. PaidAmount is not capped at Amount
// at the data level; ResolvePayment classifies over-payment as PAID.
type Pricing struct {
	Amount     int64  `json:"amount"`
	PaidAmount int64  `json:"paid_amount"`
	Currency   string `json:"currency"`
}

// ResolvePayment classifies the payment state and computes the remaining
// balance. Negative inputs are clamped to zero so the result is always
// consistent: the balance is never negative, and a paid amount at or above
// the total always resolves to PAID with zero remaining.
func ResolvePayment(amount, paidAmount int64) (PaymentStatus, int64) {
	if amount < 0 {
		amount = 0
	}
	if paidAmount < 0 {
		paidAmount = 0
	}

	switch {
	case paidAmount == 0:
		return PaymentUnpaid, amount
	case paidAmount >= amount:
		return PaymentPaid, 0
	default:
		return PaymentPartial, amount - paidAmount
	}
}

// PaymentStatusOf resolves the payment status for this pricing.
func (p Pricing) PaymentStatusOf() PaymentStatus {
	status, _ := ResolvePayment(p.Amount, p.PaidAmount)
	return status
}

// RemainingBalance resolves the outstanding balance for this pricing.
func (p Pricing) RemainingBalance() int64 {
	_, remaining := ResolvePayment(p.Amount, p.PaidAmount)
	return remaining
}
