package billing

import (
	"github.com/shopspring/decimal"
)

// PaymentEpsilon absorbs sub-cent drift from legacy rounding: an invoice
// counts as paid when matched payments come within this tolerance of the
// amount due.
var PaymentEpsilon = decimal.RequireFromString("0.01")

// ReconcileOutcome is the computed settlement state for one invoice
type ReconcileOutcome struct {
	MatchedTotal decimal.Decimal
	Remaining    decimal.Decimal
	Settled      bool
}

// Reconcile compares matched payments against the amount due. Remaining is
// floored at zero so overpayment never produces a negative balance.
func Reconcile(amountDue, matchedTotal decimal.Decimal) ReconcileOutcome {
	remaining := amountDue.Sub(matchedTotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return ReconcileOutcome{
		MatchedTotal: matchedTotal,
		Remaining:    remaining,
		Settled:      matchedTotal.GreaterThanOrEqual(amountDue.Sub(PaymentEpsilon)),
	}
}
