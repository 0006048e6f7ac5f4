package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdvanceApplication records advance credit drawn against one invoice
type AdvanceApplication struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	Amount        decimal.Decimal
	FullyCovered  bool
}

// AdvanceAllocationResult summarizes one allocation run
type AdvanceAllocationResult struct {
	Processed    int // invoices that received credit in this run
	TotalApplied decimal.Decimal
	Applications []AdvanceApplication
}

// AllocateAdvanceRent draws the lease's remaining advance-rent credit down
// against its open rent invoices, oldest due date first. The run is
// idempotent: each invoice remembers how much credit it already absorbed,
// so re-running over the same state applies nothing new. Invoices fully
// covered by credit settle immediately.
//
// Both the tenant unit and the applied invoices are mutated; the caller
// persists them together.
func AllocateAdvanceRent(unit *TenantUnit, invoices []*RentInvoice) (*AdvanceAllocationResult, error) {
	result := &AdvanceAllocationResult{
		TotalApplied: decimal.Zero,
		Applications: make([]AdvanceApplication, 0),
	}

	open := make([]*RentInvoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.TenantUnitID == unit.ID && inv.Status.CanAcceptPayment() {
			open = append(open, inv)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if !open[i].DueDate.Equal(open[j].DueDate) {
			return open[i].DueDate.Before(open[j].DueDate)
		}
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})

	for _, inv := range open {
		remaining := unit.AdvanceRemaining()
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		needed := inv.AdvanceNeeded()
		if !needed.GreaterThan(decimal.Zero) {
			continue
		}
		result.Processed++

		applied := decimal.Min(needed, remaining)
		if err := inv.ApplyAdvance(applied); err != nil {
			return nil, err
		}
		if err := unit.ConsumeAdvance(applied); err != nil {
			return nil, err
		}

		if inv.IsAdvanceCovered() {
			if err := inv.Settle(time.Now()); err != nil {
				return nil, err
			}
		}

		unit.AddDomainEvent(NewAdvanceRentAppliedEvent(unit, inv, applied))

		result.TotalApplied = result.TotalApplied.Add(applied)
		result.Applications = append(result.Applications, AdvanceApplication{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        applied,
			FullyCovered:  inv.IsAdvanceCovered(),
		})
	}

	return result, nil
}
