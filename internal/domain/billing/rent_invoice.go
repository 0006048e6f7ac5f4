package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RentInvoiceStatus represents the lifecycle status of a rent invoice
type RentInvoiceStatus string

const (
	RentInvoiceStatusGenerated RentInvoiceStatus = "generated"
	RentInvoiceStatusSent      RentInvoiceStatus = "sent"
	RentInvoiceStatusPaid      RentInvoiceStatus = "paid"
	RentInvoiceStatusOverdue   RentInvoiceStatus = "overdue"
	RentInvoiceStatusCancelled RentInvoiceStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s RentInvoiceStatus) IsValid() bool {
	switch s {
	case RentInvoiceStatusGenerated, RentInvoiceStatusSent, RentInvoiceStatusPaid,
		RentInvoiceStatusOverdue, RentInvoiceStatusCancelled:
		return true
	}
	return false
}

// CanAcceptPayment returns true for statuses that participate in payment
// matching. Paid and cancelled invoices are settled.
func (s RentInvoiceStatus) CanAcceptPayment() bool {
	switch s {
	case RentInvoiceStatusGenerated, RentInvoiceStatusSent, RentInvoiceStatusOverdue:
		return true
	}
	return false
}

// RentInvoice is a monthly rent charge against a lease
type RentInvoice struct {
	shared.LandlordAggregateRoot
	TenantUnitID  uuid.UUID         `json:"tenant_unit_id"`
	InvoiceNumber string            `json:"invoice_number"`
	PeriodStart   time.Time         `json:"period_start"`
	DueDate       time.Time         `json:"due_date"`
	RentAmount    decimal.Decimal   `json:"rent_amount"`
	LateFee       decimal.Decimal   `json:"late_fee"`
	Status        RentInvoiceStatus `json:"status"`
	PaidDate      *time.Time        `json:"paid_date"`

	// Advance-rent credit already applied against this invoice. Stored so
	// retroactive application stays idempotent across runs.
	AdvanceRentApplied decimal.Decimal `json:"advance_rent_applied"`
}

// NewRentInvoice creates a new rent invoice in generated status
func NewRentInvoice(landlordID, tenantUnitID uuid.UUID, invoiceNumber string, periodStart, dueDate time.Time, rentAmount decimal.Decimal) (*RentInvoice, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID cannot be empty")
	}
	if tenantUnitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_UNIT", "Tenant unit ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if rentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}

	return &RentInvoice{
		LandlordAggregateRoot: shared.NewLandlordAggregateRoot(landlordID),
		TenantUnitID:          tenantUnitID,
		InvoiceNumber:         invoiceNumber,
		PeriodStart:           periodStart,
		DueDate:               dueDate,
		RentAmount:            rentAmount,
		LateFee:               decimal.Zero,
		Status:                RentInvoiceStatusGenerated,
		AdvanceRentApplied:    decimal.Zero,
	}, nil
}

// AmountDue returns the outstanding balance: rent plus late fees minus
// advance credit, floored at zero.
func (i *RentInvoice) AmountDue() decimal.Decimal {
	due := i.RentAmount.Add(i.LateFee).Sub(i.AdvanceRentApplied)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// AdvanceNeeded returns how much advance credit the invoice can still
// absorb: its full outstanding balance, late fees included.
func (i *RentInvoice) AdvanceNeeded() decimal.Decimal {
	return i.AmountDue()
}

// ApplyAdvance records advance-rent credit against the invoice. The applied
// total can never exceed the outstanding balance.
func (i *RentInvoice) ApplyAdvance(amount decimal.Decimal) error {
	if !i.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply advance rent to %s invoice", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Applied amount must be positive")
	}
	if amount.GreaterThan(i.AdvanceNeeded()) {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Applied amount %s exceeds outstanding balance %s", amount, i.AdvanceNeeded()))
	}

	i.AdvanceRentApplied = i.AdvanceRentApplied.Add(amount)
	i.IncrementVersion()

	return nil
}

// Settle transitions the invoice to paid. Paid is a terminal, monotone
// state: settling an already-paid invoice is a no-op, and the original
// paid date is preserved.
func (i *RentInvoice) Settle(paidDate time.Time) error {
	if i.Status == RentInvoiceStatusPaid {
		return nil
	}
	if i.Status == RentInvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle a cancelled invoice")
	}

	i.Status = RentInvoiceStatusPaid
	if i.PaidDate == nil {
		i.PaidDate = &paidDate
	}
	i.IncrementVersion()

	i.AddDomainEvent(NewRentInvoicePaidEvent(i))

	return nil
}

// MarkSent transitions from generated to sent
func (i *RentInvoice) MarkSent() error {
	if i.Status != RentInvoiceStatusGenerated {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	i.Status = RentInvoiceStatusSent
	i.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid invoice past its due date
func (i *RentInvoice) MarkOverdue() error {
	if !i.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark %s invoice overdue", i.Status))
	}
	i.Status = RentInvoiceStatusOverdue
	i.IncrementVersion()
	return nil
}

// AddLateFee adds a late fee to the outstanding balance
func (i *RentInvoice) AddLateFee(amount decimal.Decimal) error {
	if !i.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add late fee to %s invoice", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Late fee must be positive")
	}
	i.LateFee = i.LateFee.Add(amount)
	i.IncrementVersion()
	return nil
}

// Cancel voids the invoice. Paid invoices cannot be cancelled.
func (i *RentInvoice) Cancel() error {
	if i.Status == RentInvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a paid invoice")
	}
	if i.Status == RentInvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	i.Status = RentInvoiceStatusCancelled
	i.IncrementVersion()
	return nil
}

// IsAdvanceCovered reports whether advance credit alone settles the invoice
func (i *RentInvoice) IsAdvanceCovered() bool {
	return i.AmountDue().IsZero()
}
