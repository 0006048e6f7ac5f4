package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names for billing lifecycle events
const (
	EventTypeRentInvoicePaid      = "rent_invoice.paid"
	EventTypeAdvanceRentCollected = "tenant_unit.advance_rent_collected"
	EventTypeAdvanceRentApplied   = "tenant_unit.advance_rent_applied"
)

// RentInvoicePaidEvent is raised when a rent invoice settles
type RentInvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TenantUnitID  uuid.UUID       `json:"tenant_unit_id"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	PaidDate      time.Time       `json:"paid_date"`
}

// NewRentInvoicePaidEvent creates a new RentInvoicePaidEvent
func NewRentInvoicePaidEvent(i *RentInvoice) *RentInvoicePaidEvent {
	var paidDate time.Time
	if i.PaidDate != nil {
		paidDate = *i.PaidDate
	}
	return &RentInvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRentInvoicePaid, "RentInvoice", i.ID, i.LandlordID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		TenantUnitID:    i.TenantUnitID,
		RentAmount:      i.RentAmount,
		PaidDate:        paidDate,
	}
}

// AdvanceRentCollectedEvent is raised when advance rent is collected up front
type AdvanceRentCollectedEvent struct {
	shared.BaseDomainEvent
	TenantUnitID uuid.UUID       `json:"tenant_unit_id"`
	Months       int             `json:"months"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewAdvanceRentCollectedEvent creates a new AdvanceRentCollectedEvent
func NewAdvanceRentCollectedEvent(t *TenantUnit, months int, amount decimal.Decimal) *AdvanceRentCollectedEvent {
	return &AdvanceRentCollectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceRentCollected, "TenantUnit", t.ID, t.LandlordID),
		TenantUnitID:    t.ID,
		Months:          months,
		Amount:          amount,
	}
}

// AdvanceRentAppliedEvent is raised when advance credit is drawn against
// an invoice
type AdvanceRentAppliedEvent struct {
	shared.BaseDomainEvent
	TenantUnitID  uuid.UUID       `json:"tenant_unit_id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	FullyCovered  bool            `json:"fully_covered"`
}

// NewAdvanceRentAppliedEvent creates a new AdvanceRentAppliedEvent
func NewAdvanceRentAppliedEvent(t *TenantUnit, invoice *RentInvoice, amount decimal.Decimal) *AdvanceRentAppliedEvent {
	return &AdvanceRentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceRentApplied, "TenantUnit", t.ID, t.LandlordID),
		TenantUnitID:    t.ID,
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		Amount:          amount,
		FullyCovered:    invoice.IsAdvanceCovered(),
	}
}
