package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaintenanceInvoiceStatus represents the lifecycle status of a
// maintenance invoice
type MaintenanceInvoiceStatus string

const (
	MaintenanceInvoiceStatusDraft     MaintenanceInvoiceStatus = "draft"
	MaintenanceInvoiceStatusApproved  MaintenanceInvoiceStatus = "approved"
	MaintenanceInvoiceStatusSent      MaintenanceInvoiceStatus = "sent"
	MaintenanceInvoiceStatusPaid      MaintenanceInvoiceStatus = "paid"
	MaintenanceInvoiceStatusOverdue   MaintenanceInvoiceStatus = "overdue"
	MaintenanceInvoiceStatusCancelled MaintenanceInvoiceStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s MaintenanceInvoiceStatus) IsValid() bool {
	switch s {
	case MaintenanceInvoiceStatusDraft, MaintenanceInvoiceStatusApproved, MaintenanceInvoiceStatusSent,
		MaintenanceInvoiceStatusPaid, MaintenanceInvoiceStatusOverdue, MaintenanceInvoiceStatusCancelled:
		return true
	}
	return false
}

// CanAcceptPayment returns true for statuses that participate in payment
// matching. Drafts are not yet billable.
func (s MaintenanceInvoiceStatus) CanAcceptPayment() bool {
	switch s {
	case MaintenanceInvoiceStatusApproved, MaintenanceInvoiceStatusSent, MaintenanceInvoiceStatusOverdue:
		return true
	}
	return false
}

// MaintenanceInvoice bills a tenant for maintenance or repair work
type MaintenanceInvoice struct {
	shared.LandlordAggregateRoot
	TenantUnitID  uuid.UUID                `json:"tenant_unit_id"`
	InvoiceNumber string                   `json:"invoice_number"`
	Description   string                   `json:"description"`
	LaborCost     decimal.Decimal          `json:"labor_cost"`
	MaterialCost  decimal.Decimal          `json:"material_cost"`
	Tax           decimal.Decimal          `json:"tax"`
	DueDate       time.Time                `json:"due_date"`
	Status        MaintenanceInvoiceStatus `json:"status"`
	PaidDate      *time.Time               `json:"paid_date"`
}

// NewMaintenanceInvoice creates a new maintenance invoice in draft status
func NewMaintenanceInvoice(landlordID, tenantUnitID uuid.UUID, invoiceNumber, description string, laborCost, materialCost, tax decimal.Decimal, dueDate time.Time) (*MaintenanceInvoice, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID cannot be empty")
	}
	if tenantUnitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_UNIT", "Tenant unit ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if laborCost.IsNegative() || materialCost.IsNegative() || tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice costs cannot be negative")
	}
	if laborCost.Add(materialCost).LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}

	return &MaintenanceInvoice{
		LandlordAggregateRoot: shared.NewLandlordAggregateRoot(landlordID),
		TenantUnitID:          tenantUnitID,
		InvoiceNumber:         invoiceNumber,
		Description:           description,
		LaborCost:             laborCost,
		MaterialCost:          materialCost,
		Tax:                   tax,
		DueDate:               dueDate,
		Status:                MaintenanceInvoiceStatusDraft,
	}, nil
}

// GrandTotal returns the full invoice amount including tax
func (i *MaintenanceInvoice) GrandTotal() decimal.Decimal {
	return i.LaborCost.Add(i.MaterialCost).Add(i.Tax)
}

// AmountDue returns the outstanding balance. Maintenance invoices carry no
// advance credit, so the full grand total is due until settled.
func (i *MaintenanceInvoice) AmountDue() decimal.Decimal {
	if i.Status == MaintenanceInvoiceStatusPaid {
		return decimal.Zero
	}
	return i.GrandTotal()
}

// Approve transitions from draft to approved
func (i *MaintenanceInvoice) Approve() error {
	if i.Status != MaintenanceInvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve invoice in %s status", i.Status))
	}
	i.Status = MaintenanceInvoiceStatusApproved
	i.IncrementVersion()
	return nil
}

// MarkSent transitions from approved to sent
func (i *MaintenanceInvoice) MarkSent() error {
	if i.Status != MaintenanceInvoiceStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	i.Status = MaintenanceInvoiceStatusSent
	i.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid invoice past its due date
func (i *MaintenanceInvoice) MarkOverdue() error {
	if !i.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark %s invoice overdue", i.Status))
	}
	i.Status = MaintenanceInvoiceStatusOverdue
	i.IncrementVersion()
	return nil
}

// Settle transitions the invoice to paid. Settling an already-paid invoice
// is a no-op and the original paid date is preserved.
func (i *MaintenanceInvoice) Settle(paidDate time.Time) error {
	if i.Status == MaintenanceInvoiceStatusPaid {
		return nil
	}
	if i.Status == MaintenanceInvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle a cancelled invoice")
	}
	if i.Status == MaintenanceInvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle a draft invoice")
	}

	i.Status = MaintenanceInvoiceStatusPaid
	if i.PaidDate == nil {
		i.PaidDate = &paidDate
	}
	i.IncrementVersion()

	return nil
}

// Cancel voids the invoice. Paid invoices cannot be cancelled.
func (i *MaintenanceInvoice) Cancel() error {
	if i.Status == MaintenanceInvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a paid invoice")
	}
	if i.Status == MaintenanceInvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	i.Status = MaintenanceInvoiceStatusCancelled
	i.IncrementVersion()
	return nil
}
