package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Legacy financial record type vocabulary. These rows predate the native
// payment entry table and are read-only from the ledger's point of view.
const (
	FinancialTypeRent            = "rent"
	FinancialTypeExpense         = "expense"
	FinancialTypeFee             = "fee"
	FinancialTypeRefund          = "refund"
	FinancialTypeSecurityDeposit = "security_deposit"
)

// Legacy financial record categories relevant to normalization and matching
const (
	FinancialCategoryMaintenance = "maintenance"
	FinancialCategoryRepair      = "repair"
)

// Legacy financial record status vocabulary
const (
	FinancialStatusPending   = "pending"
	FinancialStatusOverdue   = "overdue"
	FinancialStatusCompleted = "completed"
	FinancialStatusPartial   = "partial"
	FinancialStatusCancelled = "cancelled"
)

// FinancialRecord is a legacy money-movement row. The ledger consumes these
// as-is; status corrections happen in the system that still owns the table.
type FinancialRecord struct {
	shared.BaseEntity
	LandlordID      uuid.UUID
	TenantUnitID    *uuid.UUID
	Type            string // free vocabulary, see FinancialType* for known values
	Category        string
	Amount          decimal.Decimal
	Status          string
	TransactionDate time.Time
	DueDate         *time.Time
	PaymentMethod   string
	ReferenceNumber string
	InvoiceNumber   string // loose link to an invoice, used by the cross-link matching hop
	Description     string
}

// CompositeID returns the record's identity in the unified ledger
func (r *FinancialRecord) CompositeID() string {
	return CompositeID(SourceKindLegacyFinancial, r.ID)
}

// IsMaintenanceCharge reports whether the record is a maintenance charge
// row, the shapes used to settle maintenance invoices in the legacy
// system: maintenance fees, and maintenance or repair expenses.
func (r *FinancialRecord) IsMaintenanceCharge() bool {
	switch r.Type {
	case FinancialTypeFee:
		return r.Category == FinancialCategoryMaintenance
	case FinancialTypeExpense:
		return r.Category == FinancialCategoryMaintenance || r.Category == FinancialCategoryRepair
	default:
		return false
	}
}
