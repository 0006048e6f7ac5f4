package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SourceKind identifies which of the heterogeneous payment sources a
// ledger entry was materialized from
type SourceKind string

const (
	SourceKindNative          SourceKind = "native"           // native payment entry table
	SourceKindLegacyFinancial SourceKind = "legacy_financial" // legacy financial record rows
	SourceKindLegacyRefund    SourceKind = "legacy_refund"    // security deposit refund rows
)

// IsValid checks if the source kind is valid
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindNative, SourceKindLegacyFinancial, SourceKindLegacyRefund:
		return true
	}
	return false
}

// String returns the string representation
func (k SourceKind) String() string {
	return string(k)
}

// PaymentType classifies the kind of money movement an entry represents
type PaymentType string

const (
	PaymentTypeRent               PaymentType = "rent"
	PaymentTypeMaintenanceExpense PaymentType = "maintenance_expense"
	PaymentTypeSecurityDeposit    PaymentType = "security_deposit"
	PaymentTypeSecurityRefund     PaymentType = "security_refund"
	PaymentTypeFee                PaymentType = "fee"
	PaymentTypeOtherIncome        PaymentType = "other_income"
	PaymentTypeOtherOutgoing      PaymentType = "other_outgoing"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeRent, PaymentTypeMaintenanceExpense, PaymentTypeSecurityDeposit,
		PaymentTypeSecurityRefund, PaymentTypeFee, PaymentTypeOtherIncome, PaymentTypeOtherOutgoing:
		return true
	}
	return false
}

// String returns the string representation
func (t PaymentType) String() string {
	return string(t)
}

// DefaultDirection returns the flow direction implied by the payment type.
// Used for legacy sources that do not store a direction of their own.
func (t PaymentType) DefaultDirection() FlowDirection {
	switch t {
	case PaymentTypeRent, PaymentTypeSecurityDeposit, PaymentTypeFee, PaymentTypeOtherIncome:
		return FlowIncome
	default:
		return FlowOutgoing
	}
}

// FlowDirection indicates whether money moved toward or away from the landlord
type FlowDirection string

const (
	FlowIncome   FlowDirection = "income"
	FlowOutgoing FlowDirection = "outgoing"
)

// IsValid checks if the flow direction is valid
func (d FlowDirection) IsValid() bool {
	return d == FlowIncome || d == FlowOutgoing
}

// EntryStatus is the normalized lifecycle status of a ledger entry.
// Source-specific vocabularies are mapped onto this set by the normalizer.
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusScheduled EntryStatus = "scheduled"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusPartial   EntryStatus = "partial"
	EntryStatusCancelled EntryStatus = "cancelled"
	EntryStatusFailed    EntryStatus = "failed"
	EntryStatusRefunded  EntryStatus = "refunded"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusPending, EntryStatusScheduled, EntryStatusCompleted,
		EntryStatusPartial, EntryStatusCancelled, EntryStatusFailed, EntryStatusRefunded:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that permit no further transitions
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusCompleted || s == EntryStatusCancelled
}

// CountsAsPayment returns true if the entry contributes to invoice matching
func (s EntryStatus) CountsAsPayment() bool {
	return s == EntryStatusCompleted || s == EntryStatusPartial
}

// LinkTargetType identifies the document a ledger entry is linked to
type LinkTargetType string

const (
	LinkTargetRentInvoice        LinkTargetType = "rent_invoice"
	LinkTargetMaintenanceInvoice LinkTargetType = "maintenance_invoice"
	LinkTargetFinancialRecord    LinkTargetType = "financial_record"
)

// CompositeID builds the globally unique ledger identity for a source record,
// e.g. "native:8b0c...", "legacy_financial:17ad...".
func CompositeID(kind SourceKind, recordID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, recordID)
}

// LedgerEntry is the canonical read model for one money movement.
// It is materialized from one of the three source record kinds and is
// immutable once built; corrections happen at the source record.
type LedgerEntry struct {
	ID            string // composite (source_kind, record_id) identity
	SourceKind    SourceKind
	RecordID      uuid.UUID
	LandlordID    uuid.UUID
	TenantUnitID  *uuid.UUID
	PaymentType   PaymentType
	FlowDirection FlowDirection
	Amount        decimal.Decimal // always positive; direction carried by FlowDirection
	Currency      valueobject.Currency
	Status        EntryStatus
	Description   string

	TransactionDate time.Time
	DueDate         *time.Time

	// Linkage to the invoice or record this payment was made against.
	// LinkedType is empty when the entry is unlinked.
	LinkedType LinkTargetType
	LinkedID   *uuid.UUID

	Metadata map[string]string
}

// IsLinkedTo reports whether the entry is directly linked to the given document
func (e LedgerEntry) IsLinkedTo(target LinkTargetType, id uuid.UUID) bool {
	return e.LinkedType == target && e.LinkedID != nil && *e.LinkedID == id
}

// IsUnlinked reports whether the entry has no document linkage
func (e LedgerEntry) IsUnlinked() bool {
	return e.LinkedType == "" || e.LinkedID == nil
}
