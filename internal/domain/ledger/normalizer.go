package ledger

import (
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// Normalizer converts each of the three heterogeneous source record kinds
// into the canonical LedgerEntry shape. Normalization is total: unknown
// type, category or status values degrade to a safe default instead of
// failing, so no source record is ever dropped from the ledger.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// legacy financial categories that represent money coming in when the
// record type itself is unrecognized
var incomeCategories = map[string]bool{
	"deposit":      true,
	"income":       true,
	"parking":      true,
	"utilities":    true,
	"other_income": true,
}

// NormalizePaymentEntry materializes a ledger entry from a native payment
// entry. Fields pass through directly; the stored flow direction is
// authoritative.
func (n *Normalizer) NormalizePaymentEntry(e *PaymentEntry, fallback valueobject.Currency) LedgerEntry {
	currency := e.Currency
	if currency == "" {
		currency = fallback
	}

	metadata := make(map[string]string, len(e.Metadata)+2)
	for k, v := range e.Metadata {
		metadata[k] = v
	}
	if e.ReferenceNumber != "" {
		metadata["reference"] = e.ReferenceNumber
	}
	if e.PaymentMethod != "" {
		metadata["payment_method"] = string(e.PaymentMethod)
	}

	return LedgerEntry{
		ID:              e.CompositeID(),
		SourceKind:      SourceKindNative,
		RecordID:        e.ID,
		LandlordID:      e.LandlordID,
		TenantUnitID:    e.TenantUnitID,
		PaymentType:     e.PaymentType,
		FlowDirection:   e.FlowDirection,
		Amount:          e.Amount.Abs(),
		Currency:        currency,
		Status:          e.Status,
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		DueDate:         e.DueDate,
		LinkedType:      e.LinkedType,
		LinkedID:        e.LinkedID,
		Metadata:        metadata,
	}
}

// NormalizeFinancialRecord materializes a ledger entry from a legacy
// financial record, mapping its type/category/status vocabularies onto
// the canonical enums.
func (n *Normalizer) NormalizeFinancialRecord(r *FinancialRecord, fallback valueobject.Currency) LedgerEntry {
	paymentType := mapFinancialType(r.Type, r.Category)
	direction := mapFinancialDirection(r.Type)

	metadata := map[string]string{}
	if r.InvoiceNumber != "" {
		metadata["invoice_number"] = r.InvoiceNumber
	}
	if r.Category != "" {
		metadata["category"] = r.Category
	}
	if r.ReferenceNumber != "" {
		metadata["reference"] = r.ReferenceNumber
	}
	if r.PaymentMethod != "" {
		metadata["payment_method"] = r.PaymentMethod
	}

	return LedgerEntry{
		ID:              r.CompositeID(),
		SourceKind:      SourceKindLegacyFinancial,
		RecordID:        r.ID,
		LandlordID:      r.LandlordID,
		TenantUnitID:    r.TenantUnitID,
		PaymentType:     paymentType,
		FlowDirection:   direction,
		Amount:          r.Amount.Abs(),
		Currency:        fallback,
		Status:          mapFinancialStatus(r.Status),
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
		DueDate:         r.DueDate,
		Metadata:        metadata,
	}
}

// NormalizeDepositRefund materializes a ledger entry from a legacy
// security-deposit refund row. Refunds are always outgoing.
func (n *Normalizer) NormalizeDepositRefund(r *DepositRefund, fallback valueobject.Currency) LedgerEntry {
	metadata := map[string]string{}
	if r.ReceiptNumber != "" {
		metadata["receipt_number"] = r.ReceiptNumber
	}
	if r.TransactionReference != "" {
		metadata["reference"] = r.TransactionReference
	}
	if r.PaymentMethod != "" {
		metadata["payment_method"] = r.PaymentMethod
	}

	return LedgerEntry{
		ID:              r.CompositeID(),
		SourceKind:      SourceKindLegacyRefund,
		RecordID:        r.ID,
		LandlordID:      r.LandlordID,
		TenantUnitID:    r.TenantUnitID,
		PaymentType:     PaymentTypeSecurityRefund,
		FlowDirection:   FlowOutgoing,
		Amount:          r.RefundAmount.Abs(),
		Currency:        fallback,
		Status:          mapRefundStatus(r.Status),
		TransactionDate: r.RefundDate,
		Metadata:        metadata,
	}
}

// mapFinancialType maps a legacy financial record type/category pair onto
// the canonical payment type. Unrecognized values fall back to
// other_income/other_outgoing based on the category table.
func mapFinancialType(recordType, category string) PaymentType {
	switch recordType {
	case FinancialTypeRent:
		return PaymentTypeRent
	case FinancialTypeExpense:
		if category == FinancialCategoryMaintenance || category == FinancialCategoryRepair {
			return PaymentTypeMaintenanceExpense
		}
		return PaymentTypeOtherOutgoing
	case FinancialTypeFee:
		return PaymentTypeFee
	case FinancialTypeRefund:
		return PaymentTypeSecurityRefund
	case FinancialTypeSecurityDeposit:
		return PaymentTypeOtherIncome
	default:
		if incomeCategories[category] {
			return PaymentTypeOtherIncome
		}
		return PaymentTypeOtherOutgoing
	}
}

// mapFinancialDirection derives the flow direction from the legacy type.
// Rent, fees and refunds were recorded as money in; everything else as out.
func mapFinancialDirection(recordType string) FlowDirection {
	switch recordType {
	case FinancialTypeRent, FinancialTypeFee, FinancialTypeRefund:
		return FlowIncome
	default:
		return FlowOutgoing
	}
}

// mapFinancialStatus maps the legacy financial status vocabulary onto the
// normalized entry statuses. Unknown values degrade to pending.
func mapFinancialStatus(status string) EntryStatus {
	switch status {
	case FinancialStatusPending, FinancialStatusOverdue:
		return EntryStatusPending
	case FinancialStatusCompleted:
		return EntryStatusCompleted
	case FinancialStatusPartial:
		return EntryStatusPartial
	case FinancialStatusCancelled:
		return EntryStatusCancelled
	default:
		return EntryStatusPending
	}
}

// mapRefundStatus maps the legacy refund status vocabulary. "processed"
// means the money left the account; other recognized statuses pass
// through, anything else degrades to pending.
func mapRefundStatus(status string) EntryStatus {
	if status == RefundStatusProcessed {
		return EntryStatusCompleted
	}
	if s := EntryStatus(status); s.IsValid() {
		return s
	}
	return EntryStatusPending
}
