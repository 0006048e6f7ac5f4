package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinancialRecord(recordType, category, status string, amount float64) *FinancialRecord {
	unitID := uuid.New()
	return &FinancialRecord{
		BaseEntity:      shared.NewBaseEntity(),
		LandlordID:      uuid.New(),
		TenantUnitID:    &unitID,
		Type:            recordType,
		Category:        category,
		Amount:          decimal.NewFromFloat(amount),
		Status:          status,
		TransactionDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeFinancialRecord_TypeMapping(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name          string
		recordType    string
		category      string
		wantType      PaymentType
		wantDirection FlowDirection
	}{
		{"rent", "rent", "", PaymentTypeRent, FlowIncome},
		{"maintenance expense", "expense", "maintenance", PaymentTypeMaintenanceExpense, FlowOutgoing},
		{"repair expense", "expense", "repair", PaymentTypeMaintenanceExpense, FlowOutgoing},
		{"generic expense", "expense", "landscaping", PaymentTypeOtherOutgoing, FlowOutgoing},
		{"fee", "fee", "late_fee", PaymentTypeFee, FlowIncome},
		{"refund", "refund", "", PaymentTypeSecurityRefund, FlowIncome},
		{"security deposit", "security_deposit", "", PaymentTypeOtherIncome, FlowOutgoing},
		{"unknown type income category", "subsidy", "parking", PaymentTypeOtherIncome, FlowOutgoing},
		{"unknown type unknown category", "subsidy", "misc", PaymentTypeOtherOutgoing, FlowOutgoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := newFinancialRecord(tt.recordType, tt.category, "completed", 150.00)
			entry := n.NormalizeFinancialRecord(record, valueobject.USD)

			assert.Equal(t, tt.wantType, entry.PaymentType)
			assert.Equal(t, tt.wantDirection, entry.FlowDirection)
			assert.Equal(t, SourceKindLegacyFinancial, entry.SourceKind)
		})
	}
}

func TestNormalizeFinancialRecord_StatusMapping(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		legacy string
		want   EntryStatus
	}{
		{"pending", EntryStatusPending},
		{"overdue", EntryStatusPending},
		{"completed", EntryStatusCompleted},
		{"partial", EntryStatusPartial},
		{"cancelled", EntryStatusCancelled},
		{"garbage", EntryStatusPending},
		{"", EntryStatusPending},
	}

	for _, tt := range tests {
		record := newFinancialRecord("rent", "rent", tt.legacy, 100.00)
		entry := n.NormalizeFinancialRecord(record, valueobject.USD)
		assert.Equal(t, tt.want, entry.Status, "legacy status %q", tt.legacy)
	}
}

// Normalization is total: every combination of unknown vocabulary still
// yields a well-formed entry with valid enums.
func TestNormalizeFinancialRecord_NeverFails(t *testing.T) {
	n := NewNormalizer()

	types := []string{"rent", "expense", "fee", "refund", "security_deposit", "???", ""}
	categories := []string{"maintenance", "repair", "parking", "???", ""}
	statuses := []string{"pending", "overdue", "completed", "partial", "cancelled", "???", ""}

	for _, typ := range types {
		for _, cat := range categories {
			for _, st := range statuses {
				record := newFinancialRecord(typ, cat, st, 42.50)
				entry := n.NormalizeFinancialRecord(record, valueobject.USD)

				require.True(t, entry.PaymentType.IsValid(), "type=%q category=%q", typ, cat)
				require.True(t, entry.FlowDirection.IsValid())
				require.True(t, entry.Status.IsValid())
				require.NotEmpty(t, entry.ID)
			}
		}
	}
}

func TestNormalizeFinancialRecord_Metadata(t *testing.T) {
	n := NewNormalizer()

	record := newFinancialRecord("fee", "maintenance", "completed", 200.00)
	record.InvoiceNumber = "MINV-2025-0042"
	record.ReferenceNumber = "TXN-991"

	entry := n.NormalizeFinancialRecord(record, valueobject.USD)

	assert.Equal(t, "MINV-2025-0042", entry.Metadata["invoice_number"])
	assert.Equal(t, "maintenance", entry.Metadata["category"])
	assert.Equal(t, "TXN-991", entry.Metadata["reference"])
}

func TestNormalizeDepositRefund(t *testing.T) {
	n := NewNormalizer()
	unitID := uuid.New()

	refund := &DepositRefund{
		BaseEntity:           shared.NewBaseEntity(),
		LandlordID:           uuid.New(),
		TenantUnitID:         &unitID,
		RefundAmount:         decimal.NewFromFloat(500.00),
		Status:               "processed",
		RefundDate:           time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TransactionReference: "RF-100",
	}

	entry := n.NormalizeDepositRefund(refund, valueobject.KES)

	assert.Equal(t, CompositeID(SourceKindLegacyRefund, refund.ID), entry.ID)
	assert.Equal(t, PaymentTypeSecurityRefund, entry.PaymentType)
	assert.Equal(t, FlowOutgoing, entry.FlowDirection)
	assert.Equal(t, EntryStatusCompleted, entry.Status)
	assert.Equal(t, valueobject.KES, entry.Currency)
	assert.Equal(t, "RF-100", entry.Metadata["reference"])
}

func TestNormalizeDepositRefund_UnknownStatusDegradesToPending(t *testing.T) {
	n := NewNormalizer()

	refund := &DepositRefund{
		BaseEntity:   shared.NewBaseEntity(),
		LandlordID:   uuid.New(),
		RefundAmount: decimal.NewFromFloat(250.00),
		Status:       "mystery",
		RefundDate:   time.Now(),
	}

	entry := n.NormalizeDepositRefund(refund, valueobject.USD)
	assert.Equal(t, EntryStatusPending, entry.Status)
}

func TestNormalizePaymentEntry_PassThrough(t *testing.T) {
	n := NewNormalizer()
	landlordID := uuid.New()
	unitID := uuid.New()
	invoiceID := uuid.New()

	pe, err := NewPaymentEntry(landlordID, uuid.New(), NewPaymentEntryParams{
		TenantUnitID:    &unitID,
		PaymentType:     PaymentTypeRent,
		Amount:          decimal.NewFromFloat(1200.00),
		Currency:        valueobject.EUR,
		Status:          EntryStatusCompleted,
		ReferenceNumber: "BANK-123",
		LinkedType:      LinkTargetRentInvoice,
		LinkedID:        &invoiceID,
	})
	require.NoError(t, err)

	entry := n.NormalizePaymentEntry(pe, valueobject.USD)

	assert.Equal(t, CompositeID(SourceKindNative, pe.ID), entry.ID)
	assert.Equal(t, SourceKindNative, entry.SourceKind)
	assert.Equal(t, landlordID, entry.LandlordID)
	assert.Equal(t, PaymentTypeRent, entry.PaymentType)
	assert.Equal(t, FlowIncome, entry.FlowDirection)
	assert.Equal(t, valueobject.EUR, entry.Currency, "stored currency wins over fallback")
	assert.Equal(t, EntryStatusCompleted, entry.Status)
	assert.True(t, entry.IsLinkedTo(LinkTargetRentInvoice, invoiceID))
	assert.Equal(t, "BANK-123", entry.Metadata["reference"])
}

func TestNormalize_AmountAlwaysPositive(t *testing.T) {
	n := NewNormalizer()

	record := newFinancialRecord("expense", "maintenance", "completed", 0)
	record.Amount = decimal.NewFromFloat(-80.25)

	entry := n.NormalizeFinancialRecord(record, valueobject.USD)
	assert.True(t, entry.Amount.Equal(decimal.NewFromFloat(80.25)))
	assert.Equal(t, FlowOutgoing, entry.FlowDirection)
}
