package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func paymentEntry(amount float64, mutate ...func(*ledger.LedgerEntry)) ledger.LedgerEntry {
	id := uuid.New()
	e := ledger.LedgerEntry{
		ID:              ledger.CompositeID(ledger.SourceKindNative, id),
		SourceKind:      ledger.SourceKindNative,
		RecordID:        id,
		LandlordID:      uuid.New(),
		PaymentType:     ledger.PaymentTypeRent,
		FlowDirection:   ledger.FlowIncome,
		Amount:          decimal.NewFromFloat(amount),
		Currency:        valueobject.USD,
		Status:          ledger.EntryStatusCompleted,
		TransactionDate: time.Now(),
	}
	for _, m := range mutate {
		m(&e)
	}
	return e
}

func linkedTo(target ledger.LinkTargetType, id uuid.UUID) func(*ledger.LedgerEntry) {
	return func(e *ledger.LedgerEntry) {
		e.LinkedType = target
		e.LinkedID = &id
	}
}

func rentTarget(amountDue float64) ChargeTarget {
	return ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: "RINV-" + uuid.NewString()[:8],
		AmountDue:     decimal.NewFromFloat(amountDue),
	}
}

func TestMatcher_DirectLink(t *testing.T) {
	target := rentTarget(1000.00)
	entries := []ledger.LedgerEntry{
		paymentEntry(600.00, linkedTo(ledger.LinkTargetRentInvoice, target.ID)),
		paymentEntry(400.00, linkedTo(ledger.LinkTargetRentInvoice, target.ID)),
		paymentEntry(999.00, linkedTo(ledger.LinkTargetRentInvoice, uuid.New())), // other invoice
	}

	result := NewMatcher(nil).Match([]ChargeTarget{target}, entries)

	assert.True(t, result.Total(target.ID).Equal(decimal.NewFromFloat(1000.00)))
}

func TestMatcher_OnlyCompletedAndPartialCount(t *testing.T) {
	target := rentTarget(1000.00)
	entries := []ledger.LedgerEntry{
		paymentEntry(100.00, linkedTo(ledger.LinkTargetRentInvoice, target.ID)),
		paymentEntry(200.00, linkedTo(ledger.LinkTargetRentInvoice, target.ID), func(e *ledger.LedgerEntry) {
			e.Status = ledger.EntryStatusPartial
		}),
		paymentEntry(300.00, linkedTo(ledger.LinkTargetRentInvoice, target.ID), func(e *ledger.LedgerEntry) {
			e.Status = ledger.EntryStatusPending
		}),
		paymentEntry(400.00, linkedTo(ledger.LinkTargetRentInvoice, target.ID), func(e *ledger.LedgerEntry) {
			e.Status = ledger.EntryStatusCancelled
		}),
	}

	result := NewMatcher(nil).Match([]ChargeTarget{target}, entries)

	assert.True(t, result.Total(target.ID).Equal(decimal.NewFromFloat(300.00)),
		"only completed and partial entries count")
}

func TestMatcher_CrossLinkThroughMaintenanceFee(t *testing.T) {
	landlordID := uuid.New()
	target := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetMaintenanceInvoice,
		InvoiceNumber: "MINV-2025-0042",
		AmountDue:     decimal.NewFromFloat(350.00),
	}

	feeRecord := &ledger.FinancialRecord{
		BaseEntity:    shared.NewBaseEntity(),
		LandlordID:    landlordID,
		Type:          ledger.FinancialTypeFee,
		Category:      ledger.FinancialCategoryMaintenance,
		Amount:        decimal.NewFromFloat(350.00),
		InvoiceNumber: "MINV-2025-0042",
	}
	otherRecord := &ledger.FinancialRecord{
		BaseEntity:    shared.NewBaseEntity(),
		LandlordID:    landlordID,
		Type:          ledger.FinancialTypeRent,
		Amount:        decimal.NewFromFloat(350.00),
		InvoiceNumber: "MINV-2025-0042",
	}

	entries := []ledger.LedgerEntry{
		paymentEntry(350.00, linkedTo(ledger.LinkTargetFinancialRecord, feeRecord.ID)),
		// same invoice number but the hop record is not a maintenance charge
		paymentEntry(350.00, linkedTo(ledger.LinkTargetFinancialRecord, otherRecord.ID)),
		// dangling record reference
		paymentEntry(350.00, linkedTo(ledger.LinkTargetFinancialRecord, uuid.New())),
	}

	matcher := NewMatcher([]*ledger.FinancialRecord{feeRecord, otherRecord})
	result := matcher.Match([]ChargeTarget{target}, entries)

	assert.True(t, result.Total(target.ID).Equal(decimal.NewFromFloat(350.00)))
}

// A legacy maintenance expense carries no explicit link. The ledger entry
// materialized from it still stands for its own source record, so it
// settles the maintenance invoice named by the record's invoice number.
func TestMatcher_CrossLinkFromLegacyMaintenanceExpense(t *testing.T) {
	landlordID := uuid.New()
	target := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetMaintenanceInvoice,
		InvoiceNumber: "MINV-001",
		AmountDue:     decimal.NewFromFloat(300.00),
	}

	expense := &ledger.FinancialRecord{
		BaseEntity:      shared.NewBaseEntity(),
		LandlordID:      landlordID,
		Type:            ledger.FinancialTypeExpense,
		Category:        ledger.FinancialCategoryMaintenance,
		Status:          ledger.FinancialStatusCompleted,
		Amount:          decimal.NewFromFloat(300.00),
		TransactionDate: time.Now(),
		InvoiceNumber:   "MINV-001",
	}
	// same invoice number but not a maintenance charge
	utilities := &ledger.FinancialRecord{
		BaseEntity:      shared.NewBaseEntity(),
		LandlordID:      landlordID,
		Type:            ledger.FinancialTypeExpense,
		Category:        "utilities",
		Status:          ledger.FinancialStatusCompleted,
		Amount:          decimal.NewFromFloat(120.00),
		TransactionDate: time.Now(),
		InvoiceNumber:   "MINV-001",
	}

	normalizer := ledger.NewNormalizer()
	entries := []ledger.LedgerEntry{
		normalizer.NormalizeFinancialRecord(expense, valueobject.USD),
		normalizer.NormalizeFinancialRecord(utilities, valueobject.USD),
	}

	matcher := NewMatcher([]*ledger.FinancialRecord{expense, utilities})
	result := matcher.Match([]ChargeTarget{target}, entries)

	assert.True(t, result.Total(target.ID).Equal(decimal.NewFromFloat(300.00)))
}

func TestMatcher_DescriptionFallback(t *testing.T) {
	target := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: "INV-1",
		AmountDue:     decimal.NewFromFloat(500.00),
	}

	tests := []struct {
		description string
		wantMatch   bool
	}{
		{"Payment for INV-1 March rent", true},
		{"INV-1", true},
		{"paid inv-1 via bank", true}, // case-insensitive
		{"(INV-1)", true},
		{"Payment for INV-10", false},     // token extends past the number
		{"Payment for INV-1b", false},      // letter suffix
		{"Payment for XINV-1 rent", false}, // letter prefix
		{"ref:INV-1/March", true},
		{"no invoice reference", false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			entries := []ledger.LedgerEntry{
				paymentEntry(500.00, func(e *ledger.LedgerEntry) { e.Description = tt.description }),
			}
			result := NewMatcher(nil).Match([]ChargeTarget{target}, entries)

			if tt.wantMatch {
				assert.True(t, result.Total(target.ID).Equal(decimal.NewFromFloat(500.00)))
			} else {
				assert.True(t, result.Total(target.ID).IsZero())
			}
		})
	}
}

func TestMatcher_FallbackSkipsLinkedEntries(t *testing.T) {
	target := rentTarget(500.00)
	otherInvoice := uuid.New()

	entries := []ledger.LedgerEntry{
		// description mentions the invoice but the entry is already linked
		// elsewhere, so the fallback must not claim it
		paymentEntry(500.00, linkedTo(ledger.LinkTargetRentInvoice, otherInvoice), func(e *ledger.LedgerEntry) {
			e.Description = "Payment for " + target.InvoiceNumber
		}),
	}

	result := NewMatcher(nil).Match([]ChargeTarget{target}, entries)
	assert.True(t, result.Total(target.ID).IsZero())
}

// An entry claimed by a direct link in phase 1 must never be counted again
// by the description fallback for another invoice.
func TestMatcher_NoDoubleCounting(t *testing.T) {
	invoiceA := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: "INV-A",
		AmountDue:     decimal.NewFromFloat(500.00),
	}
	invoiceB := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: "INV-B",
		AmountDue:     decimal.NewFromFloat(500.00),
	}

	// one payment directly linked to A whose description also names B
	payment := paymentEntry(500.00, linkedTo(ledger.LinkTargetRentInvoice, invoiceA.ID), func(e *ledger.LedgerEntry) {
		e.Description = "covers INV-B too"
	})

	result := NewMatcher(nil).Match([]ChargeTarget{invoiceA, invoiceB}, []ledger.LedgerEntry{payment})

	assert.True(t, result.Total(invoiceA.ID).Equal(decimal.NewFromFloat(500.00)))
	assert.True(t, result.Total(invoiceB.ID).IsZero(), "claimed entries are spent")

	total := result.Total(invoiceA.ID).Add(result.Total(invoiceB.ID))
	assert.True(t, total.LessThanOrEqual(payment.Amount), "sum of matches never exceeds the payment")
}

// Direct links across all invoices are resolved before any fallback runs:
// a fallback claim for invoice A must not steal an entry that invoice B
// holds a direct link to.
func TestMatcher_DirectLinkPhaseBeatsFallbackPhase(t *testing.T) {
	invoiceA := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: "INV-A",
		AmountDue:     decimal.NewFromFloat(500.00),
	}
	invoiceB := ChargeTarget{
		ID:            uuid.New(),
		Kind:          ledger.LinkTargetRentInvoice,
		InvoiceNumber: "INV-B",
		AmountDue:     decimal.NewFromFloat(500.00),
	}

	linkedToB := paymentEntry(500.00, linkedTo(ledger.LinkTargetRentInvoice, invoiceB.ID), func(e *ledger.LedgerEntry) {
		e.Description = "INV-A settlement"
	})

	// order targets so A is processed first; B's direct link still wins
	result := NewMatcher(nil).Match([]ChargeTarget{invoiceA, invoiceB}, []ledger.LedgerEntry{linkedToB})

	assert.True(t, result.Total(invoiceB.ID).Equal(decimal.NewFromFloat(500.00)))
	assert.True(t, result.Total(invoiceA.ID).IsZero())
}
