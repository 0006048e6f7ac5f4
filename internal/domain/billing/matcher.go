package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ChargeTarget is an invoice viewed by the matcher: just enough identity
// to find its payments.
type ChargeTarget struct {
	ID            uuid.UUID
	Kind          ledger.LinkTargetType
	InvoiceNumber string
	AmountDue     decimal.Decimal
}

// MatchResult maps each target invoice ID to the total payment amount
// matched against it.
type MatchResult map[uuid.UUID]decimal.Decimal

// Total returns the matched amount for a target, zero if none
func (r MatchResult) Total(targetID uuid.UUID) decimal.Decimal {
	if amount, ok := r[targetID]; ok {
		return amount
	}
	return decimal.Zero
}

// Matcher finds the ledger entries that pay each invoice. Matching runs in
// three phases of decreasing confidence, and every entry is claimed by at
// most one invoice across all phases:
//
//  1. direct link: the entry points at the invoice itself
//  2. cross link: the entry points at, or was materialized from, a legacy
//     maintenance financial record whose invoice number names the invoice
//  3. fallback: an unlinked entry's description contains the invoice
//     number as a delimited token
type Matcher struct {
	recordsByID map[uuid.UUID]*ledger.FinancialRecord
}

// NewMatcher creates a matcher over the landlord's legacy financial
// records, which phase 2 hops through.
func NewMatcher(records []*ledger.FinancialRecord) *Matcher {
	byID := make(map[uuid.UUID]*ledger.FinancialRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return &Matcher{recordsByID: byID}
}

// Match computes the matched payment total for every target. Only entries
// whose status counts as payment participate. Each phase runs across ALL
// targets before the next phase starts, so a high-confidence claim on one
// invoice always beats a low-confidence claim on another.
func (m *Matcher) Match(targets []ChargeTarget, entries []ledger.LedgerEntry) MatchResult {
	result := make(MatchResult, len(targets))
	claimed := make(map[string]bool)

	candidates := make([]ledger.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status.CountsAsPayment() {
			candidates = append(candidates, e)
		}
	}

	// Phase 1: direct links
	for _, target := range targets {
		for _, e := range candidates {
			if claimed[e.ID] {
				continue
			}
			if e.IsLinkedTo(target.Kind, target.ID) {
				claimed[e.ID] = true
				result[target.ID] = result.Total(target.ID).Add(e.Amount)
			}
		}
	}

	// Phase 2: cross links through legacy maintenance records
	for _, target := range targets {
		if target.Kind != ledger.LinkTargetMaintenanceInvoice || target.InvoiceNumber == "" {
			continue
		}
		for _, e := range candidates {
			if claimed[e.ID] {
				continue
			}
			if m.crossLinksTo(e, target.InvoiceNumber) {
				claimed[e.ID] = true
				result[target.ID] = result.Total(target.ID).Add(e.Amount)
			}
		}
	}

	// Phase 3: description fallback on unlinked entries
	for _, target := range targets {
		if target.InvoiceNumber == "" {
			continue
		}
		for _, e := range candidates {
			if claimed[e.ID] || !e.IsUnlinked() {
				continue
			}
			if containsDelimited(e.Description, target.InvoiceNumber) {
				claimed[e.ID] = true
				result[target.ID] = result.Total(target.ID).Add(e.Amount)
			}
		}
	}

	return result
}

// crossLinksTo reports whether the entry reaches a legacy maintenance
// record carrying the given invoice number
func (m *Matcher) crossLinksTo(e ledger.LedgerEntry, invoiceNumber string) bool {
	record := m.recordFor(e)
	if record == nil {
		return false
	}
	return record.IsMaintenanceCharge() && strings.EqualFold(record.InvoiceNumber, invoiceNumber)
}

// recordFor resolves the financial record an entry stands behind: an
// explicit link for native entries, the entry's own source record for
// legacy financial entries.
func (m *Matcher) recordFor(e ledger.LedgerEntry) *ledger.FinancialRecord {
	if e.LinkedType == ledger.LinkTargetFinancialRecord && e.LinkedID != nil {
		return m.recordsByID[*e.LinkedID]
	}
	if e.SourceKind == ledger.SourceKindLegacyFinancial {
		return m.recordsByID[e.RecordID]
	}
	return nil
}

// containsDelimited reports whether token appears in text as a whole,
// delimited token: the characters adjacent to the match must not be
// alphanumeric, so "INV-1" never matches inside "INV-10".
func containsDelimited(text, token string) bool {
	if token == "" {
		return false
	}
	lowText := strings.ToLower(text)
	lowToken := strings.ToLower(token)

	for start := 0; ; {
		idx := strings.Index(lowText[start:], lowToken)
		if idx < 0 {
			return false
		}
		idx += start

		before := idx == 0 || !isAlphanumeric(lowText[idx-1])
		afterIdx := idx + len(lowToken)
		after := afterIdx == len(lowText) || !isAlphanumeric(lowText[afterIdx])
		if before && after {
			return true
		}

		start = idx + 1
	}
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
