package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// LedgerQuery narrows the unified ledger feed. Zero values mean "no filter".
type LedgerQuery struct {
	PaymentType   PaymentType
	FlowDirection FlowDirection
	Status        EntryStatus
	SourceKind    SourceKind
	LinkedType    LinkTargetType
	CompositeID   string      // exact composite (source_kind, record_id) identity
	TenantUnitIDs []uuid.UUID // resolved from a unit filter by the caller
	From          *time.Time  // inclusive
	To            *time.Time  // inclusive
	Page          int
	PageSize      int
}

// BuildView merges entries from all sources into one deterministic feed:
// newest transaction first, ties broken by composite ID so two runs over
// the same data always paginate identically.
func BuildView(entries []LedgerEntry, query LedgerQuery) ([]LedgerEntry, int) {
	filtered := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if query.Matches(e) {
			filtered = append(filtered, e)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].TransactionDate.Equal(filtered[j].TransactionDate) {
			return filtered[i].TransactionDate.After(filtered[j].TransactionDate)
		}
		return filtered[i].ID > filtered[j].ID
	})

	total := len(filtered)
	return paginate(filtered, query.Page, query.PageSize), total
}

// Matches reports whether the entry passes every set filter
func (q LedgerQuery) Matches(e LedgerEntry) bool {
	if q.PaymentType != "" && e.PaymentType != q.PaymentType {
		return false
	}
	if q.FlowDirection != "" && e.FlowDirection != q.FlowDirection {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if q.SourceKind != "" && e.SourceKind != q.SourceKind {
		return false
	}
	if q.LinkedType != "" && e.LinkedType != q.LinkedType {
		return false
	}
	if q.CompositeID != "" && e.ID != q.CompositeID {
		return false
	}
	if len(q.TenantUnitIDs) > 0 {
		if e.TenantUnitID == nil {
			return false
		}
		found := false
		for _, id := range q.TenantUnitIDs {
			if *e.TenantUnitID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.From != nil && e.TransactionDate.Before(*q.From) {
		return false
	}
	if q.To != nil && e.TransactionDate.After(*q.To) {
		return false
	}
	return true
}

func paginate(entries []LedgerEntry, page, pageSize int) []LedgerEntry {
	if pageSize <= 0 {
		return entries
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []LedgerEntry{}
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
