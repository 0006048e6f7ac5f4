package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// CurrencyResolver resolves the display currency for a landlord. The
// authoritative value always wins; implementations may cache.
type CurrencyResolver interface {
	Resolve(ctx context.Context, landlordID uuid.UUID, authoritative valueobject.Currency) valueobject.Currency
}

// LedgerService materializes the unified payment feed from the three
// heterogeneous sources: native payment entries, legacy financial records
// and legacy deposit refunds.
type LedgerService struct {
	entryRepo  ledger.PaymentEntryRepository
	recordRepo ledger.FinancialRecordRepository
	refundRepo ledger.DepositRefundRepository
	unitRepo   billing.TenantUnitRepository
	normalizer *ledger.Normalizer
	currency   CurrencyResolver
	defCurr    valueobject.Currency
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	entryRepo ledger.PaymentEntryRepository,
	recordRepo ledger.FinancialRecordRepository,
	refundRepo ledger.DepositRefundRepository,
	unitRepo billing.TenantUnitRepository,
	currency CurrencyResolver,
	defaultCurrency valueobject.Currency,
) *LedgerService {
	if defaultCurrency == "" {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &LedgerService{
		entryRepo:  entryRepo,
		recordRepo: recordRepo,
		refundRepo: refundRepo,
		unitRepo:   unitRepo,
		normalizer: ledger.NewNormalizer(),
		currency:   currency,
		defCurr:    defaultCurrency,
	}
}

// ListPaymentsQuery narrows the unified payment feed. A UnitID filter is
// resolved to the leases attached to that unit.
type ListPaymentsQuery struct {
	UnitID        *uuid.UUID
	TenantUnitID  *uuid.UUID
	PaymentType   ledger.PaymentType
	FlowDirection ledger.FlowDirection
	Status        ledger.EntryStatus
	SourceKind    ledger.SourceKind
	LinkedType    ledger.LinkTargetType
	CompositeID   string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// ListPaymentsResult is one page of the unified feed
type ListPaymentsResult struct {
	Entries  []ledger.LedgerEntry `json:"entries"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// ListUnifiedPayments returns one deterministic, filterable feed spanning
// all three payment sources for a landlord.
func (s *LedgerService) ListUnifiedPayments(ctx context.Context, landlordID uuid.UUID, query ListPaymentsQuery) (*ListPaymentsResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "list_unified_payments")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLandlordID, landlordID.String())

	tenantUnitIDs, err := s.resolveTenantUnits(ctx, landlordID, query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if query.UnitID != nil && len(tenantUnitIDs) == 0 {
		// the unit has no leases, so the feed is empty by construction
		return &ListPaymentsResult{Entries: []ledger.LedgerEntry{}, Page: query.Page, PageSize: query.PageSize}, nil
	}

	entries, err := s.GatherEntries(ctx, landlordID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	view, total := ledger.BuildView(entries, ledger.LedgerQuery{
		PaymentType:   query.PaymentType,
		FlowDirection: query.FlowDirection,
		Status:        query.Status,
		SourceKind:    query.SourceKind,
		LinkedType:    query.LinkedType,
		CompositeID:   query.CompositeID,
		TenantUnitIDs: tenantUnitIDs,
		From:          query.From,
		To:            query.To,
		Page:          query.Page,
		PageSize:      query.PageSize,
	})

	telemetry.SetAttribute(span, "result_count", len(view))

	return &ListPaymentsResult{
		Entries:  view,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// GatherEntries normalizes every source record for a landlord into
// canonical ledger entries. Normalization is total, so the count always
// equals the sum of the source row counts.
func (s *LedgerService) GatherEntries(ctx context.Context, landlordID uuid.UUID) ([]ledger.LedgerEntry, error) {
	fallback := s.fallbackCurrency(ctx, landlordID)

	nativeEntries, err := s.entryRepo.FindByLandlord(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment entries: %w", err)
	}
	records, err := s.recordRepo.FindByLandlord(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load financial records: %w", err)
	}
	refunds, err := s.refundRepo.FindByLandlord(ctx, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deposit refunds: %w", err)
	}

	entries := make([]ledger.LedgerEntry, 0, len(nativeEntries)+len(records)+len(refunds))
	for _, e := range nativeEntries {
		entries = append(entries, s.normalizer.NormalizePaymentEntry(e, fallback))
	}
	for _, r := range records {
		entries = append(entries, s.normalizer.NormalizeFinancialRecord(r, fallback))
	}
	for _, r := range refunds {
		entries = append(entries, s.normalizer.NormalizeDepositRefund(r, fallback))
	}
	return entries, nil
}

// resolveTenantUnits turns the query's unit/lease filters into a concrete
// lease ID list
func (s *LedgerService) resolveTenantUnits(ctx context.Context, landlordID uuid.UUID, query ListPaymentsQuery) ([]uuid.UUID, error) {
	if query.TenantUnitID != nil {
		return []uuid.UUID{*query.TenantUnitID}, nil
	}
	if query.UnitID == nil {
		return nil, nil
	}

	units, err := s.unitRepo.FindByUnit(ctx, landlordID, *query.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit leases: %w", err)
	}
	ids := make([]uuid.UUID, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids, nil
}

// DisplayCurrency returns the currency ledger rows without one of their
// own are presented in for a landlord.
func (s *LedgerService) DisplayCurrency(ctx context.Context, landlordID uuid.UUID) valueobject.Currency {
	return s.fallbackCurrency(ctx, landlordID)
}

// fallbackCurrency picks the currency for legacy rows that carry none of
// their own: the landlord's configured currency, taken from an active
// lease when one exists.
func (s *LedgerService) fallbackCurrency(ctx context.Context, landlordID uuid.UUID) valueobject.Currency {
	authoritative := s.defCurr
	units, err := s.unitRepo.FindByLandlord(ctx, landlordID)
	if err == nil {
		for _, u := range units {
			if u.Status == billing.TenantUnitStatusActive && u.Currency != "" {
				authoritative = u.Currency
				break
			}
		}
	}
	if s.currency == nil {
		return authoritative
	}
	return s.currency.Resolve(ctx, landlordID, authoritative)
}
