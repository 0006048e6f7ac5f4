package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerServiceFixture struct {
	service    *LedgerService
	entryRepo  *MockPaymentEntryRepository
	recordRepo *MockFinancialRecordRepository
	refundRepo *MockDepositRefundRepository
	unitRepo   *MockTenantUnitRepository
}

func newLedgerServiceFixture() *ledgerServiceFixture {
	entryRepo := new(MockPaymentEntryRepository)
	recordRepo := new(MockFinancialRecordRepository)
	refundRepo := new(MockDepositRefundRepository)
	unitRepo := new(MockTenantUnitRepository)

	return &ledgerServiceFixture{
		service:    NewLedgerService(entryRepo, recordRepo, refundRepo, unitRepo, staticCurrencyResolver{}, valueobject.USD),
		entryRepo:  entryRepo,
		recordRepo: recordRepo,
		refundRepo: refundRepo,
		unitRepo:   unitRepo,
	}
}

func completedEntry(t *testing.T, landlordID uuid.UUID, amount int64, txDate time.Time) *ledger.PaymentEntry {
	t.Helper()
	entry, err := ledger.NewPaymentEntry(landlordID, uuid.New(), ledger.NewPaymentEntryParams{
		PaymentType:     ledger.PaymentTypeRent,
		Amount:          decimal.NewFromInt(amount),
		Status:          ledger.EntryStatusCompleted,
		TransactionDate: txDate,
	})
	require.NoError(t, err)
	return entry
}

func legacyRecord(landlordID uuid.UUID, recordType string, amount int64, txDate time.Time) *ledger.FinancialRecord {
	return &ledger.FinancialRecord{
		BaseEntity:      shared.NewBaseEntity(),
		LandlordID:      landlordID,
		Type:            recordType,
		Amount:          decimal.NewFromInt(amount),
		Status:          ledger.FinancialStatusCompleted,
		TransactionDate: txDate,
	}
}

func legacyRefund(landlordID uuid.UUID, amount int64, refundDate time.Time) *ledger.DepositRefund {
	return &ledger.DepositRefund{
		BaseEntity:   shared.NewBaseEntity(),
		LandlordID:   landlordID,
		RefundAmount: decimal.NewFromInt(amount),
		Status:       ledger.RefundStatusProcessed,
		RefundDate:   refundDate,
	}
}

func TestLedgerService_ListUnifiedPayments(t *testing.T) {
	landlordID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("merges all three sources newest first", func(t *testing.T) {
		f := newLedgerServiceFixture()

		f.unitRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*billing.TenantUnit{}, nil)
		f.entryRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.PaymentEntry{
			completedEntry(t, landlordID, 1200, base.AddDate(0, 0, 2)),
		}, nil)
		f.recordRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.FinancialRecord{
			legacyRecord(landlordID, ledger.FinancialTypeRent, 1100, base.AddDate(0, 0, 1)),
		}, nil)
		f.refundRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.DepositRefund{
			legacyRefund(landlordID, 500, base),
		}, nil)

		result, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{})

		require.NoError(t, err)
		require.Len(t, result.Entries, 3)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, ledger.SourceKindNative, result.Entries[0].SourceKind)
		assert.Equal(t, ledger.SourceKindLegacyFinancial, result.Entries[1].SourceKind)
		assert.Equal(t, ledger.SourceKindLegacyRefund, result.Entries[2].SourceKind)
	})

	t.Run("filters by source kind", func(t *testing.T) {
		f := newLedgerServiceFixture()

		f.unitRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*billing.TenantUnit{}, nil)
		f.entryRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.PaymentEntry{
			completedEntry(t, landlordID, 1200, base),
		}, nil)
		f.recordRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.FinancialRecord{
			legacyRecord(landlordID, ledger.FinancialTypeRent, 1100, base),
		}, nil)
		f.refundRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.DepositRefund{}, nil)

		result, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{
			SourceKind: ledger.SourceKindLegacyFinancial,
		})

		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, ledger.SourceKindLegacyFinancial, result.Entries[0].SourceKind)
	})

	t.Run("filters by linked type and composite ID", func(t *testing.T) {
		f := newLedgerServiceFixture()

		invoiceID := uuid.New()
		linked := completedEntry(t, landlordID, 1200, base)
		linked.LinkedType = ledger.LinkTargetRentInvoice
		linked.LinkedID = &invoiceID
		unlinked := completedEntry(t, landlordID, 800, base)

		f.unitRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*billing.TenantUnit{}, nil)
		f.entryRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.PaymentEntry{linked, unlinked}, nil)
		f.recordRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.FinancialRecord{}, nil)
		f.refundRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.DepositRefund{}, nil)

		byLink, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{
			LinkedType: ledger.LinkTargetRentInvoice,
		})
		require.NoError(t, err)
		require.Len(t, byLink.Entries, 1)
		assert.Equal(t, linked.ID, byLink.Entries[0].RecordID)

		byID, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{
			CompositeID: unlinked.CompositeID(),
		})
		require.NoError(t, err)
		require.Len(t, byID.Entries, 1)
		assert.Equal(t, unlinked.CompositeID(), byID.Entries[0].ID)
	})

	t.Run("unit filter resolves to that unit's leases", func(t *testing.T) {
		f := newLedgerServiceFixture()
		unitID := uuid.New()

		lease, err := billing.NewTenantUnit(landlordID, unitID, "Ama Mensah", decimal.NewFromInt(900), valueobject.USD)
		require.NoError(t, err)

		entryOnLease, err := ledger.NewPaymentEntry(landlordID, uuid.New(), ledger.NewPaymentEntryParams{
			TenantUnitID:    &lease.ID,
			PaymentType:     ledger.PaymentTypeRent,
			Amount:          decimal.NewFromInt(900),
			Status:          ledger.EntryStatusCompleted,
			TransactionDate: base,
		})
		require.NoError(t, err)

		f.unitRepo.On("FindByUnit", mock.Anything, landlordID, unitID).Return([]*billing.TenantUnit{lease}, nil)
		f.unitRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*billing.TenantUnit{lease}, nil)
		f.entryRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.PaymentEntry{
			entryOnLease,
			completedEntry(t, landlordID, 1200, base), // no lease, must be filtered out
		}, nil)
		f.recordRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.FinancialRecord{}, nil)
		f.refundRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.DepositRefund{}, nil)

		result, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{
			UnitID: &unitID,
		})

		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, lease.ID, *result.Entries[0].TenantUnitID)
	})

	t.Run("unit with no leases yields empty feed", func(t *testing.T) {
		f := newLedgerServiceFixture()
		unitID := uuid.New()

		f.unitRepo.On("FindByUnit", mock.Anything, landlordID, unitID).Return([]*billing.TenantUnit{}, nil)

		result, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{
			UnitID: &unitID,
		})

		require.NoError(t, err)
		assert.Empty(t, result.Entries)
		f.entryRepo.AssertNotCalled(t, "FindByLandlord", mock.Anything, mock.Anything)
	})

	t.Run("active lease currency backfills legacy rows", func(t *testing.T) {
		f := newLedgerServiceFixture()

		lease, err := billing.NewTenantUnit(landlordID, uuid.New(), "Ama Mensah", decimal.NewFromInt(900), valueobject.KES)
		require.NoError(t, err)

		f.unitRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*billing.TenantUnit{lease}, nil)
		f.entryRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.PaymentEntry{}, nil)
		f.recordRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.FinancialRecord{
			legacyRecord(landlordID, ledger.FinancialTypeRent, 1100, base),
		}, nil)
		f.refundRepo.On("FindByLandlord", mock.Anything, landlordID).Return([]*ledger.DepositRefund{}, nil)

		result, err := f.service.ListUnifiedPayments(context.Background(), landlordID, ListPaymentsQuery{})

		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, valueobject.KES, result.Entries[0].Currency)
	})
}
