package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock repositories shared across the payments service tests
// =============================================================================

type MockPaymentEntryRepository struct {
	mock.Mock
}

func (m *MockPaymentEntryRepository) Save(ctx context.Context, entry *ledger.PaymentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPaymentEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.PaymentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPaymentEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*ledger.PaymentEntry, error) {
	args := m.Called(ctx, id, landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*ledger.PaymentEntry, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*ledger.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*ledger.PaymentEntry, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*ledger.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindByLink(ctx context.Context, landlordID uuid.UUID, target ledger.LinkTargetType, targetID uuid.UUID) ([]*ledger.PaymentEntry, error) {
	args := m.Called(ctx, landlordID, target, targetID)
	return args.Get(0).([]*ledger.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFinancialRecordRepository struct {
	mock.Mock
}

func (m *MockFinancialRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*ledger.FinancialRecord, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*ledger.FinancialRecord), args.Error(1)
}

func (m *MockFinancialRecordRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*ledger.FinancialRecord, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*ledger.FinancialRecord), args.Error(1)
}

type MockDepositRefundRepository struct {
	mock.Mock
}

func (m *MockDepositRefundRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*ledger.DepositRefund, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*ledger.DepositRefund), args.Error(1)
}

func (m *MockDepositRefundRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*ledger.DepositRefund, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*ledger.DepositRefund), args.Error(1)
}

type MockTenantUnitRepository struct {
	mock.Mock
}

func (m *MockTenantUnitRepository) Save(ctx context.Context, unit *billing.TenantUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockTenantUnitRepository) SaveWithLock(ctx context.Context, unit *billing.TenantUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockTenantUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.TenantUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TenantUnit), args.Error(1)
}

func (m *MockTenantUnitRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*billing.TenantUnit, error) {
	args := m.Called(ctx, id, landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TenantUnit), args.Error(1)
}

func (m *MockTenantUnitRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*billing.TenantUnit, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*billing.TenantUnit), args.Error(1)
}

func (m *MockTenantUnitRepository) FindByUnit(ctx context.Context, landlordID, unitID uuid.UUID) ([]*billing.TenantUnit, error) {
	args := m.Called(ctx, landlordID, unitID)
	return args.Get(0).([]*billing.TenantUnit), args.Error(1)
}

type MockRentInvoiceRepository struct {
	mock.Mock
}

func (m *MockRentInvoiceRepository) Save(ctx context.Context, invoice *billing.RentInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockRentInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.RentInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockRentInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RentInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*billing.RentInvoice, error) {
	args := m.Called(ctx, id, landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*billing.RentInvoice, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.RentInvoice, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) FindOpenByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.RentInvoice, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*billing.RentInvoice), args.Error(1)
}

type MockMaintenanceInvoiceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceInvoiceRepository) Save(ctx context.Context, invoice *billing.MaintenanceInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockMaintenanceInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.MaintenanceInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockMaintenanceInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.MaintenanceInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MaintenanceInvoice), args.Error(1)
}

func (m *MockMaintenanceInvoiceRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*billing.MaintenanceInvoice, error) {
	args := m.Called(ctx, id, landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MaintenanceInvoice), args.Error(1)
}

func (m *MockMaintenanceInvoiceRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*billing.MaintenanceInvoice, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*billing.MaintenanceInvoice), args.Error(1)
}

func (m *MockMaintenanceInvoiceRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.MaintenanceInvoice, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*billing.MaintenanceInvoice), args.Error(1)
}

func (m *MockMaintenanceInvoiceRepository) FindOpenByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.MaintenanceInvoice, error) {
	args := m.Called(ctx, landlordID, tenantUnitID)
	return args.Get(0).([]*billing.MaintenanceInvoice), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeTxManager runs the function directly, no transaction involved
type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// staticCurrencyResolver always answers with the authoritative value
type staticCurrencyResolver struct{}

func (staticCurrencyResolver) Resolve(_ context.Context, _ uuid.UUID, authoritative valueobject.Currency) valueobject.Currency {
	return authoritative
}
