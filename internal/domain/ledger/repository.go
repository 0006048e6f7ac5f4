package ledger

import (
	"context"

	"github.com/google/uuid"
)

// PaymentEntryRepository persists native payment entries
type PaymentEntryRepository interface {
	Save(ctx context.Context, entry *PaymentEntry) error
	// SaveWithLock persists the entry only if its version matches the
	// stored row, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, entry *PaymentEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentEntry, error)
	FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*PaymentEntry, error)
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*PaymentEntry, error)
	FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*PaymentEntry, error)
	// FindByLink returns entries directly linked to the given document
	FindByLink(ctx context.Context, landlordID uuid.UUID, target LinkTargetType, targetID uuid.UUID) ([]*PaymentEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FinancialRecordRepository reads legacy financial records. The legacy
// table is owned by another system, so the interface is read-only.
type FinancialRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialRecord, error)
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*FinancialRecord, error)
	FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*FinancialRecord, error)
}

// DepositRefundRepository reads legacy security-deposit refund rows, read-only
type DepositRefundRepository interface {
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*DepositRefund, error)
	FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*DepositRefund, error)
}
