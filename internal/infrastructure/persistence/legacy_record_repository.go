package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFinancialRecordRepository implements ledger.FinancialRecordRepository
// using GORM. The legacy table is never written from here.
type GormFinancialRecordRepository struct {
	db *gorm.DB
}

// NewGormFinancialRecordRepository creates a new GormFinancialRecordRepository
func NewGormFinancialRecordRepository(db *gorm.DB) *GormFinancialRecordRepository {
	return &GormFinancialRecordRepository{db: db}
}

// FindByID finds a financial record by its ID
func (r *GormFinancialRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialRecord, error) {
	var model models.FinancialRecordModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLandlord finds all financial records for a landlord
func (r *GormFinancialRecordRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*ledger.FinancialRecord, error) {
	var recordModels []models.FinancialRecordModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("transaction_date DESC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainRecords(recordModels), nil
}

// FindByTenantUnit finds financial records for a lease
func (r *GormFinancialRecordRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*ledger.FinancialRecord, error) {
	var recordModels []models.FinancialRecordModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ?", landlordID, tenantUnitID).
		Order("transaction_date DESC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainRecords(recordModels), nil
}

func toDomainRecords(recordModels []models.FinancialRecordModel) []*ledger.FinancialRecord {
	records := make([]*ledger.FinancialRecord, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records
}

var _ ledger.FinancialRecordRepository = (*GormFinancialRecordRepository)(nil)

// GormDepositRefundRepository implements ledger.DepositRefundRepository
// using GORM, read-only like the financial record repository.
type GormDepositRefundRepository struct {
	db *gorm.DB
}

// NewGormDepositRefundRepository creates a new GormDepositRefundRepository
func NewGormDepositRefundRepository(db *gorm.DB) *GormDepositRefundRepository {
	return &GormDepositRefundRepository{db: db}
}

// FindByLandlord finds all deposit refunds for a landlord
func (r *GormDepositRefundRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*ledger.DepositRefund, error) {
	var refundModels []models.DepositRefundModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("refund_date DESC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	return toDomainRefunds(refundModels), nil
}

// FindByTenantUnit finds deposit refunds for a lease
func (r *GormDepositRefundRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*ledger.DepositRefund, error) {
	var refundModels []models.DepositRefundModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ?", landlordID, tenantUnitID).
		Order("refund_date DESC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	return toDomainRefunds(refundModels), nil
}

func toDomainRefunds(refundModels []models.DepositRefundModel) []*ledger.DepositRefund {
	refunds := make([]*ledger.DepositRefund, len(refundModels))
	for i := range refundModels {
		refunds[i] = refundModels[i].ToDomain()
	}
	return refunds
}

var _ ledger.DepositRefundRepository = (*GormDepositRefundRepository)(nil)
