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

// GormPaymentEntryRepository implements ledger.PaymentEntryRepository using GORM
type GormPaymentEntryRepository struct {
	db *gorm.DB
}

// NewGormPaymentEntryRepository creates a new GormPaymentEntryRepository
func NewGormPaymentEntryRepository(db *gorm.DB) *GormPaymentEntryRepository {
	return &GormPaymentEntryRepository{db: db}
}

// Save creates or updates a payment entry
func (r *GormPaymentEntryRepository) Save(ctx context.Context, entry *ledger.PaymentEntry) error {
	model := models.PaymentEntryModelFromDomain(entry)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The update only lands if the
// stored row still carries the previous version.
func (r *GormPaymentEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.PaymentEntry) error {
	model := models.PaymentEntryModelFromDomain(entry)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", entry.ID, entry.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a payment entry by its ID
func (r *GormPaymentEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForLandlord finds a payment entry by ID scoped to a landlord
func (r *GormPaymentEntryRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*ledger.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND id = ?", landlordID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLandlord finds all payment entries for a landlord
func (r *GormPaymentEntryRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*ledger.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("transaction_date DESC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByTenantUnit finds payment entries for a lease
func (r *GormPaymentEntryRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*ledger.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ?", landlordID, tenantUnitID).
		Order("transaction_date DESC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByLink finds entries directly linked to the given document
func (r *GormPaymentEntryRepository) FindByLink(ctx context.Context, landlordID uuid.UUID, target ledger.LinkTargetType, targetID uuid.UUID) ([]*ledger.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND linked_type = ? AND linked_id = ?", landlordID, target, targetID).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// Delete removes a payment entry
func (r *GormPaymentEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.PaymentEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainEntries(entryModels []models.PaymentEntryModel) []*ledger.PaymentEntry {
	entries := make([]*ledger.PaymentEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries
}

var _ ledger.PaymentEntryRepository = (*GormPaymentEntryRepository)(nil)
