package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantUnitRepository implements billing.TenantUnitRepository using GORM
type GormTenantUnitRepository struct {
	db *gorm.DB
}

// NewGormTenantUnitRepository creates a new GormTenantUnitRepository
func NewGormTenantUnitRepository(db *gorm.DB) *GormTenantUnitRepository {
	return &GormTenantUnitRepository{db: db}
}

// Save creates or updates a tenant unit
func (r *GormTenantUnitRepository) Save(ctx context.Context, unit *billing.TenantUnit) error {
	model := models.TenantUnitModelFromDomain(unit)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormTenantUnitRepository) SaveWithLock(ctx context.Context, unit *billing.TenantUnit) error {
	model := models.TenantUnitModelFromDomain(unit)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", unit.ID, unit.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a tenant unit by its ID
func (r *GormTenantUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.TenantUnit, error) {
	var model models.TenantUnitModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForLandlord finds a tenant unit by ID scoped to a landlord
func (r *GormTenantUnitRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*billing.TenantUnit, error) {
	var model models.TenantUnitModel
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

// FindByLandlord finds all tenant units for a landlord
func (r *GormTenantUnitRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*billing.TenantUnit, error) {
	var unitModels []models.TenantUnitModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}
	return toDomainTenantUnits(unitModels), nil
}

// FindByUnit finds the leases attached to a physical unit
func (r *GormTenantUnitRepository) FindByUnit(ctx context.Context, landlordID, unitID uuid.UUID) ([]*billing.TenantUnit, error) {
	var unitModels []models.TenantUnitModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND unit_id = ?", landlordID, unitID).
		Order("created_at DESC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}
	return toDomainTenantUnits(unitModels), nil
}

func toDomainTenantUnits(unitModels []models.TenantUnitModel) []*billing.TenantUnit {
	units := make([]*billing.TenantUnit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}
	return units
}

var _ billing.TenantUnitRepository = (*GormTenantUnitRepository)(nil)
