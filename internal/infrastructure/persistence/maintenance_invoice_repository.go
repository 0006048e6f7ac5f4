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

// GormMaintenanceInvoiceRepository implements billing.MaintenanceInvoiceRepository using GORM
type GormMaintenanceInvoiceRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceInvoiceRepository creates a new GormMaintenanceInvoiceRepository
func NewGormMaintenanceInvoiceRepository(db *gorm.DB) *GormMaintenanceInvoiceRepository {
	return &GormMaintenanceInvoiceRepository{db: db}
}

// Save creates or updates a maintenance invoice
func (r *GormMaintenanceInvoiceRepository) Save(ctx context.Context, invoice *billing.MaintenanceInvoice) error {
	model := models.MaintenanceInvoiceModelFromDomain(invoice)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormMaintenanceInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.MaintenanceInvoice) error {
	model := models.MaintenanceInvoiceModelFromDomain(invoice)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a maintenance invoice by its ID
func (r *GormMaintenanceInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.MaintenanceInvoice, error) {
	var model models.MaintenanceInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForLandlord finds a maintenance invoice by ID scoped to a landlord
func (r *GormMaintenanceInvoiceRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*billing.MaintenanceInvoice, error) {
	var model models.MaintenanceInvoiceModel
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

// FindByLandlord finds all maintenance invoices for a landlord
func (r *GormMaintenanceInvoiceRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*billing.MaintenanceInvoice, error) {
	var invoiceModels []models.MaintenanceInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("due_date DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainMaintenanceInvoices(invoiceModels), nil
}

// FindByTenantUnit finds maintenance invoices for a lease
func (r *GormMaintenanceInvoiceRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.MaintenanceInvoice, error) {
	var invoiceModels []models.MaintenanceInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ?", landlordID, tenantUnitID).
		Order("due_date DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainMaintenanceInvoices(invoiceModels), nil
}

// FindOpenByTenantUnit finds invoices still accepting payment, oldest due date first
func (r *GormMaintenanceInvoiceRepository) FindOpenByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.MaintenanceInvoice, error) {
	openStatuses := []string{
		string(billing.MaintenanceInvoiceStatusApproved),
		string(billing.MaintenanceInvoiceStatusSent),
		string(billing.MaintenanceInvoiceStatusOverdue),
	}
	var invoiceModels []models.MaintenanceInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ? AND status IN ?", landlordID, tenantUnitID, openStatuses).
		Order("due_date ASC, created_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainMaintenanceInvoices(invoiceModels), nil
}

func toDomainMaintenanceInvoices(invoiceModels []models.MaintenanceInvoiceModel) []*billing.MaintenanceInvoice {
	invoices := make([]*billing.MaintenanceInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}

var _ billing.MaintenanceInvoiceRepository = (*GormMaintenanceInvoiceRepository)(nil)
