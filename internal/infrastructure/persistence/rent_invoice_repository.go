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

// GormRentInvoiceRepository implements billing.RentInvoiceRepository using GORM
type GormRentInvoiceRepository struct {
	db *gorm.DB
}

// NewGormRentInvoiceRepository creates a new GormRentInvoiceRepository
func NewGormRentInvoiceRepository(db *gorm.DB) *GormRentInvoiceRepository {
	return &GormRentInvoiceRepository{db: db}
}

// Save creates or updates a rent invoice
func (r *GormRentInvoiceRepository) Save(ctx context.Context, invoice *billing.RentInvoice) error {
	model := models.RentInvoiceModelFromDomain(invoice)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormRentInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.RentInvoice) error {
	model := models.RentInvoiceModelFromDomain(invoice)
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

// FindByID finds a rent invoice by its ID
func (r *GormRentInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RentInvoice, error) {
	var model models.RentInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForLandlord finds a rent invoice by ID scoped to a landlord
func (r *GormRentInvoiceRepository) FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*billing.RentInvoice, error) {
	var model models.RentInvoiceModel
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

// FindByLandlord finds all rent invoices for a landlord
func (r *GormRentInvoiceRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*billing.RentInvoice, error) {
	var invoiceModels []models.RentInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("due_date DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainRentInvoices(invoiceModels), nil
}

// FindByTenantUnit finds rent invoices for a lease
func (r *GormRentInvoiceRepository) FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.RentInvoice, error) {
	var invoiceModels []models.RentInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ?", landlordID, tenantUnitID).
		Order("due_date DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainRentInvoices(invoiceModels), nil
}

// FindOpenByTenantUnit finds invoices still accepting payment, oldest due date first
func (r *GormRentInvoiceRepository) FindOpenByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*billing.RentInvoice, error) {
	openStatuses := []string{
		string(billing.RentInvoiceStatusGenerated),
		string(billing.RentInvoiceStatusSent),
		string(billing.RentInvoiceStatusOverdue),
	}
	var invoiceModels []models.RentInvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("landlord_id = ? AND tenant_unit_id = ? AND status IN ?", landlordID, tenantUnitID, openStatuses).
		Order("due_date ASC, created_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainRentInvoices(invoiceModels), nil
}

func toDomainRentInvoices(invoiceModels []models.RentInvoiceModel) []*billing.RentInvoice {
	invoices := make([]*billing.RentInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}

var _ billing.RentInvoiceRepository = (*GormRentInvoiceRepository)(nil)
