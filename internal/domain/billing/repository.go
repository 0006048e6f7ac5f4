package billing

import (
	"context"

	"github.com/google/uuid"
)

// TenantUnitRepository persists leases
type TenantUnitRepository interface {
	Save(ctx context.Context, unit *TenantUnit) error
	// SaveWithLock persists the unit only if its version matches the
	// stored row, returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, unit *TenantUnit) error
	FindByID(ctx context.Context, id uuid.UUID) (*TenantUnit, error)
	FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*TenantUnit, error)
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*TenantUnit, error)
	// FindByUnit resolves the leases attached to a physical unit
	FindByUnit(ctx context.Context, landlordID, unitID uuid.UUID) ([]*TenantUnit, error)
}

// RentInvoiceRepository persists rent invoices
type RentInvoiceRepository interface {
	Save(ctx context.Context, invoice *RentInvoice) error
	SaveWithLock(ctx context.Context, invoice *RentInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*RentInvoice, error)
	FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*RentInvoice, error)
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*RentInvoice, error)
	FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*RentInvoice, error)
	// FindOpenByTenantUnit returns invoices still accepting payment,
	// ordered by due date ascending.
	FindOpenByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*RentInvoice, error)
}

// MaintenanceInvoiceRepository persists maintenance invoices
type MaintenanceInvoiceRepository interface {
	Save(ctx context.Context, invoice *MaintenanceInvoice) error
	SaveWithLock(ctx context.Context, invoice *MaintenanceInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*MaintenanceInvoice, error)
	FindByIDForLandlord(ctx context.Context, id, landlordID uuid.UUID) (*MaintenanceInvoice, error)
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*MaintenanceInvoice, error)
	FindByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*MaintenanceInvoice, error)
	FindOpenByTenantUnit(ctx context.Context, landlordID, tenantUnitID uuid.UUID) ([]*MaintenanceInvoice, error)
}
